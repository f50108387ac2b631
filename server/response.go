package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/callanalyzer/errors"
)

// DataResponse wraps every successful API payload.
type DataResponse struct {
	Data any `json:"data"`
}

// RespondOK writes data inside the success envelope.
func RespondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, DataResponse{Data: data})
}

// RespondWithError writes the error envelope. Errors that are not
// *apperrors.AppError become INTERNAL_ERROR so no raw message leaks.
func RespondWithError(c *gin.Context, err error) {
	appErr, ok := apperrors.AsAppError(err)
	if !ok {
		appErr = apperrors.Internal(err)
	}
	c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToResponse())
}
