package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestAppError_New_Success(t *testing.T) {
	err := New(ErrCodeNotFound, "not found")
	if err.Code != ErrCodeNotFound {
		t.Errorf("expected code %s, got %s", ErrCodeNotFound, err.Code)
	}
	if err.Message != "not found" {
		t.Errorf("expected message 'not found', got %q", err.Message)
	}
	if err.HTTPStatus != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, err.HTTPStatus)
	}
	if err.Retryable {
		t.Error("NOT_FOUND should not be retryable")
	}
}

func TestAppError_New_Retryable(t *testing.T) {
	err := New(ErrCodeServiceUnavailable, "down")
	if !err.Retryable {
		t.Error("SERVICE_UNAVAILABLE should be retryable")
	}
}

func TestDomainErrors_AreTerminal(t *testing.T) {
	tests := []struct {
		name   string
		err    *AppError
		code   ErrorCode
		status int
	}{
		{"no audio", NoAudioProvided(), ErrCodeNoAudioProvided, http.StatusBadRequest},
		{"missing credentials", MissingCredentials("mistral"), ErrCodeMissingCredentials, http.StatusUnauthorized},
		{"provider error", ProviderError(401, "Unauthorized"), ErrCodeProviderError, http.StatusBadGateway},
		{"transport error", TransportError("connection refused", nil), ErrCodeTransportError, http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.code {
				t.Errorf("expected code %s, got %s", tt.code, tt.err.Code)
			}
			if tt.err.HTTPStatus != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, tt.err.HTTPStatus)
			}
			if tt.err.Retryable {
				t.Errorf("%s must not be retryable", tt.code)
			}
			if tt.code.Retryable() {
				t.Errorf("%s.Retryable() should be false", tt.code)
			}
		})
	}
}

func TestProviderError_KeepsStatusAndBody(t *testing.T) {
	body := `{"message":"Unauthorized"}`
	err := ProviderError(401, body)
	if err.Details["status"] != 401 {
		t.Errorf("expected status=401, got %v", err.Details["status"])
	}
	if err.Details["body"] != body {
		t.Errorf("expected body to be kept verbatim, got %v", err.Details["body"])
	}
	if err.Message != "API Error: 401 - "+body {
		t.Errorf("unexpected message %q", err.Message)
	}
}

func TestTransportError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("dial tcp: connection refused")
	err := TransportError("request failed", cause)
	if !stderrors.Is(err, cause) {
		t.Error("expected errors.Is to find the cause")
	}
	if !strings.Contains(err.Error(), "connection refused") {
		t.Errorf("expected cause in message, got %q", err.Error())
	}
}

func TestMissingCredentials_Details(t *testing.T) {
	err := MissingCredentials("mistral")
	if err.Details["provider"] != "mistral" {
		t.Errorf("expected provider=mistral, got %v", err.Details["provider"])
	}
}

func TestAppError_NotFound_EmptyID(t *testing.T) {
	err := NotFound("route", "")
	if _, ok := err.Details["id"]; ok {
		t.Error("expected no 'id' key in details when id is empty")
	}
}

func TestRateLimited(t *testing.T) {
	err := RateLimited(30)
	if err.HTTPStatus != http.StatusTooManyRequests {
		t.Errorf("expected 429, got %d", err.HTTPStatus)
	}
	if !err.Retryable {
		t.Error("RATE_LIMITED should be retryable")
	}
	if err.Details["limit_per_minute"] != 30 {
		t.Errorf("unexpected details %v", err.Details)
	}
}

func TestAppError_Internal_Success(t *testing.T) {
	cause := fmt.Errorf("boom")
	err := Internal(cause)
	if err.Code != ErrCodeInternal {
		t.Errorf("expected INTERNAL_ERROR, got %s", err.Code)
	}
	if err.Cause != cause {
		t.Error("expected cause to be set")
	}
	if err.Retryable {
		t.Error("Internal should NOT be retryable")
	}
}

func TestInvalidInput_FieldDetail(t *testing.T) {
	err := InvalidInput("audio_url", "must be a valid URL")
	if err.Details["field"] != "audio_url" {
		t.Errorf("expected field=audio_url, got %v", err.Details["field"])
	}
	if err.HTTPStatus != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", err.HTTPStatus)
	}

	if noField := InvalidInput("", "bad"); noField.Details != nil {
		t.Errorf("expected no details, got %v", noField.Details)
	}
}

func TestAppError_WithDetails(t *testing.T) {
	err := Validation("bad request").
		WithDetails(map[string]any{"a": 1}).
		WithDetails(map[string]any{"b": 2, "a": 3})
	if len(err.Details) != 2 || err.Details["a"] != 3 {
		t.Errorf("expected merged details, got %v", err.Details)
	}
}

func TestErrorCodeStatus(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want int
	}{
		{ErrCodeMissingCredentials, http.StatusUnauthorized},
		{ErrCodeTransportError, http.StatusBadGateway},
		{ErrCodeRateLimited, http.StatusTooManyRequests},
		{ErrorCode("SOMETHING_NEW"), http.StatusInternalServerError},
	}
	for _, tc := range tests {
		if got := tc.code.Status(); got != tc.want {
			t.Errorf("%s.Status() = %d, want %d", tc.code, got, tc.want)
		}
	}
}

func TestWrap(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		if Wrap(nil, "x") != nil {
			t.Error("expected nil for nil error")
		}
	})
	t.Run("app error passes through", func(t *testing.T) {
		orig := NoAudioProvided()
		if got := Wrap(fmt.Errorf("outer: %w", orig), "ignored"); got != orig {
			t.Errorf("expected original AppError, got %v", got)
		}
	})
	t.Run("plain error becomes internal", func(t *testing.T) {
		got := Wrap(fmt.Errorf("disk full"), "could not write")
		if got.Code != ErrCodeInternal {
			t.Errorf("expected INTERNAL_ERROR, got %s", got.Code)
		}
		if got.Message != "could not write" {
			t.Errorf("unexpected message %q", got.Message)
		}
	})
}

func TestToResponse_JSON(t *testing.T) {
	resp := ProviderError(500, "oops").ToResponse()
	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded map[string]map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	body := decoded["error"]
	if body["code"] != string(ErrCodeProviderError) {
		t.Errorf("unexpected code %v", body["code"])
	}
	if body["retryable"] != false {
		t.Errorf("expected retryable=false, got %v", body["retryable"])
	}
	details, ok := body["details"].(map[string]any)
	if !ok || details["body"] != "oops" {
		t.Errorf("expected details.body=oops, got %v", body["details"])
	}
}

func TestAsAppError(t *testing.T) {
	wrapped := fmt.Errorf("ctx: %w", MissingCredentials("mistral"))
	appErr, ok := AsAppError(wrapped)
	if !ok || appErr.Code != ErrCodeMissingCredentials {
		t.Errorf("expected to unwrap MISSING_CREDENTIALS, got %v", appErr)
	}
	if _, ok := AsAppError(fmt.Errorf("plain")); ok {
		t.Error("AsAppError should be false for plain errors")
	}
	if _, ok := AsAppError(nil); ok {
		t.Error("AsAppError(nil) should be false")
	}
}

func TestStatusOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 200},
		{"plain", fmt.Errorf("boom"), 500},
		{"wrapped app error", fmt.Errorf("ctx: %w", RateLimited(10)), 429},
		{"body too large", BodyTooLarge(1024), 413},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := StatusOf(tc.err); got != tc.want {
				t.Errorf("StatusOf() = %d, want %d", got, tc.want)
			}
		})
	}
}
