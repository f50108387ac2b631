package httpclient

import (
	"bytes"
	"cmp"
	"io"
	"maps"
	"mime"
	"mime/multipart"
	"net/textproto"
	"slices"
)

// MultipartBody is a multipart/form-data request body. Pass it as
// Request.Body and the client sets the boundary Content-Type itself.
type MultipartBody struct {
	Fields map[string]string // written in key order, before the files
	Files  []FileField
}

// FileField is one file part of a multipart body.
type FileField struct {
	FieldName   string
	FileName    string
	ContentType string // defaults to application/octet-stream
	Data        []byte
}

func (f FileField) header() textproto.MIMEHeader {
	h := make(textproto.MIMEHeader, 2)
	h.Set("Content-Disposition", mime.FormatMediaType("form-data", map[string]string{
		"name":     f.FieldName,
		"filename": f.FileName,
	}))
	h.Set("Content-Type", cmp.Or(f.ContentType, "application/octet-stream"))
	return h
}

// encode returns the body and its Content-Type.
func (m *MultipartBody) encode() (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, k := range slices.Sorted(maps.Keys(m.Fields)) {
		if err := w.WriteField(k, m.Fields[k]); err != nil {
			return nil, "", err
		}
	}
	for _, f := range m.Files {
		part, err := w.CreatePart(f.header())
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(f.Data); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
