package transport

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
)

// Form is a file-bearing form payload. Encoding it switches the request's
// Content-Type to multipart/form-data.
type Form struct {
	fields []formField
	files  []formFile
}

type formField struct {
	name, value string
}

type formFile struct {
	field, filename string
	reader          io.Reader
}

// NewForm returns an empty multipart form.
func NewForm() *Form {
	return &Form{}
}

// Set adds a plain field. Empty values are skipped so optional fields can be
// passed through unconditionally.
func (f *Form) Set(name, value string) *Form {
	if value != "" {
		f.fields = append(f.fields, formField{name: name, value: value})
	}
	return f
}

// File attaches a file part read from r.
func (f *Form) File(field, filename string, r io.Reader) *Form {
	if r != nil {
		f.files = append(f.files, formFile{field: field, filename: filename, reader: r})
	}
	return f
}

// encode renders the form into a multipart body and its Content-Type.
func (f *Form) encode() ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, field := range f.fields {
		if err := w.WriteField(field.name, field.value); err != nil {
			return nil, "", fmt.Errorf("failed to write form field %s: %w", field.name, err)
		}
	}
	for _, file := range f.files {
		part, err := w.CreateFormFile(file.field, file.filename)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create form file %s: %w", file.field, err)
		}
		if _, err := io.Copy(part, file.reader); err != nil {
			return nil, "", fmt.Errorf("failed to copy form file %s: %w", file.field, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}
