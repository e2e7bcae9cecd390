package http

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
)

var _ Multipart = (*Form)(nil)

// Form is a multipart/form-data payload assembled by the caller. Parts are
// written in the order they were added.
type Form struct {
	parts []formPart
}

type formPart struct {
	field       string
	filename    string
	value       string
	contentType string
	open        func() (io.ReadCloser, error)
}

// NewForm returns an empty form
func NewForm() *Form {
	return &Form{}
}

// AddField adds a plain text field
func (f *Form) AddField(name, value string) *Form {
	f.parts = append(f.parts, formPart{field: name, value: value})
	return f
}

// AddFile adds a file part read from r when the form is encoded. The content
// type is derived from the filename extension.
func (f *Form) AddFile(field, filename string, r io.Reader) *Form {
	f.parts = append(f.parts, formPart{
		field:       field,
		filename:    filename,
		contentType: contentTypeOf(filename),
		open: func() (io.ReadCloser, error) {
			return io.NopCloser(r), nil
		},
	})
	return f
}

// AddFileBytes adds a file part with in-memory content
func (f *Form) AddFileBytes(field, filename string, data []byte) *Form {
	return f.AddFile(field, filename, bytes.NewReader(data))
}

// AddFilePath adds the file at path. It is opened when the form is encoded,
// but its existence is checked now.
func (f *Form) AddFilePath(field, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}

	filename := filepath.Base(path)
	f.parts = append(f.parts, formPart{
		field:       field,
		filename:    filename,
		contentType: contentTypeOf(filename),
		open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
	})
	return nil
}

// Len returns the number of parts
func (f *Form) Len() int {
	return len(f.parts)
}

// Encode implements Multipart
func (f *Form) Encode(w io.Writer) (string, error) {
	if f == nil {
		return "", ErrNilForm
	}
	mw := multipart.NewWriter(w)
	for _, p := range f.parts {
		if err := p.write(mw); err != nil {
			return "", err
		}
	}
	if err := mw.Close(); err != nil {
		return "", err
	}
	return mw.FormDataContentType(), nil
}

func (p formPart) write(mw *multipart.Writer) error {
	if p.open == nil {
		return mw.WriteField(p.field, p.value)
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(p.field), quoteEscaper.Replace(p.filename)))
	h.Set(HeaderContentType, p.contentType)

	pw, err := mw.CreatePart(h)
	if err != nil {
		return err
	}

	r, err := p.open()
	if err != nil {
		return err
	}
	defer r.Close()

	if _, err := io.Copy(pw, r); err != nil {
		return fmt.Errorf("write file %s: %w", p.filename, err)
	}
	return nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func contentTypeOf(filename string) string {
	if ct := mime.TypeByExtension(filepath.Ext(filename)); ct != "" {
		return ct
	}
	return ContentTypeOctet
}
