// Package upload validates multipart image submissions and accepts the image
// onto storage only after every check has passed.
package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"

	apperrors "blogapi/internal/errors"
	"blogapi/internal/storage"
)

const (
	// formMemory is kept in memory while parsing; larger parts spill to temp files.
	formMemory = 1 << 20
	// formOverhead is allowed on top of the file limit for the text fields.
	formOverhead = 1 << 20
)

// FileSaver persists a stream under name, refusing more than limit bytes.
type FileSaver interface {
	Save(ctx context.Context, name string, r io.Reader, limit int64) (int64, error)
}

// Upload is an accepted submission. Image is empty when the request carried
// no file and the policy allowed that.
type Upload struct {
	Form  Form
	Image string
	Size  int64
}

// Gate checks requests against a Policy.
type Gate struct {
	files FileSaver
	now   func() time.Time
}

// NewGate creates a Gate that stores accepted files through files.
func NewGate(files FileSaver) *Gate {
	return &Gate{files: files, now: time.Now}
}

// Accept validates r against p and, if valid, stores the attached image.
// Checks run in a fixed order: required fields, file presence, declared
// content type, declared size, sniffed content type. Nothing is written to
// storage unless all of them pass.
func (g *Gate) Accept(ctx context.Context, r *http.Request, p Policy) (*Upload, error) {
	limit := p.MaxBytes + formOverhead
	if r.ContentLength > limit {
		return nil, fmt.Errorf("%w: request exceeds %d bytes", apperrors.ErrPayloadTooLarge, p.MaxBytes)
	}
	r.Body = http.MaxBytesReader(nil, r.Body, limit)
	if err := r.ParseMultipartForm(formMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, fmt.Errorf("%w: request exceeds %d bytes", apperrors.ErrPayloadTooLarge, p.MaxBytes)
		}
		return nil, fmt.Errorf("%w: expected multipart/form-data: %v", apperrors.ErrValidation, err)
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	form := Form(r.MultipartForm.Value)
	var missing []string
	for _, field := range p.Required {
		if !form.Has(field) {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing fields: %s", apperrors.ErrValidation, strings.Join(missing, ", "))
	}

	out := &Upload{Form: form}
	headers := r.MultipartForm.File[p.FileField]
	if len(headers) == 0 {
		if p.FileRequired {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrMissingFile, p.FileField)
		}
		return out, nil
	}
	hdr := headers[0]

	declared := mediaType(hdr.Header.Get("Content-Type"))
	if !p.allows(declared) {
		return nil, fmt.Errorf("%w: %q", apperrors.ErrUnsupportedMediaType, declared)
	}
	if hdr.Size > p.MaxBytes {
		return nil, fmt.Errorf("%w: %d bytes exceeds %d", apperrors.ErrPayloadTooLarge, hdr.Size, p.MaxBytes)
	}

	name, size, err := g.store(ctx, hdr, p, form.Get(p.NameField))
	if err != nil {
		return nil, err
	}
	out.Image = name
	out.Size = size
	return out, nil
}

func (g *Gate) store(ctx context.Context, hdr *multipart.FileHeader, p Policy, key string) (string, int64, error) {
	src, err := hdr.Open()
	if err != nil {
		return "", 0, fmt.Errorf("%w: open upload: %v", apperrors.ErrFileSystem, err)
	}
	defer src.Close()

	sniffed, err := mimetype.DetectReader(src)
	if err != nil {
		return "", 0, fmt.Errorf("%w: read upload: %v", apperrors.ErrFileSystem, err)
	}
	if !p.allows(sniffed.String()) {
		return "", 0, fmt.Errorf("%w: content is %q", apperrors.ErrUnsupportedMediaType, sniffed.String())
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return "", 0, fmt.Errorf("%w: rewind upload: %v", apperrors.ErrFileSystem, err)
	}

	name := storedName(key, p.Fallback, hdr.Filename, g.now())
	size, err := g.files.Save(ctx, name, src, p.MaxBytes)
	switch {
	case errors.Is(err, storage.ErrLimitExceeded):
		return "", 0, fmt.Errorf("%w: more than %d bytes", apperrors.ErrPayloadTooLarge, p.MaxBytes)
	case err != nil:
		return "", 0, fmt.Errorf("%w: store upload: %v", apperrors.ErrFileSystem, err)
	}
	return name, size, nil
}

func mediaType(header string) string {
	mt, _, err := mime.ParseMediaType(header)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(header))
	}
	return mt
}
