package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

const multipartMemory = 1 << 20

var validate = newValidator() //nolint:gochecknoglobals // validator caches struct metadata and is safe for concurrent use

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("form"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// upload is a résumé received as the multipart field "file".
type upload struct {
	Filename string `form:"file" validate:"required"`
	Data     []byte
}

type targetForm struct {
	JobTitle    string `form:"job_title" validate:"required"`
	Governorate string `form:"governorate" validate:"required"`
	Level       string `form:"level" validate:"required"`
}

type analyzeForm struct {
	UserID string `form:"user_id" validate:"required,max=128"`
}

// parseForm reads the multipart body once, bounded by limit.
func parseForm(w http.ResponseWriter, r *http.Request, limit int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return fmt.Errorf("%w: limit is %d bytes", ErrPayloadTooLarge, tooLarge.Limit)
		}
		return fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	return nil
}

// readUpload returns the "file" part of a parsed multipart form.
func readUpload(r *http.Request) (upload, error) {
	file, header, err := r.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return upload{}, fmt.Errorf("%w: missing file", ErrBadRequest)
		}
		return upload{}, fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return upload{}, fmt.Errorf("%w: read file: %w", ErrBadRequest, err)
	}
	u := upload{Filename: strings.TrimSpace(header.Filename), Data: data}
	if err := check(u); err != nil {
		return upload{}, err
	}
	return u, nil
}

// check validates a form struct and reports the first failing field.
func check(form any) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		if fe.Tag() == "required" {
			return fmt.Errorf("%w: missing %s", ErrBadRequest, fe.Field())
		}
		return fmt.Errorf("%w: invalid %s", ErrBadRequest, fe.Field())
	}
	return fmt.Errorf("%w: %w", ErrBadRequest, err)
}

func formValue(r *http.Request, key string) string {
	return strings.TrimSpace(r.FormValue(key))
}
