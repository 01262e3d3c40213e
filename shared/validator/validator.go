package validator

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"sync"

	"sporti/shared/constant"
	"sporti/shared/failure"

	val "github.com/go-playground/validator/v10"
)

const megabyte = 1 << 20

var (
	once     sync.Once
	validate *val.Validate
)

func instance() *val.Validate {
	once.Do(func() {
		validate = val.New(val.WithRequiredStructEnabled())

		// report fields the way clients spell them
		validate.RegisterTagNameFunc(func(field reflect.StructField) string {
			for _, tag := range []string{"json", "form"} {
				name, _, _ := strings.Cut(field.Tag.Get(tag), ",")
				if name != "" && name != "-" {
					return name
				}
			}

			return field.Name
		})

		for tag, fn := range map[string]val.Func{
			"mimetypes":   mimeTypes,
			"maxfilesize": maxFileSize,
		} {
			if err := validate.RegisterValidation(tag, fn); err != nil {
				panic(fmt.Sprintf("register %s validation: %v", tag, err))
			}
		}
	})

	return validate
}

// dataURIContentType extracts the media type of a "data:<type>;base64,..." string.
func dataURIContentType(s string) string {
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return constant.Empty
	}

	contentType, _, ok := strings.Cut(rest, ";base64,")
	if !ok {
		return constant.Empty
	}

	return contentType
}

// mimeTypes accepts uploads whose content type is one of the space separated params.
func mimeTypes(fl val.FieldLevel) bool {
	var contentType string

	switch v := fl.Field().Interface().(type) {
	case multipart.FileHeader:
		contentType = v.Header.Get(constant.RequestHeaderContentType)
	case string:
		contentType = dataURIContentType(v)
	}

	if contentType == constant.Empty {
		return false
	}

	return slices.Contains(strings.Fields(fl.Param()), contentType)
}

// maxFileSize caps an upload at param megabytes (fractions allowed).
func maxFileSize(fl val.FieldLevel) bool {
	limit, err := strconv.ParseFloat(fl.Param(), 64)
	if err != nil {
		return false
	}

	var size int64

	switch v := fl.Field().Interface().(type) {
	case multipart.FileHeader:
		size = v.Size
	case string:
		size = int64(len(v))
	}

	return float64(size) <= limit*megabyte
}

// Validate decodes a JSON body into data and validates it.
func Validate[T any](r io.Reader, data *T) error {
	if err := json.NewDecoder(r).Decode(data); err != nil {
		return failure.BadRequest(fmt.Errorf("failed to decode request body: %w", err)) //nolint:wrapcheck
	}

	return ValidateStruct(data)
}

func ValidateStruct[T any](data *T) error {
	if err := instance().Struct(data); err != nil {
		return failure.BadRequestFromString(message(err)) //nolint:wrapcheck
	}

	return nil
}

// Satisfies reports whether field passes tag without building an error message.
func Satisfies(field any, tag string) bool {
	return instance().Var(field, tag) == nil
}

func ValidateVar(field any, tag string) error {
	if err := instance().Var(field, tag); err != nil {
		return failure.BadRequestFromString(message(err)) //nolint:wrapcheck
	}

	return nil
}
