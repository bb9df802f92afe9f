package api

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/lueurxax/soundscape/internal/core/domain"
)

const (
	codeValidation = "VALIDATION_ERROR"
	tagEmotion     = "emotion"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// FieldError is one failed validation rule.
type FieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

// RequestValidationError collects every failed rule of a request.
type RequestValidationError struct {
	Fields []FieldError
}

func (e *RequestValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}

	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Message
	}

	return strings.Join(msgs, "; ")
}

// getValidator returns the shared validator. Struct metadata is cached, so it is built once.
func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(jsonFieldName)

		if err := validate.RegisterValidation(tagEmotion, func(fl validator.FieldLevel) bool {
			return domain.IsKnownEmotion(domain.NormalizeLabel(fl.Field().String()))
		}); err != nil {
			panic(fmt.Sprintf("register %s validation: %v", tagEmotion, err))
		}
	})

	return validate
}

func jsonFieldName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	if name == "-" || name == "" {
		return fld.Name
	}

	return name
}

// validateStruct returns nil or a *RequestValidationError.
func validateStruct(s any) *RequestValidationError {
	err := getValidator().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &RequestValidationError{Fields: []FieldError{{Field: "unknown", Tag: "unknown", Message: err.Error()}}}
	}

	fields := make([]FieldError, len(verrs))
	for i, fe := range verrs {
		fields[i] = FieldError{Field: fe.Field(), Tag: fe.Tag(), Message: translateError(fe)}
	}

	return &RequestValidationError{Fields: fields}
}

var messageTemplates = map[string]string{
	"required": "%s is required",
	"base64":   "%s must be valid base64",
}

var messageWithParam = map[string]string{
	"required_without": "%s is required when %s is missing",
	"oneof":            "%s must be one of: %s",
	"gte":              "%s must be greater than or equal to %s",
	"lte":              "%s must be less than or equal to %s",
	"min":              "%s must be at least %s",
	"max":              "%s must be at most %s",
}

func translateError(fe validator.FieldError) string {
	if fe.Tag() == tagEmotion {
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), strings.Join(domain.KnownEmotions, ", "))
	}

	if tmpl, ok := messageTemplates[fe.Tag()]; ok {
		return fmt.Sprintf(tmpl, fe.Field())
	}

	if tmpl, ok := messageWithParam[fe.Tag()]; ok {
		return fmt.Sprintf(tmpl, fe.Field(), fe.Param())
	}

	return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
}
