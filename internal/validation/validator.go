// Package validation wraps go-playground/validator with the custom rules of event submissions.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// TagLocalArea the field must mention one of the configured local-area keywords
const TagLocalArea = "localarea"

// FieldError one failed rule
type FieldError struct {
	Field string // json name
	Tag   string
	Param string
}

func (e FieldError) Error() string {
	if e.Param != "" {
		return fmt.Sprintf("%s failed %s=%s", e.Field, e.Tag, e.Param)
	}
	return fmt.Sprintf("%s failed %s", e.Field, e.Tag)
}

// RequestValidationError all failed rules of one struct, in field order
type RequestValidationError struct {
	Fields []FieldError
}

func (ve *RequestValidationError) Error() string {
	if len(ve.Fields) == 0 {
		return "validation failed"
	}
	msgs := make([]string, 0, len(ve.Fields))
	for _, f := range ve.Fields {
		msgs = append(msgs, f.Error())
	}
	return strings.Join(msgs, "; ")
}

// Has reports whether field failed tag ("" matches any field)
func (ve *RequestValidationError) Has(field, tag string) bool {
	for _, f := range ve.Fields {
		if (field == "" || f.Field == field) && f.Tag == tag {
			return true
		}
	}
	return false
}

// Validator validator instance bound to a local-area keyword list. Safe for concurrent use.
type Validator struct {
	validate *validator.Validate
	keywords []string
}

func New(localKeywords []string) *Validator {
	v := &Validator{
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
	for _, k := range localKeywords {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			v.keywords = append(v.keywords, k)
		}
	}

	// report json names so reasons and feedback match the request payload
	v.validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	_ = v.validate.RegisterValidation(TagLocalArea, func(fl validator.FieldLevel) bool {
		return v.IsLocal(fl.Field().String())
	})
	return v
}

// IsLocal reports whether location mentions a local-area keyword
func (v *Validator) IsLocal(location string) bool {
	l := strings.ToLower(location)
	for _, k := range v.keywords {
		if strings.Contains(l, k) {
			return true
		}
	}
	return false
}

// Struct validates s; nil or *RequestValidationError
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &RequestValidationError{Fields: []FieldError{{Field: "unknown", Tag: "unknown", Param: err.Error()}}}
	}
	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, FieldError{Field: fe.Field(), Tag: fe.Tag(), Param: fe.Param()})
	}
	return &RequestValidationError{Fields: fields}
}
