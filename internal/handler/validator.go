package handler

import (
    "errors"
    "reflect"
    "strings"

    "github.com/go-playground/validator/v10"

    "github.com/iliyamo/event-booking/internal/service"
)

// RequestValidator plugs go-playground/validator into echo.  Failures are
// reported as service.ValidationError keyed by JSON field name.
type RequestValidator struct {
    v *validator.Validate
}

func NewRequestValidator() *RequestValidator {
    v := validator.New(validator.WithRequiredStructEnabled())
    v.RegisterTagNameFunc(func(f reflect.StructField) string {
        name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
        if name == "-" {
            return ""
        }
        return name
    })
    return &RequestValidator{v: v}
}

// Validate implements echo.Validator.
func (rv *RequestValidator) Validate(i interface{}) error {
    err := rv.v.Struct(i)
    if err == nil {
        return nil
    }
    var verrs validator.ValidationErrors
    if !errors.As(err, &verrs) {
        return err
    }
    fields := make(map[string]string, len(verrs))
    for _, fe := range verrs {
        fields[fe.Field()] = describe(fe)
    }
    return service.ValidationError{Fields: fields}
}

func describe(fe validator.FieldError) string {
    switch fe.Tag() {
    case "required":
        return "is required"
    case "email":
        return "must be a valid email address"
    case "min":
        return "must be at least " + fe.Param()
    case "max":
        return "must be at most " + fe.Param()
    case "oneof":
        return "must be one of: " + fe.Param()
    case "datetime":
        return "must match " + fe.Param()
    }
    return "is invalid"
}
