// Package validation envuelve go-playground/validator para las DTO de entrada.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	// Los mensajes usan el nombre JSON del campo.
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	_ = validate.RegisterValidation("code_kind", func(fl validator.FieldLevel) bool {
		switch strings.ToUpper(strings.TrimSpace(fl.Field().String())) {
		case "ODL", "JOB", "STACCATO":
			return true
		}
		return false
	})
	_ = validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
}

// FieldError primer campo que no supera la validación.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Message
}

// Struct valida s según sus tags. Devuelve *FieldError con el primer fallo.
func Struct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	return &FieldError{Field: fe.Field(), Message: message(fe)}
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return fmt.Sprintf("el campo %s es obligatorio", fe.Field())
	case "min":
		return fmt.Sprintf("el campo %s debe tener al menos %s caracteres", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("el campo %s admite como máximo %s caracteres", fe.Field(), fe.Param())
	case "gte":
		return fmt.Sprintf("el campo %s debe ser mayor o igual a %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("el campo %s debe ser uno de: %s", fe.Field(), fe.Param())
	case "uuid":
		return fmt.Sprintf("el campo %s debe ser un UUID", fe.Field())
	case "eqfield":
		return fmt.Sprintf("el campo %s debe coincidir con %s", fe.Field(), fe.Param())
	case "code_kind":
		return fmt.Sprintf("el campo %s debe ser ODL, JOB o STACCATO", fe.Field())
	default:
		return fmt.Sprintf("el campo %s no es válido", fe.Field())
	}
}
