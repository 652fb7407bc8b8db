package v1

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/Charlesbasis/portfolio-app/internal/domain"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Validator: общий экземпляр с именами полей из json-тегов.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})
		mustRegister(v, "strong_password", func(fl validator.FieldLevel) bool {
			return domain.ValidPassword(fl.Field().String())
		})
		mustRegister(v, "status", func(fl validator.FieldLevel) bool {
			return domain.ValidStatus(domain.Status(fl.Field().String()))
		})
		validate = v
	})
	return validate
}

// mustRegister: ошибка регистрации правила означает опечатку в коде, падаем при старте
func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register validation %q: %v", tag, err))
	}
}

// Bind читает JSON-тело в dst и валидирует его.
// Битый JSON и нарушения правил — ValidationError (422).
func Bind(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		var mbe *http.MaxBytesError
		switch {
		case errors.As(err, &mbe):
			return domain.ErrPayloadTooLarge
		case errors.Is(err, io.EOF):
			// пустое тело: пусть решают правила валидации
		default:
			return domain.FieldError("body", "The request body must be valid JSON.")
		}
	}
	return Validate(dst)
}

func Validate(v any) error {
	err := Validator().Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate: %w", err)
	}
	out := domain.NewValidationError()
	for _, fe := range verrs {
		out.Add(fieldKey(fe), message(fe))
	}
	return out
}

// fieldKey: "features[0]" -> "features.0", как привыкли клиенты Laravel
func fieldKey(fe validator.FieldError) string {
	f := fe.Field()
	f = strings.ReplaceAll(f, "[", ".")
	return strings.ReplaceAll(f, "]", "")
}

func message(fe validator.FieldError) string {
	attr := strings.ReplaceAll(fieldKey(fe), "_", " ")
	numeric := false
	switch fe.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		numeric = true
	}
	isList := fe.Kind() == reflect.Slice || fe.Kind() == reflect.Map

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", attr)
	case "max":
		switch {
		case numeric:
			return fmt.Sprintf("The %s field must not be greater than %s.", attr, fe.Param())
		case isList:
			return fmt.Sprintf("The %s field must not have more than %s items.", attr, fe.Param())
		}
		return fmt.Sprintf("The %s field must not be greater than %s characters.", attr, fe.Param())
	case "min":
		switch {
		case numeric:
			return fmt.Sprintf("The %s field must be at least %s.", attr, fe.Param())
		case isList:
			return fmt.Sprintf("The %s field must have at least %s items.", attr, fe.Param())
		}
		return fmt.Sprintf("The %s field must be at least %s characters.", attr, fe.Param())
	case "email":
		return fmt.Sprintf("The %s field must be a valid email address.", attr)
	case "url", "http_url":
		return fmt.Sprintf("The %s field must be a valid URL.", attr)
	case "uuid", "uuid4":
		return fmt.Sprintf("The %s field must be a valid UUID.", attr)
	case "eqfield":
		return fmt.Sprintf("The %s field confirmation does not match.", strings.TrimSuffix(attr, " confirmation"))
	case "oneof", "status":
		return fmt.Sprintf("The selected %s is invalid.", attr)
	case "strong_password":
		return fmt.Sprintf("The %s field must contain at least one uppercase and one lowercase letter, one number and one symbol.", attr)
	default:
		return fmt.Sprintf("The %s field is invalid.", attr)
	}
}
