package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"github.com/oksasatya/devconnector/pkg/response"
)

var once sync.Once

// Init configures the global validator used by Gin's binding.
// - Uses JSON (or form) tag names in errors.
// - Registers alias tags for common validations.
func Init() {
	once.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			v.RegisterTagNameFunc(func(fld reflect.StructField) string {
				tag := fld.Tag.Get("json")
				if tag == "" {
					tag = fld.Tag.Get("form")
				}
				name := strings.SplitN(tag, ",", 2)[0]
				if name == "-" {
					return ""
				}
				return name
			})
			// bcrypt rejects anything longer than 72 bytes
			v.RegisterAlias("pwd", "min=6,max=72")
			v.RegisterAlias("nonzero", "required")
			_ = v.RegisterValidation("notblank", validators.NotBlank)
		}
	})
}

// Messages overrides the default message for a field, keyed by "field" or
// "field.tag". The tag may be an alias or the tag it expands to.
type Messages map[string]string

// ToErrors converts binding/validation errors into the {msg,param} list. Every
// failing field is reported, in struct order.
func ToErrors(err error, msgs Messages) []response.FieldError {
	if err == nil {
		return nil
	}

	// Invalid JSON payloads
	var se *json.SyntaxError
	var ute *json.UnmarshalTypeError
	if errors.As(err, &se) || errors.As(err, &ute) {
		return []response.FieldError{{Msg: "Invalid JSON payload"}}
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make([]response.FieldError, 0, len(verrs))
		for _, fe := range verrs {
			field := fe.Field()
			msg, ok := msgs[field+"."+fe.ActualTag()]
			if !ok {
				msg, ok = msgs[field+"."+fe.Tag()]
			}
			if !ok {
				msg, ok = msgs[field]
			}
			if !ok {
				msg = field + " " + formatFieldError(fe)
			}
			out = append(out, response.FieldError{Msg: msg, Param: field})
		}
		return out
	}

	// Fallback
	return []response.FieldError{{Msg: "Invalid payload"}}
}

func formatFieldError(fe validator.FieldError) string {
	tag := fe.ActualTag()
	param := fe.Param()

	switch tag {
	case "required", "notblank":
		return "is required"
	case "email":
		return "must be a valid email"
	case "url":
		return "must be a valid URL"
	case "uuid":
		return "must be a valid UUID"
	case "min":
		if isNumberKind(fe.Kind()) {
			return "must be at least " + param
		}
		return "must be at least " + param + " characters long"
	case "max":
		if isNumberKind(fe.Kind()) {
			return "must be at most " + param
		}
		return "must be at most " + param + " characters long"
	case "oneof":
		return "must be one of: " + strings.Join(strings.Fields(param), ", ")
	default:
		if param != "" {
			return fmt.Sprintf("failed '%s' with parameter '%s'", tag, param)
		}
		return fmt.Sprintf("failed '%s'", tag)
	}
}

func isNumberKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}
