package validation

import (
	"encoding/json"
	"errors"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// MinBirthYear is the earliest accepted yearOfBirth.
const MinBirthYear = 1900

var (
	bookIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
	initOnce      sync.Once
)

// Init configures the global validator used by Gin's binding.
// - Uses JSON tag names in errors.
// - Registers custom tags for book identifiers and birth years.
// Safe to call more than once.
func Init() {
	initOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("bookid", func(fl validator.FieldLevel) bool {
			return IsBookID(fl.Field().String())
		})
		_ = v.RegisterValidation("birthyear", func(fl validator.FieldLevel) bool {
			return IsBirthYear(int(fl.Field().Int()))
		})
		// trimmedemail accepts an address with surrounding whitespace; services trim before storing.
		_ = v.RegisterValidation("trimmedemail", func(fl validator.FieldLevel) bool {
			return v.Var(strings.TrimSpace(fl.Field().String()), "email") == nil
		})
	})
}

// Engine returns the shared validator, configured by Init.
func Engine() *validator.Validate {
	Init()
	v, _ := binding.Validator.Engine().(*validator.Validate)
	return v
}

// Var validates a single value against a tag list, e.g. Var(email, "required,email").
func Var(field any, tag string) error {
	return Engine().Var(field, tag)
}

// IsBookID reports whether s looks like an external catalog identifier.
func IsBookID(s string) bool {
	return bookIDPattern.MatchString(s)
}

func IsBirthYear(y int) bool {
	return y >= MinBirthYear && y <= time.Now().Year()
}

// ToDetails converts validation/binding errors into a map[field]message suitable for API error.details.
func ToDetails(err error) map[string]string {
	if err == nil {
		return nil
	}

	// Invalid JSON payloads
	var se *json.SyntaxError
	var ute *json.UnmarshalTypeError
	if errors.As(err, &ute) {
		field := ute.Field
		if field == "" {
			field = "payload"
		}
		return map[string]string{field: "must be a " + ute.Type.String()}
	}
	if errors.As(err, &se) {
		return map[string]string{"payload": "invalid json"}
	}

	// Validation errors from validator.v10
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			out[fieldPath(fe)] = formatFieldError(fe)
		}
		return out
	}

	// Fallback
	return map[string]string{"payload": "invalid payload"}
}

// fieldPath drops the root struct name: "bookRequest.volumeInfo.title" -> "volumeInfo.title".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func formatFieldError(fe validator.FieldError) string {
	tag := fe.Tag()
	param := fe.Param()

	switch tag {
	case "required":
		return "must be filled in"
	case "required_without":
		return "is required when " + param + " is not present"
	case "email", "trimmedemail":
		return "must be a valid email"
	case "uri", "url":
		return "must be a valid URI"
	case "bookid":
		return "must be a valid book identifier"
	case "birthyear":
		return "must be a year between 1900 and the current year"
	case "min":
		if isNumberKind(fe.Kind()) {
			return "must be at least " + param
		}
		if fe.Kind() == reflect.Slice {
			return "must contain at least " + param + " item(s)"
		}
		return "the minimum length is " + param
	case "max":
		if isNumberKind(fe.Kind()) {
			return "must be at most " + param
		}
		return "the maximum length is " + param
	case "gte":
		return "must be greater than or equal to " + param
	case "lte":
		return "must be less than or equal to " + param
	case "number", "numeric":
		return "must be a number"
	default:
		if param != "" {
			return "validation failed for '" + tag + "' with parameter '" + param + "'"
		}
		return "validation failed for '" + tag + "'"
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
