// Package validation provides request and configuration validation built on
// go-playground/validator.
//
// Request bodies are checked with ordered Rules over the decoded JSON payload.
// Every rule runs, so a single response lists all failing fields.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Report mapstructure or JSON tag names instead of Go field names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, key := range []string{"mapstructure", "json"} {
			name := fld.Tag.Get(key)
			if i := strings.IndexByte(name, ','); i >= 0 {
				name = name[:i]
			}
			if name != "" && name != "-" {
				return name
			}
		}
		return fld.Name
	})

	return v
}

// FieldError describes a single failed check.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Struct validates a tagged struct and converts the failures to FieldErrors.
func Struct(s any) []FieldError {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return []FieldError{{Field: "", Message: err.Error()}}
	}

	out := make([]FieldError, 0, len(validationErrs))
	for _, e := range validationErrs {
		out = append(out, FieldError{Field: e.Field(), Message: friendlyMessage(e)})
	}
	return out
}

func friendlyMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return "must be one of: " + e.Param()
	case "gte":
		return "must be greater than or equal to " + e.Param()
	case "lte":
		return "must be less than or equal to " + e.Param()
	case "gt":
		return "must be greater than " + e.Param()
	case "lt":
		return "must be less than " + e.Param()
	default:
		return "is invalid"
	}
}

// Check reports whether a payload value passes. present is false when the
// key is missing from the payload.
type Check func(value any, present bool) bool

// Rule pairs a field check with the message reported when it fails.
type Rule struct {
	Field   string
	Check   Check
	Message string
}

// Rules is an ordered list of checks.
type Rules []Rule

// Validate runs every rule against payload and returns all failures in rule order.
func (rs Rules) Validate(payload map[string]any) []FieldError {
	var errs []FieldError
	for _, r := range rs {
		value, present := payload[r.Field]
		if !r.Check(value, present) {
			errs = append(errs, FieldError{Field: r.Field, Message: r.Message})
		}
	}
	return errs
}

// NotEmpty fails for missing keys, null, and empty strings.
func NotEmpty(value any, present bool) bool {
	if !present || value == nil {
		return false
	}
	if s, ok := value.(string); ok {
		return validate.Var(s, "required") == nil
	}
	return true
}

func IsString(value any, present bool) bool {
	_, ok := value.(string)
	return present && ok
}

func IsArray(value any, present bool) bool {
	_, ok := value.([]any)
	return present && ok
}

// IsStringArray passes for arrays whose elements are all strings, and for
// non-array values, which IsArray reports on its own.
func IsStringArray(value any, present bool) bool {
	items, ok := value.([]any)
	if !ok {
		return true
	}
	for _, item := range items {
		if _, ok := item.(string); !ok {
			return false
		}
	}
	return true
}

// IsNonNegativeInt accepts integers and integer strings that are >= 0.
func IsNonNegativeInt(value any, present bool) bool {
	if !present {
		return false
	}
	n, ok := ToInt(value)
	if !ok {
		return false
	}
	return validate.Var(n, "gte=0") == nil
}

// Optional skips check when the key is missing.
func Optional(check Check) Check {
	return func(value any, present bool) bool {
		if !present {
			return true
		}
		return check(value, present)
	}
}

// ToInt converts a decoded JSON value to an int. Numbers must be integral,
// so 2025.0 is accepted; strings must parse as base-10 integers.
func ToInt(value any) (int, bool) {
	switch v := value.(type) {
	case json.Number:
		if n, ok := parseInt(v.String()); ok {
			return n, true
		}
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}
		return floatToInt(f)
	case float64:
		return floatToInt(v)
	case int:
		return v, true
	case string:
		return parseInt(strings.TrimSpace(v))
	default:
		return 0, false
	}
}

func floatToInt(f float64) (int, bool) {
	if f != math.Trunc(f) || math.IsInf(f, 0) || f > math.MaxInt32 || f < math.MinInt32 {
		return 0, false
	}
	return int(f), true
}

func parseInt(s string) (int, bool) {
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, false
	}
	return int(n), true
}

// ToStrings coerces a JSON value to a string slice. A scalar becomes a
// single-element slice.
func ToStrings(value any) []string {
	switch v := value.(type) {
	case nil:
		return []string{}
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, stringify(item))
		}
		return out
	case []string:
		return v
	default:
		return []string{stringify(v)}
	}
}

func stringify(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
