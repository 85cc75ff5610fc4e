package validate

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"palletbay/internal/domain"
)

var (
	reEmail    = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	reLocation = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9 ._/-]{0,31}$`)
	reSKU      = regexp.MustCompile(`^[A-Za-z0-9_-]{1,32}$`)
	reCUIT     = regexp.MustCompile(`^[0-9]{2}-?[0-9]{8}-?[0-9]$`)
)

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New(validator.WithRequiredStructEnabled())
	// report json names, not Go field names
	val.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = val.RegisterValidation("pallet", func(fl validator.FieldLevel) bool {
		return domain.ValidPalletType(fl.Field().String())
	})
	_ = val.RegisterValidation("location", func(fl validator.FieldLevel) bool {
		_, ok := Location(fl.Field().String())
		return ok
	})
	_ = val.RegisterValidation("sku", func(fl validator.FieldLevel) bool {
		_, ok := SKU(fl.Field().String())
		return ok
	})
	_ = val.RegisterValidation("cuit", func(fl validator.FieldLevel) bool {
		s := strings.TrimSpace(fl.Field().String())
		return s == "" || reCUIT.MatchString(s)
	})
	return val
}

// FieldErrors maps a json field name to what is wrong with it. It is a
// validation error for errors.Is purposes.
type FieldErrors map[string]string

func (f FieldErrors) Error() string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+f[k])
	}
	return "invalid input (" + strings.Join(parts, "; ") + ")"
}

func (f FieldErrors) Is(target error) bool { return target == domain.ErrValidation }

// Struct checks a request payload against its `validate` tags.
func Struct(s any) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := FieldErrors{}
	for _, fe := range verrs {
		out[fe.Field()] = message(fe)
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gt":
		return "must be greater than " + fe.Param()
	case "lte":
		return "must be at most " + fe.Param()
	case "email":
		return "must be a valid email"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "pallet":
		return "must be Standard, Euro or Especial"
	case "location":
		return "must be a short bin label such as A1"
	case "sku":
		return "letters, digits, - and _ only"
	case "cuit":
		return "must look like 20-12345678-9"
	default:
		return "is invalid"
	}
}

func Email(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) == 0 || len(s) > 100 {
		return "", false
	}
	return s, reEmail.MatchString(s)
}

// Location validates a free-text bin label like "A1" or "R2-03".
func Location(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, reLocation.MatchString(s)
}

func SKU(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, reSKU.MatchString(s)
}

// ID parses a path parameter holding a row id.
func ID(s string) (int64, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// Quantity parses a strictly positive integer, as typed into a form.
func Quantity(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// Name validates a displayable name with a reasonable max length.
func Name(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 80 {
		return "", false
	}
	return s, true
}

// Password enforces length and character classes for new credentials.
func Password(s string) bool {
	l := len(s)
	if l < 8 || l > 72 {
		return false
	}
	var hasLower, hasUpper, hasDigit, hasSymbol bool
	for _, r := range s {
		switch {
		case 'a' <= r && r <= 'z':
			hasLower = true
		case 'A' <= r && r <= 'Z':
			hasUpper = true
		case '0' <= r && r <= '9':
			hasDigit = true
		default:
			hasSymbol = true
		}
	}
	return hasLower && hasUpper && hasDigit && hasSymbol
}
