package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	apperrors "socialnet/internal/errors"
)

const (
	// MinBirthYear is the earliest accepted birth year.
	MinBirthYear = 1900
	// MinimumAge is how old a user must turn this calendar year to sign up.
	MinimumAge = 16
)

// SignupRequest is the raw registration payload. Fields are pointers so a
// missing key ("Required") is told apart from an empty or zero value.
type SignupRequest struct {
	FirstName *string `json:"firstName" validate:"required,min=2,max=50"`
	LastName  *string `json:"lastName" validate:"required,min=2,max=50"`
	Email     *string `json:"email" validate:"required,email"`
	// Username is accepted for compatibility but always replaced by an allocated one.
	Username   string  `json:"username,omitempty"`
	Password   *string `json:"password" validate:"required,min=8,max=50"`
	BirthYear  *int    `json:"birthYear" validate:"required,min=1900,minage"`
	BirthMonth *int    `json:"birthMonth" validate:"required,min=1,max=12"`
	BirthDay   *int    `json:"birthDay" validate:"required,min=1,max=31"`
	Gender     *string `json:"gender" validate:"required,oneof=male female other"`
}

// EmailAddress returns the submitted email or "" when absent.
func (r SignupRequest) EmailAddress() string {
	if r.Email == nil {
		return ""
	}
	return *r.Email
}

// signupFieldOrder maps JSON field names to their position in SignupRequest.
var signupFieldOrder = func() map[string]int {
	t := reflect.TypeOf(SignupRequest{})
	order := make(map[string]int, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		name := strings.SplitN(t.Field(i).Tag.Get("json"), ",", 2)[0]
		order[name] = i
	}
	return order
}()

func fieldPosition(path []string) int {
	if len(path) == 0 {
		return len(signupFieldOrder)
	}
	if i, ok := signupFieldOrder[path[0]]; ok {
		return i
	}
	return len(signupFieldOrder)
}

// SignupInput is a SignupRequest that passed validation.
type SignupInput struct {
	FirstName  string
	LastName   string
	Email      string
	Password   string
	BirthYear  int
	BirthMonth int
	BirthDay   int
	Gender     string
}

// SignupValidator checks registration payloads and reports the first
// violation as an *apperrors.ValidationError.
type SignupValidator struct {
	validate *validator.Validate
	now      func() time.Time
}

// NewSignupValidator builds a validator whose age bound follows now.
func NewSignupValidator(now func() time.Time) *SignupValidator {
	if now == nil {
		now = time.Now
	}
	v := &SignupValidator{validate: validator.New(), now: now}

	v.validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// Registration cannot fail for a non-empty tag and a non-nil func.
	_ = v.validate.RegisterValidation("minage", func(fl validator.FieldLevel) bool {
		return fl.Field().Int() <= int64(v.MaxBirthYear())
	})
	return v
}

// MaxBirthYear is the latest birth year allowed today.
func (v *SignupValidator) MaxBirthYear() int {
	return v.now().Year() - MinimumAge
}

// Validate returns the typed input or the first failing field.
func (v *SignupValidator) Validate(req SignupRequest) (*SignupInput, error) {
	if err := v.validate.Struct(req); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return nil, v.toValidationError(fieldErrs[0])
		}
		return nil, fmt.Errorf("validate signup request: %w", err)
	}

	// required guarantees every pointer below is set.
	return &SignupInput{
		FirstName:  *req.FirstName,
		LastName:   *req.LastName,
		Email:      *req.Email,
		Password:   *req.Password,
		BirthYear:  *req.BirthYear,
		BirthMonth: *req.BirthMonth,
		BirthDay:   *req.BirthDay,
		Gender:     *req.Gender,
	}, nil
}

// DecodeFailure resolves a body that decoded with a JSON type mismatch. req is
// the partially decoded value. The result is whichever field fails first in
// schema order: the mistyped one, or an earlier field that fails validation.
// It returns nil when decodeErr is not a type mismatch.
func (v *SignupValidator) DecodeFailure(req SignupRequest, decodeErr error) *apperrors.ValidationError {
	typeErr := DecodeError(decodeErr)
	if typeErr == nil {
		return nil
	}

	if _, err := v.Validate(req); err != nil {
		var verr *apperrors.ValidationError
		if errors.As(err, &verr) && fieldPosition(verr.Path) < fieldPosition(typeErr.Path) {
			return verr
		}
	}
	return typeErr
}

func (v *SignupValidator) toValidationError(fe validator.FieldError) *apperrors.ValidationError {
	return &apperrors.ValidationError{
		Path:    fieldPath(fe.Namespace()),
		Message: v.message(fe),
	}
}

// fieldPath drops the leading struct name from a validator namespace.
func fieldPath(namespace string) []string {
	parts := strings.Split(namespace, ".")
	if len(parts) > 1 {
		return parts[1:]
	}
	return parts
}

func (v *SignupValidator) message(fe validator.FieldError) string {
	isString := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "required":
		return "Required"
	case "email":
		return "Invalid email"
	case "min":
		if isString {
			return fmt.Sprintf("String must contain at least %s character(s)", fe.Param())
		}
		return fmt.Sprintf("Number must be greater than or equal to %s", fe.Param())
	case "max":
		if isString {
			return fmt.Sprintf("String must contain at most %s character(s)", fe.Param())
		}
		return fmt.Sprintf("Number must be less than or equal to %s", fe.Param())
	case "minage":
		return "Number must be less than or equal to " + strconv.Itoa(v.MaxBirthYear())
	case "oneof":
		opts := strings.Fields(fe.Param())
		for i, o := range opts {
			opts[i] = "'" + o + "'"
		}
		return fmt.Sprintf("Invalid enum value. Expected %s, received '%v'", strings.Join(opts, " | "), fe.Value())
	default:
		return "Invalid input"
	}
}

// DecodeError turns a JSON type mismatch found while binding the body into a
// ValidationError on the offending field. It returns nil for other errors.
func DecodeError(err error) *apperrors.ValidationError {
	var typeErr *json.UnmarshalTypeError
	if !errors.As(err, &typeErr) || typeErr.Field == "" {
		return nil
	}

	target := typeErr.Type
	for target.Kind() == reflect.Pointer {
		target = target.Elem()
	}
	expected := jsonKind(target.Kind())
	received := strings.SplitN(typeErr.Value, " ", 2)[0]
	msg := fmt.Sprintf("Expected %s, received %s", expected, received)
	if expected == "number" && received == "number" {
		msg = "Expected integer, received float"
	}
	return &apperrors.ValidationError{
		Path:    strings.Split(typeErr.Field, "."),
		Message: msg,
	}
}

func jsonKind(k reflect.Kind) string {
	switch k {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Slice, reflect.Array:
		return "array"
	default:
		return "object"
	}
}
