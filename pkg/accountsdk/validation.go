package accountsdk

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// validateStruct runs the struct's validate tags and flattens failures into a
// field-to-reason map, nil when everything passes. Field names are reported
// in their JSON form.
func validateStruct(s any) map[string]string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var invalid validator.ValidationErrors
	errs := make(map[string]string)
	if !errors.As(err, &invalid) {
		errs["request"] = "invalid request"
		return errs
	}

	for _, fe := range invalid {
		errs[jsonFieldName(s, fe.StructField())] = reason(fe)
	}
	return errs
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("too short (min %s)", fe.Param())
	case "max":
		return fmt.Sprintf("too long (max %s)", fe.Param())
	case "len":
		return fmt.Sprintf("must be exactly %s characters", fe.Param())
	case "numeric":
		return "must contain only digits"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	}
	return fmt.Sprintf("failed %s validation", fe.Tag())
}

// jsonFieldName maps a struct field name to its json tag so validation
// details reference the fields clients actually sent.
func jsonFieldName(s any, structField string) string {
	t := reflect.TypeOf(s)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if f, ok := t.FieldByName(structField); ok {
		tag := f.Tag.Get("json")
		if tag != "" && tag != "-" {
			if comma := strings.Index(tag, ","); comma >= 0 {
				tag = tag[:comma]
			}
			if tag != "" {
				return tag
			}
		}
	}
	return structField
}

// Validate checks the registration fields. Returns a map of field names to
// error messages, or nil if all fields are valid.
func (r RegisterRequest) Validate() map[string]string { return validateStruct(r) }

// Validate checks the login fields.
func (r LoginRequest) Validate() map[string]string { return validateStruct(r) }

// Validate checks the OTP submission fields.
func (r VerifyOTPRequest) Validate() map[string]string { return validateStruct(r) }

// Validate checks the resend-code fields.
func (r ResendOTPRequest) Validate() map[string]string { return validateStruct(r) }

// Validate checks the resend-verification fields.
func (r ResendVerificationRequest) Validate() map[string]string { return validateStruct(r) }

// Validate checks the password change fields.
func (r ChangePasswordRequest) Validate() map[string]string { return validateStruct(r) }

// Validate checks the name change fields.
func (r UpdateNameRequest) Validate() map[string]string { return validateStruct(r) }

// Validate checks the role change fields.
func (r UpdateRoleRequest) Validate() map[string]string { return validateStruct(r) }

// Validate checks the bootstrap fields.
func (r BootstrapRequest) Validate() map[string]string { return validateStruct(r) }
