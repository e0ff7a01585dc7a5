package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"reflect"
	"strings"

	"blogrig-server/auth"
	"blogrig-server/shared"

	"github.com/go-playground/validator/v10"
	"github.com/gosimple/slug"
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// report json field names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return isUsername(fl.Field().String())
	})
	v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return isUrlSlug(fl.Field().String())
	})
	// bcrypt's limit is in bytes, max= counts runes
	v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) <= auth.MaxPasswordBytes
	})

	return v
}

func isUsername(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !(r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')) {
			return false
		}
	}
	return true
}

// isUrlSlug accepts lowercase alphanumeric runs joined by single hyphens.
func isUrlSlug(s string) bool {
	return slug.IsSlug(s) && !strings.Contains(s, "_") && !strings.Contains(s, "--")
}

func fieldMessage(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "email":
		return "Valid email is required"
	case "username":
		return "Username can only contain letters, numbers and underscores"
	case "slug":
		return "Slug can only contain lowercase letters, numbers and single hyphens"
	case "password":
		return fmt.Sprintf("%s must be at most %d bytes", field, auth.MaxPasswordBytes)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	}
	return fmt.Sprintf("%s is invalid", field)
}

func writeValidationErrors(w http.ResponseWriter, errs []shared.FieldError) {
	writeApiError(w, shared.ApiError{
		Type:   shared.ApiErrorTypeValidation,
		Status: http.StatusBadRequest,
		Msg:    "Validation failed",
		Errors: errs,
	})
}

func toFieldErrors(err error) []shared.FieldError {
	var res []shared.FieldError
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range verrs {
			res = append(res, shared.FieldError{Field: fe.Field(), Msg: fieldMessage(fe.Field(), fe)})
		}
	}
	return res
}

// decodeBody decodes a JSON body into v. An empty body decodes as {}.
func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	err := json.NewDecoder(r.Body).Decode(v)
	if err != nil && err != io.EOF {
		log.Printf("Error parsing request body: %v\n", err)
		writeBadRequest(w, "Invalid request body")
		return false
	}
	return true
}

// decodeAndValidate decodes the body and runs struct validation, writing a
// 400 on failure.
func (h *Handler) decodeAndValidate(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if !decodeBody(w, r, v) {
		return false
	}

	if err := h.validate.Struct(v); err != nil {
		errs := toFieldErrors(err)
		if errs == nil {
			writeServerError(w, "Error validating request", err)
			return false
		}
		log.Printf("Validation failed: %v\n", err)
		writeValidationErrors(w, errs)
		return false
	}

	return true
}

// validateField checks one optional value against tag, reporting it under
// name. Null is left to the caller.
func (h *Handler) validateField(errs []shared.FieldError, name string, o shared.Optional[string], tag string) []shared.FieldError {
	if !o.Set || o.Null {
		return errs
	}

	err := h.validate.Var(o.Value, tag)
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range verrs {
			errs = append(errs, shared.FieldError{Field: name, Msg: fieldMessage(name, fe)})
		}
	}
	return errs
}
