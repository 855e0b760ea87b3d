package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
)

// SignupRequest is the body of POST /api/users/signup.
type SignupRequest struct {
	Name                 string `json:"name" validate:"required"`
	Email                string `json:"email" validate:"required,email"`
	Password             string `json:"password" validate:"required,min=6"`
	PasswordConfirmation string `json:"password_confirmation"`
}

// LoginRequest is the body of POST /api/users/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// TodoGroupRequest is the body of create/update todo group requests.
type TodoGroupRequest struct {
	Title       string  `json:"title" validate:"required"`
	Description *string `json:"description"`
}

// TaskItemRequest is the body of create/update task requests. No declarative
// rules apply; tasks accept whatever name and progress the client sends.
type TaskItemRequest struct {
	Name               string `json:"name"`
	ProgressPercentage int64  `json:"progress_percentage"`
	TargetTodoID       *int64 `json:"target_todo_id"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report json field names in validation errors, not Go field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validationMessage maps a failed rule to its user-facing message.
func validationMessage(fe validator.FieldError) string {
	switch fe.Field() {
	case "name":
		return "Name is required"
	case "email":
		return "Invalid email address"
	case "password":
		if fe.Tag() == "required" {
			return "Password is required"
		}
		return "Password must be at least 6 characters long"
	case "title":
		return "Title is required"
	}
	return fmt.Sprintf("%s is invalid", fe.Field())
}

func checkStruct(v any) []fieldError {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []fieldError{{Field: "", Message: "Invalid request body"}}
	}

	errs := make([]fieldError, 0, len(verrs))
	for _, fe := range verrs {
		errs = append(errs, fieldError{Field: fe.Field(), Message: validationMessage(fe)})
	}
	return errs
}

type bodyKeyType struct{}

var bodyContextKey bodyKeyType

// ValidateBody decodes the request body into T, runs the declarative rules
// and short-circuits with a 400 on failure. On success the parsed body is
// stashed in the request context for the handler.
func ValidateBody[T any]() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var body T
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				respondValidation(w, []fieldError{decodeError(err)})
				return
			}

			if errs := checkStruct(&body); len(errs) > 0 {
				respondValidation(w, errs)
				return
			}

			ctx := context.WithValue(r.Context(), bodyContextKey, &body)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// requestBody returns the body parsed by ValidateBody.
func requestBody[T any](r *http.Request) (*T, bool) {
	body, ok := r.Context().Value(bodyContextKey).(*T)
	return body, ok
}

// decodeError turns a JSON decode failure into a field-level message, so a
// wrong-typed field ("description": 42) reads like a validation failure.
func decodeError(err error) fieldError {
	var ute *json.UnmarshalTypeError
	if errors.As(err, &ute) && ute.Field != "" {
		label := strings.ToUpper(ute.Field[:1]) + ute.Field[1:]
		return fieldError{
			Field:   ute.Field,
			Message: fmt.Sprintf("%s must be a %s", label, ute.Type.Kind()),
		}
	}
	return fieldError{Message: "Invalid request body"}
}

// decodeJSON reads an unvalidated request body, used by the task routes.
func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}
