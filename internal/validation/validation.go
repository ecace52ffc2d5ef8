// Package validation contains the logic for validating
// request data.
//
// It uses the `validator` library to enforce rules (like
// required fields or email formats) defined in struct tags
// and extracts validation errors into a format the client can
// understand.
package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/deppfellow/hms-backend/internal/errs"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// Validatable is implemented by request payload types that know how to
// validate themselves, usually by running validator.Struct on the receiver.
type Validatable interface {
	Validate() error
}

// BindAndValidate binds the request body into payload and validates it.
//
// Every failure, whether the body could not be decoded or a field broke a
// rule, is returned as a 422 *errs.HTTPError. payload must be a pointer.
func BindAndValidate(c echo.Context, payload Validatable) error {
	if err := requireSingleJSONValue(c.Request()); err != nil {
		return err
	}

	if err := c.Bind(payload); err != nil {
		return bindError(err)
	}

	if msg, fieldErrors := validateStruct(payload); fieldErrors != nil {
		return errs.NewUnprocessableEntityError(msg, true, fieldErrors)
	}

	return nil
}

// requireSingleJSONValue rejects JSON bodies that carry anything after the
// first value, e.g. `{"name":"J"}{"x":1}`. echo's binder stops decoding at
// the end of the first value and would silently drop the rest.
//
// The body is read once and put back so Bind can decode it. Bodies that are
// not JSON, or whose first value does not parse, are left for Bind to
// report.
func requireSingleJSONValue(req *http.Request) error {
	if req.Body == nil || req.Body == http.NoBody {
		return nil
	}
	if !strings.HasPrefix(req.Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		return nil
	}

	body, err := io.ReadAll(req.Body)
	_ = req.Body.Close()
	req.Body = io.NopCloser(bytes.NewReader(body))
	if err != nil {
		return errs.ValidationError(errors.New("request body could not be read"))
	}

	dec := json.NewDecoder(bytes.NewReader(body))

	var first json.RawMessage
	if err := dec.Decode(&first); err != nil {
		return nil
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return errs.ValidationError(errors.New("request body must contain a single JSON value"))
	}

	return nil
}

// bindError turns a decoding failure into a 422. A JSON type mismatch is
// reported against the offending field; anything else is body-level.
func bindError(err error) *errs.HTTPError {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return errs.NewUnprocessableEntityError("Validation failed", true, []errs.FieldError{{
			Field: typeErr.Field,
			Error: fmt.Sprintf("must be of type %s", typeErr.Type),
		}})
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return errs.ValidationError(fmt.Errorf("request body is not valid JSON (offset %d)", syntaxErr.Offset))
	}

	if errors.Is(err, echo.ErrUnsupportedMediaType) {
		return errs.ValidationError(errors.New("request body must be application/json"))
	}

	return errs.ValidationError(errors.New("request body could not be read"))
}

// validateStruct calls v.Validate() and extracts field errors if validation fails.
func validateStruct(v Validatable) (string, []errs.FieldError) {
	if err := v.Validate(); err != nil {
		return extractValidationError(err)
	}
	return "", nil
}

func extractValidationError(err error) (string, []errs.FieldError) {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return "Validation failed", []errs.FieldError{{Field: "body", Error: err.Error()}}
	}

	fieldErrors := make([]errs.FieldError, 0, len(validationErrors))
	for _, fe := range validationErrors {
		var msg string

		switch fe.Tag() {
		case "required":
			msg = "is required"

		case "email":
			msg = "must be a valid email address"

		case "min":
			// For strings min is a length, for numbers a value.
			if fe.Kind() == reflect.String {
				msg = fmt.Sprintf("must be at least %s characters", fe.Param())
			} else {
				msg = fmt.Sprintf("must be at least %s", fe.Param())
			}

		case "max":
			if fe.Kind() == reflect.String {
				msg = fmt.Sprintf("must not exceed %s characters", fe.Param())
			} else {
				msg = fmt.Sprintf("must not exceed %s", fe.Param())
			}

		case "oneof":
			msg = fmt.Sprintf("must be one of: %s", fe.Param())

		default:
			if fe.Param() != "" {
				msg = fmt.Sprintf("%s: %s:%s", fe.Field(), fe.Tag(), fe.Param())
			} else {
				msg = fmt.Sprintf("%s: %s", fe.Field(), fe.Tag())
			}
		}

		fieldErrors = append(fieldErrors, errs.FieldError{
			Field: fe.Field(),
			Error: msg,
		})
	}

	return "Validation failed", fieldErrors
}
