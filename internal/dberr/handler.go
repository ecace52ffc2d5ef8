package dberr

import (
	"errors"
	"fmt"
	"strings"

	"github.com/deppfellow/hms-backend/internal/errs"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// generateErrorCode creates an application error code from a persistence
// failure, formatted as <COLLECTION>_<ACTION>:
//
//	appointment + Unavailable    => APPOINTMENT_STORE_UNAVAILABLE
//	contactmessage + Timeout     => CONTACTMESSAGE_STORE_TIMEOUT
func generateErrorCode(collection string, code Code) string {
	if collection == "" {
		collection = "RECORD"
	}

	domain := strings.ToUpper(collection)

	action := "NOT_SAVED"
	switch code {
	case Unavailable:
		action = "STORE_UNAVAILABLE"
	case Timeout:
		action = "STORE_TIMEOUT"
	case Network:
		action = "STORE_UNREACHABLE"
	case WriteRejected:
		action = "WRITE_REJECTED"
	case Serialization:
		action = "NOT_ENCODABLE"
	}

	return fmt.Sprintf("%s_%s", domain, action)
}

// humanizeText converts snake_case identifiers into Title Case.
//
//	"contact_message" -> "Contact Message"
func humanizeText(text string) string {
	if text == "" {
		return ""
	}
	return cases.Title(language.English).String(strings.ReplaceAll(text, "_", " "))
}

// Describe returns a short log-friendly summary of a persistence failure.
func Describe(err *Error) string {
	entity := humanizeText(err.Collection)
	if entity == "" {
		entity = "Record"
	}
	return fmt.Sprintf("%s could not be saved (%s)", entity, err.Code)
}

// HandleError converts a store error into the HTTP error the client sees.
//
// Output:
//   - *errs.HTTPError: returned unchanged
//   - *Error: 500 with a <COLLECTION>_<ACTION> code and the underlying
//     error message verbatim
//   - anything else: generic 500
func HandleError(err error) error {
	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		return err
	}

	var pe *Error
	if errors.As(err, &pe) {
		internal := errs.NewInternalServerError()
		internal.Code = generateErrorCode(pe.Collection, pe.Code)
		internal.Message = pe.Message
		return internal
	}

	return errs.NewInternalServerError()
}
