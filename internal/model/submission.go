// Package model holds the records the landing page exchanges with the API:
// the two form submissions that are persisted and the read-only reference
// records shown on the page.
package model

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Collection names are the lowercase record type names.
const (
	AppointmentCollection    = "appointment"
	ContactMessageCollection = "contactmessage"
)

// validate is shared by every record; validator.Validate caches struct
// metadata and is safe for concurrent use.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report JSON field names ("email") instead of Go names ("Email").
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return v
}

// Document is a validated record that knows which collection it belongs to.
type Document interface {
	Collection() string
}

// Appointment is an appointment request from the landing page.
type Appointment struct {
	Name       string  `json:"name" bson:"name" validate:"required"`
	Email      string  `json:"email" bson:"email" validate:"required,email"`
	Phone      string  `json:"phone" bson:"phone" validate:"required"`
	Department string  `json:"department" bson:"department" validate:"required"`
	Doctor     *string `json:"doctor" bson:"doctor"`
	Message    *string `json:"message" bson:"message"`
}

func (a *Appointment) Validate() error {
	return validate.Struct(a)
}

func (a *Appointment) Collection() string {
	return AppointmentCollection
}

// ContactMessage is a general contact form submission.
type ContactMessage struct {
	Name    string  `json:"name" bson:"name" validate:"required"`
	Email   string  `json:"email" bson:"email" validate:"required,email"`
	Phone   *string `json:"phone" bson:"phone"`
	Message string  `json:"message" bson:"message" validate:"required"`
}

func (m *ContactMessage) Validate() error {
	return validate.Struct(m)
}

func (m *ContactMessage) Collection() string {
	return ContactMessageCollection
}

// SubmissionResponse acknowledges a stored submission.
type SubmissionResponse struct {
	OK bool   `json:"ok"`
	ID string `json:"id"`
}
