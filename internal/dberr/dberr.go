// Package dberr handles document store errors.
//
// It classifies errors coming out of the MongoDB driver (timeouts, network
// failures, rejected writes, encoding failures) into a PersistenceError and
// converts those into the HTTP error the client receives.
package dberr

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
)

// Code is the category of a persistence failure.
type Code string

const (
	// Unavailable means no store connection handle exists.
	Unavailable Code = "unavailable"
	// Timeout means the driver gave up waiting on the server.
	Timeout Code = "timeout"
	// Network means the connection broke while talking to the server.
	Network Code = "network"
	// WriteRejected means the server refused the write.
	WriteRejected Code = "write_rejected"
	// Serialization means the record could not be encoded as a document.
	Serialization Code = "serialization"
	// InvalidCollection means the caller passed no collection name.
	InvalidCollection Code = "invalid_collection"
	// Other is anything that does not fit the categories above.
	Other Code = "other"
)

// ErrUnavailable is the cause reported when the service runs without a store.
var ErrUnavailable = errors.New("Database not available. Check DATABASE_URL and DATABASE_NAME environment variables")

// Error is a persistence failure. It keeps the driver error for Unwrap and
// its message verbatim in Message.
type Error struct {
	Code       Code
	Op         string
	Collection string
	Message    string

	driverErr error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.driverErr
}

// New wraps err from operation op on collection, classifying it.
func New(op, collection string, err error) *Error {
	return newWithCode(Classify(err), op, collection, err)
}

// NewSerialization wraps an encoding failure for collection.
func NewSerialization(collection string, err error) *Error {
	return newWithCode(Serialization, "encode", collection, err)
}

// NewUnavailable reports that op on collection could not run because no
// store is connected.
func NewUnavailable(op, collection string) *Error {
	return newWithCode(Unavailable, op, collection, ErrUnavailable)
}

func newWithCode(code Code, op, collection string, err error) *Error {
	if err == nil {
		err = fmt.Errorf("%s %s failed", op, collection)
	}
	return &Error{
		Code:       code,
		Op:         op,
		Collection: collection,
		Message:    err.Error(),
		driverErr:  err,
	}
}

// Classify maps a driver error to a Code.
func Classify(err error) Code {
	var pe *Error
	var marshalErr mongo.MarshalError
	var writeErr mongo.WriteException
	var cmdErr mongo.CommandError

	switch {
	case err == nil:
		return Other
	case errors.As(err, &pe):
		return pe.Code
	case errors.Is(err, ErrUnavailable), errors.Is(err, mongo.ErrClientDisconnected):
		return Unavailable
	case mongo.IsTimeout(err):
		return Timeout
	case mongo.IsNetworkError(err):
		return Network
	case errors.As(err, &marshalErr):
		return Serialization
	case errors.As(err, &writeErr), errors.As(err, &cmdErr):
		return WriteRejected
	default:
		return Other
	}
}

// ErrCode reports the Code of err if it is, or wraps, an *Error.
func ErrCode(err error) Code {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Code
	}
	return Other
}
