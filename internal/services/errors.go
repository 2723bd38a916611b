package services

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Sentinel errors returned by the services. Handlers map them to HTTP statuses
// with errors.Is; the text after "<sentinel>: " is safe to show to clients.
var (
	ErrNotFound         = errors.New("not found")
	ErrTravelerNotFound = errors.New("traveler not found")
	ErrConflict         = errors.New("conflict")
	ErrForbidden        = errors.New("forbidden")
	ErrBadRequest       = errors.New("bad request")
	ErrValidation       = errors.New("validation error")
	ErrUnauthorized     = errors.New("unauthorized")
)

func newError(kind error, format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", kind, fmt.Sprintf(format, args...))
}

// parseID converts a hex id, reporting a BadRequest naming what was being parsed.
func parseID(what, id string) (primitive.ObjectID, error) {
	if id == "" {
		return primitive.NilObjectID, newError(ErrBadRequest, "%s is required", what)
	}
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, newError(ErrBadRequest, "invalid %s", what)
	}
	return objID, nil
}
