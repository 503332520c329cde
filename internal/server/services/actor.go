package services

import (
	"errors"

	"github.com/shipshopglobal/backend/internal/common"
)

func errorsIsNotFound(err error) bool {
	return errors.Is(err, common.ErrorNotFound)
}

// Actor identifies the authenticated caller of a service operation.
// Authorization decisions (owner vs admin) are made here in the service
// layer, not in transport handlers.
type Actor struct {
	UserID  string
	IsAdmin bool
}

// mayActOn reports whether the actor may touch a resource owned by ownerID.
func (a Actor) mayActOn(ownerID string) bool {
	return a.IsAdmin || a.UserID == ownerID
}
