// Package models defines the persistent domain records for the backend:
// users, mailbox items, shipments, and blocked registration addresses.
package models

import "time"

type User struct {
	ID             string
	Username       string
	Email          string
	PasswordHash   string
	PhoneNumber    string
	ActualAddress  string
	BillingAddress string
	DateOfBirth    *time.Time

	// CustomerID is the human-facing identifier assigned at registration.
	// Immutable once set.
	CustomerID string

	// RegistrationIP is the client address observed at signup; the abuse
	// guard window query runs against it.
	RegistrationIP string

	IsApproved   bool
	IsSuspicious bool
	IsAdmin      bool

	// AllowedIP restricts where an admin account may log in from.
	// Empty means no restriction.
	AllowedIP string

	CreatedAt time.Time
}
