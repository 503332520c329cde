package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MailboxItem is a parcel logged into a user's virtual mailbox, pending
// consolidation into a shipment. The shipping price is stamped synchronously
// at intake; until then it reads as not-yet-available.
type MailboxItem struct {
	ID             string
	UserID         string
	ItemName       string
	ProductValue   decimal.Decimal
	TrackingNumber string
	WeightKg       float64
	Dimension      string
	ImageKey       string
	ShippingPrice  decimal.NullDecimal
	CreatedAt      time.Time
}
