package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ShipmentStatus is the carrier-facing lifecycle state of a shipment.
// Transitions are admin-driven and intentionally unconstrained: support
// staff correct mislabelled shipments by jumping statuses directly.
type ShipmentStatus string

const (
	StatusPending        ShipmentStatus = "pending"
	StatusLabelGenerated ShipmentStatus = "label_generated"
	StatusShipped        ShipmentStatus = "shipped"
	StatusInTransit      ShipmentStatus = "in_transit"
	StatusOutForDelivery ShipmentStatus = "out_for_delivery"
	StatusDelivered      ShipmentStatus = "delivered"
	StatusException      ShipmentStatus = "exception"
	StatusCancelled      ShipmentStatus = "cancelled"
)

// Valid reports whether s is one of the known statuses.
func (s ShipmentStatus) Valid() bool {
	switch s {
	case StatusPending, StatusLabelGenerated, StatusShipped, StatusInTransit,
		StatusOutForDelivery, StatusDelivered, StatusException, StatusCancelled:
		return true
	}
	return false
}

// Shipment is the durable post-payment record created when mailbox items are
// consolidated at payment confirmation. Item fields are carried over; the
// source mailbox item is removed in the same transaction.
type Shipment struct {
	ID                 string
	UserID             string
	ItemName           string
	ProductValue       decimal.Decimal
	TrackingNumber     string
	WeightKg           float64
	Dimension          string
	ImageKey           string
	ShippingPrice      decimal.Decimal
	InvoiceKey         string
	Status             ShipmentStatus
	Carrier            string
	CarrierTrackingURL string
	Paid               bool
	CreatedAt          time.Time
}
