package httpapi

import (
	"time"

	"github.com/shipshopglobal/backend/internal/server/models"
	"github.com/shipshopglobal/backend/internal/server/services"
	"github.com/shopspring/decimal"
)

type userResponse struct {
	ID           string     `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	PhoneNumber  string     `json:"phone_number,omitempty"`
	CustomerID   string     `json:"customer_id"`
	IsApproved   bool       `json:"is_approved"`
	IsSuspicious bool       `json:"is_suspicious,omitempty"`
	IsAdmin      bool       `json:"is_admin,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	DateOfBirth  *time.Time `json:"date_of_birth,omitempty"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		PhoneNumber:  u.PhoneNumber,
		CustomerID:   u.CustomerID,
		IsApproved:   u.IsApproved,
		IsSuspicious: u.IsSuspicious,
		IsAdmin:      u.IsAdmin,
		CreatedAt:    u.CreatedAt,
		DateOfBirth:  u.DateOfBirth,
	}
}

func toUserResponses(users []*models.User) []userResponse {
	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	return out
}

type itemResponse struct {
	ID             string              `json:"id"`
	UserID         string              `json:"user_id"`
	ItemName       string              `json:"item_name"`
	ProductValue   decimal.Decimal     `json:"product_value"`
	TrackingNumber string              `json:"tracking_number,omitempty"`
	WeightKg       float64             `json:"weight_kg"`
	Dimension      string              `json:"dimension,omitempty"`
	ImageKey       string              `json:"image_key,omitempty"`
	ShippingPrice  decimal.NullDecimal `json:"shipping_price"`
	CreatedAt      time.Time           `json:"created_at"`
}

func toItemResponse(item *models.MailboxItem) itemResponse {
	return itemResponse{
		ID:             item.ID,
		UserID:         item.UserID,
		ItemName:       item.ItemName,
		ProductValue:   item.ProductValue,
		TrackingNumber: item.TrackingNumber,
		WeightKg:       item.WeightKg,
		Dimension:      item.Dimension,
		ImageKey:       item.ImageKey,
		ShippingPrice:  item.ShippingPrice,
		CreatedAt:      item.CreatedAt,
	}
}

func toItemResponses(items []*models.MailboxItem) []itemResponse {
	out := make([]itemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, toItemResponse(item))
	}
	return out
}

type shipmentResponse struct {
	ID                 string          `json:"id"`
	UserID             string          `json:"user_id"`
	ItemName           string          `json:"item_name"`
	ProductValue       decimal.Decimal `json:"product_value"`
	TrackingNumber     string          `json:"tracking_number,omitempty"`
	WeightKg           float64         `json:"weight_kg"`
	Dimension          string          `json:"dimension,omitempty"`
	ShippingPrice      decimal.Decimal `json:"shipping_price"`
	Status             string          `json:"status"`
	Carrier            string          `json:"carrier,omitempty"`
	CarrierTrackingURL string          `json:"carrier_tracking_url,omitempty"`
	Paid               bool            `json:"paid"`
	InvoiceURL         string          `json:"invoice_url,omitempty"`
	ImageURL           string          `json:"image_url,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
}

func toShipmentResponse(shipment *models.Shipment, invoiceURL, imageURL string) shipmentResponse {
	return shipmentResponse{
		ID:                 shipment.ID,
		UserID:             shipment.UserID,
		ItemName:           shipment.ItemName,
		ProductValue:       shipment.ProductValue,
		TrackingNumber:     shipment.TrackingNumber,
		WeightKg:           shipment.WeightKg,
		Dimension:          shipment.Dimension,
		ShippingPrice:      shipment.ShippingPrice,
		Status:             string(shipment.Status),
		Carrier:            shipment.Carrier,
		CarrierTrackingURL: shipment.CarrierTrackingURL,
		Paid:               shipment.Paid,
		InvoiceURL:         invoiceURL,
		ImageURL:           imageURL,
		CreatedAt:          shipment.CreatedAt,
	}
}

func toShipmentViewResponses(views []*services.ShipmentView) []shipmentResponse {
	out := make([]shipmentResponse, 0, len(views))
	for _, v := range views {
		out = append(out, toShipmentResponse(v.Shipment, v.InvoiceURL, v.ImageURL))
	}
	return out
}

type tokenPairResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func toTokenPairResponse(pair *services.TokenPair) tokenPairResponse {
	return tokenPairResponse{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken}
}
