package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/shipshopglobal/backend/internal/server/repositories/mailbox"
	"github.com/shipshopglobal/backend/internal/server/services"
	"github.com/shopspring/decimal"
)

type mailboxCreateRequest struct {
	UserID         string          `json:"user_id"`
	ItemName       string          `json:"item_name"`
	ProductValue   decimal.Decimal `json:"product_value"`
	TrackingNumber string          `json:"tracking_number"`
	WeightKg       float64         `json:"weight_kg"`
	Dimension      string          `json:"dimension"`
	ImageKey       string          `json:"image_key"`
}

func (s *Server) handleMailboxCreate(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFrom(r.Context())

	var req mailboxCreateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.UserID == "" {
		req.UserID = actor.UserID
	}

	item, err := s.mailbox.Create(r.Context(), actor, services.CreateInput{
		UserID:         req.UserID,
		ItemName:       req.ItemName,
		ProductValue:   req.ProductValue,
		TrackingNumber: req.TrackingNumber,
		WeightKg:       req.WeightKg,
		Dimension:      req.Dimension,
		ImageKey:       req.ImageKey,
	})
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toItemResponse(item))
}

func (s *Server) handleMailboxList(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFrom(r.Context())

	items, err := s.mailbox.List(r.Context(), actor, mux.Vars(r)["id"])
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toItemResponses(items))
}

type mailboxUpdateRequest struct {
	ProductValue   *decimal.Decimal `json:"product_value"`
	ShippingPrice  *decimal.Decimal `json:"shipping_price"`
	TrackingNumber *string          `json:"tracking_number"`
	WeightKg       *float64         `json:"weight_kg"`
	Dimension      *string          `json:"dimension"`
}

func (s *Server) handleMailboxUpdate(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFrom(r.Context())

	var req mailboxUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	item, err := s.mailbox.Update(r.Context(), actor, mux.Vars(r)["id"], mailbox.ItemUpdate{
		ProductValue:   req.ProductValue,
		ShippingPrice:  req.ShippingPrice,
		TrackingNumber: req.TrackingNumber,
		WeightKg:       req.WeightKg,
		Dimension:      req.Dimension,
	})
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toItemResponse(item))
}

func (s *Server) handleMailboxDelete(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFrom(r.Context())

	if err := s.mailbox.Delete(r.Context(), actor, mux.Vars(r)["id"]); err != nil {
		s.serviceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
