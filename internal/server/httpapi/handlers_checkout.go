package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
)

type checkoutRequest struct {
	ItemIDs []string `json:"item_ids"`
}

type quoteResponse struct {
	Total    decimal.Decimal `json:"total"`
	ItemIDs  []string        `json:"item_ids"`
	Currency string          `json:"currency"`
}

func (s *Server) handleCheckoutQuote(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFrom(r.Context())

	var req checkoutRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	total, err := s.checkout.Quote(r.Context(), actor, req.ItemIDs)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, quoteResponse{Total: total, ItemIDs: req.ItemIDs, Currency: s.checkout.Currency()})
}

type intentResponse struct {
	PaymentID   string `json:"payment_id"`
	ApprovalURL string `json:"approval_url"`
}

func (s *Server) handleCheckoutCreate(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFrom(r.Context())

	var req checkoutRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	intent, err := s.checkout.CreateIntent(r.Context(), actor, req.ItemIDs)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, intentResponse{PaymentID: intent.ID, ApprovalURL: intent.ApprovalURL})
}

type executeRequest struct {
	PayerToken string   `json:"payer_token"`
	ItemIDs    []string `json:"item_ids"`
}

type executeResponse struct {
	Shipments []shipmentResponse `json:"shipments"`
}

func (s *Server) handleCheckoutExecute(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFrom(r.Context())

	var req executeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	shipments, err := s.checkout.Execute(r.Context(), actor, mux.Vars(r)["paymentID"], req.PayerToken, req.ItemIDs)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}

	out := make([]shipmentResponse, 0, len(shipments))
	for _, shipment := range shipments {
		out = append(out, toShipmentResponse(shipment, "", ""))
	}
	writeJSON(w, http.StatusOK, executeResponse{Shipments: out})
}
