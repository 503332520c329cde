package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/shipshopglobal/backend/internal/server/models"
)

func (s *Server) handleShipmentList(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFrom(r.Context())

	views, err := s.shipments.List(r.Context(), actor)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toShipmentViewResponses(views))
}

func (s *Server) handleShipmentGet(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFrom(r.Context())

	view, err := s.shipments.Get(r.Context(), actor, mux.Vars(r)["id"])
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toShipmentResponse(view.Shipment, view.InvoiceURL, view.ImageURL))
}

type statusUpdateRequest struct {
	Status      string `json:"status"`
	Carrier     string `json:"carrier"`
	TrackingURL string `json:"tracking_url"`
}

func (s *Server) handleShipmentStatus(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFrom(r.Context())

	var req statusUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	shipment, err := s.shipments.UpdateStatus(r.Context(), actor, mux.Vars(r)["id"],
		models.ShipmentStatus(req.Status), req.Carrier, req.TrackingURL)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toShipmentResponse(shipment, "", ""))
}
