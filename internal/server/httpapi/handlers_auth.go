package httpapi

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/shipshopglobal/backend/internal/server/services"
)

type registerRequest struct {
	Email          string     `json:"email"`
	Password       string     `json:"password"`
	PhoneNumber    string     `json:"phone_number"`
	ActualAddress  string     `json:"actual_address"`
	BillingAddress string     `json:"billing_address"`
	DateOfBirth    *time.Time `json:"date_of_birth"`
}

type registerResponse struct {
	User    userResponse `json:"user"`
	Message string       `json:"message"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := s.users.Register(r.Context(), services.RegisterInput{
		Email:          req.Email,
		Password:       req.Password,
		PhoneNumber:    req.PhoneNumber,
		ActualAddress:  req.ActualAddress,
		BillingAddress: req.BillingAddress,
		DateOfBirth:    req.DateOfBirth,
		IP:             clientIP(r.Context()),
	})
	if err != nil {
		s.serviceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, registerResponse{
		User:    toUserResponse(user),
		Message: "registration received, await account approval",
	})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	User   userResponse      `json:"user"`
	Tokens tokenPairResponse `json:"tokens"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, pair, err := s.users.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{User: toUserResponse(user), Tokens: toTokenPairResponse(pair)})
}

func (s *Server) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, pair, err := s.users.AdminLogin(r.Context(), req.Username, req.Password, clientIP(r.Context()))
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{User: toUserResponse(user), Tokens: toTokenPairResponse(pair)})
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (s *Server) handleRefreshToken(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	pair, err := s.users.RefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTokenPairResponse(pair))
}

func (s *Server) handleApprovalList(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFrom(r.Context())

	users, err := s.users.ListPending(r.Context(), actor)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponses(users))
}

func (s *Server) handleApprove(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFrom(r.Context())

	if err := s.users.Approve(r.Context(), actor, mux.Vars(r)["id"]); err != nil {
		s.serviceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCustomerList(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFrom(r.Context())

	users, err := s.users.ListCustomers(r.Context(), actor)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponses(users))
}

type userDetailsResponse struct {
	User    userResponse   `json:"user"`
	Mailbox []itemResponse `json:"mailbox"`
}

func (s *Server) handleUserDetails(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFrom(r.Context())

	user, items, err := s.users.CustomerDetails(r.Context(), actor, mux.Vars(r)["id"])
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, userDetailsResponse{
		User:    toUserResponse(user),
		Mailbox: toItemResponses(items),
	})
}
