// Package httpapi exposes the backend over a JSON REST surface: account
// registration and login, the virtual mailbox, checkout and shipments.
package httpapi

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/shipshopglobal/backend/internal/logging"
	"github.com/shipshopglobal/backend/internal/server/models"
	"github.com/shipshopglobal/backend/internal/server/payment"
	"github.com/shipshopglobal/backend/internal/server/repositories/mailbox"
	"github.com/shipshopglobal/backend/internal/server/services"
	"github.com/shopspring/decimal"
)

// The handler layer consumes the services through these interfaces so that
// transports and tests do not depend on the concrete wiring.

type UserService interface {
	Register(ctx context.Context, in services.RegisterInput) (*models.User, error)
	Login(ctx context.Context, username, password string) (*models.User, *services.TokenPair, error)
	AdminLogin(ctx context.Context, username, password, ip string) (*models.User, *services.TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	Approve(ctx context.Context, actor services.Actor, userID string) error
	ListPending(ctx context.Context, actor services.Actor) ([]*models.User, error)
	ListCustomers(ctx context.Context, actor services.Actor) ([]*models.User, error)
	CustomerDetails(ctx context.Context, actor services.Actor, userID string) (*models.User, []*models.MailboxItem, error)
}

type MailboxService interface {
	Create(ctx context.Context, actor services.Actor, in services.CreateInput) (*models.MailboxItem, error)
	List(ctx context.Context, actor services.Actor, userID string) ([]*models.MailboxItem, error)
	Update(ctx context.Context, actor services.Actor, id string, upd mailbox.ItemUpdate) (*models.MailboxItem, error)
	Delete(ctx context.Context, actor services.Actor, id string) error
}

type CheckoutService interface {
	Currency() string
	Quote(ctx context.Context, actor services.Actor, itemIDs []string) (decimal.Decimal, error)
	CreateIntent(ctx context.Context, actor services.Actor, itemIDs []string) (*payment.Intent, error)
	Execute(ctx context.Context, actor services.Actor, paymentID, payerToken string, itemIDs []string) ([]*models.Shipment, error)
}

type ShipmentService interface {
	List(ctx context.Context, actor services.Actor) ([]*services.ShipmentView, error)
	Get(ctx context.Context, actor services.Actor, id string) (*services.ShipmentView, error)
	UpdateStatus(ctx context.Context, actor services.Actor, id string, status models.ShipmentStatus, carrier, trackingURL string) (*models.Shipment, error)
}

// Server bundles the request handlers with their service dependencies.
type Server struct {
	users     UserService
	mailbox   MailboxService
	checkout  CheckoutService
	shipments ShipmentService
	logger    logging.Logger
	jwtSecret []byte
}

func NewServer(users UserService, mailbox MailboxService,
	checkout CheckoutService, shipments ShipmentService,
	logger logging.Logger, jwtSecret []byte) *Server {
	return &Server{
		users:     users,
		mailbox:   mailbox,
		checkout:  checkout,
		shipments: shipments,
		logger:    logger.With("module", "httpapi"),
		jwtSecret: jwtSecret,
	}
}

// Router builds the route table. Public routes only need the client IP;
// everything else runs behind JWT auth, and the admin subtree additionally
// behind the admin gate.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.withClientIP)

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/register", s.handleRegister).Methods(http.MethodPost)
	api.HandleFunc("/login", s.handleLogin).Methods(http.MethodPost)
	api.HandleFunc("/admin/login", s.handleAdminLogin).Methods(http.MethodPost)
	api.HandleFunc("/token/refresh", s.handleRefreshToken).Methods(http.MethodPost)

	authed := api.NewRoute().Subrouter()
	authed.Use(s.withAuth)

	authed.HandleFunc("/users/{id}", s.handleUserDetails).Methods(http.MethodGet)
	authed.HandleFunc("/users/{id}/mailbox", s.handleMailboxList).Methods(http.MethodGet)
	authed.HandleFunc("/mailbox", s.handleMailboxCreate).Methods(http.MethodPost)
	authed.HandleFunc("/mailbox/{id}", s.handleMailboxUpdate).Methods(http.MethodPatch)
	authed.HandleFunc("/mailbox/{id}", s.handleMailboxDelete).Methods(http.MethodDelete)

	authed.HandleFunc("/checkout/quote", s.handleCheckoutQuote).Methods(http.MethodPost)
	authed.HandleFunc("/checkout", s.handleCheckoutCreate).Methods(http.MethodPost)
	authed.HandleFunc("/checkout/{paymentID}/execute", s.handleCheckoutExecute).Methods(http.MethodPost)

	authed.HandleFunc("/shipments", s.handleShipmentList).Methods(http.MethodGet)
	authed.HandleFunc("/shipments/{id}", s.handleShipmentGet).Methods(http.MethodGet)

	admin := authed.PathPrefix("/admin").Subrouter()
	admin.Use(s.requireAdmin)

	admin.HandleFunc("/approvals", s.handleApprovalList).Methods(http.MethodGet)
	admin.HandleFunc("/approvals/{id}", s.handleApprove).Methods(http.MethodPatch)
	admin.HandleFunc("/users", s.handleCustomerList).Methods(http.MethodGet)
	admin.HandleFunc("/shipments/{id}/status", s.handleShipmentStatus).Methods(http.MethodPatch)

	return r
}
