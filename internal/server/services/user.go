package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/shipshopglobal/backend/internal/common"
	"github.com/shipshopglobal/backend/internal/dbx"
	"github.com/shipshopglobal/backend/internal/logging"
	"github.com/shipshopglobal/backend/internal/server/auth"
	"github.com/shipshopglobal/backend/internal/server/config"
	"github.com/shipshopglobal/backend/internal/server/models"
	"github.com/shipshopglobal/backend/internal/server/notify"
	"github.com/shipshopglobal/backend/internal/server/repositories/repomanager"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// UserService provides account-related operations:
// - Register: create users behind the signup abuse guard
// - Login / AdminLogin: verify credentials and mint tokens
// - RefreshToken: rotate refresh tokens and mint new access tokens
// - Approve and the admin list views
type UserService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	guard                        *SignupGuard
	notifier                     notify.Notifier
	logger                       logging.Logger
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
	adminAllowedIPs              []string
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, guard *SignupGuard,
	notifier notify.Notifier, logger logging.Logger, cfg *config.Config) *UserService {
	return &UserService{
		db:                           db,
		repomanager:                  m,
		guard:                        guard,
		notifier:                     notifier,
		logger:                       logger.With("module", "user_service"),
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
		adminAllowedIPs:              cfg.AdminAllowedIPs,
	}
}

// RegisterInput carries the self-service registration fields.
type RegisterInput struct {
	Email          string
	Password       string
	PhoneNumber    string
	ActualAddress  string
	BillingAddress string
	DateOfBirth    *time.Time

	// IP is the client address observed at the transport boundary.
	IP string
}

// Register creates a new, unapproved user account behind the signup guard.
//
// Blocked addresses and duplicate emails are rejected outright. A suspicious
// velocity cluster does NOT reject: the user is created flagged, and the
// address is block-listed for future attempts only.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if in.Email == "" || !strings.Contains(in.Email, "@") {
		return nil, fmt.Errorf("%w: valid email is required", common.ErrorValidation)
	}
	if in.Password == "" {
		return nil, fmt.Errorf("%w: password is required", common.ErrorValidation)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, common.ErrorInternal
	}

	customerID, err := newCustomerID()
	if err != nil {
		return nil, common.ErrorInternal
	}

	user := &models.User{
		Username:       strings.SplitN(in.Email, "@", 2)[0],
		Email:          in.Email,
		PasswordHash:   hash,
		PhoneNumber:    in.PhoneNumber,
		ActualAddress:  in.ActualAddress,
		BillingAddress: in.BillingAddress,
		DateOfBirth:    in.DateOfBirth,
		CustomerID:     customerID,
		RegistrationIP: in.IP,
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.guard.Check(ctx, tx, in.IP, in.Email); err != nil {
			return err
		}

		verdict, err := s.guard.Evaluate(ctx, tx, in.IP, time.Now())
		if err != nil {
			return err
		}
		user.IsSuspicious = verdict.Suspicious

		if _, err := s.repomanager.Users(tx).Create(ctx, user); err != nil {
			return err
		}

		if verdict.Suspicious {
			// The flagged user is still admitted; only future
			// registrations from this address are refused.
			return s.guard.Block(ctx, tx, in.IP)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "user registered",
		"customer_id", user.CustomerID, "suspicious", user.IsSuspicious)
	return user, nil
}

// Login verifies the credentials, enforces the approval gate, and returns a
// fresh token pair.
func (s *UserService) Login(ctx context.Context, username, password string) (*models.User, *TokenPair, error) {
	user, err := s.repomanager.Users(s.db).GetByUsername(ctx, username)
	if err != nil {
		if errorsIsNotFound(err) {
			return nil, nil, common.ErrorUnauthorized
		}
		return nil, nil, common.ErrorInternal
	}

	if !user.IsApproved && !user.IsAdmin {
		return nil, nil, common.ErrAccountNotApproved
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, nil, common.ErrorUnauthorized
	}

	pair, err := s.generateTokenPair(ctx, user, s.db)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// AdminLogin is Login with two extra gates: the account must be an admin,
// and the client address must pass both the deployment-wide allow-list and
// the account's own allowed IP, when set.
func (s *UserService) AdminLogin(ctx context.Context, username, password, ip string) (*models.User, *TokenPair, error) {
	if len(s.adminAllowedIPs) > 0 && !containsString(s.adminAllowedIPs, ip) {
		return nil, nil, common.ErrorForbidden
	}

	user, err := s.repomanager.Users(s.db).GetByUsername(ctx, username)
	if err != nil {
		if errorsIsNotFound(err) {
			return nil, nil, common.ErrorUnauthorized
		}
		return nil, nil, common.ErrorInternal
	}

	if !user.IsAdmin {
		return nil, nil, common.ErrorForbidden
	}
	if user.AllowedIP != "" && user.AllowedIP != ip {
		return nil, nil, common.ErrorForbidden
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, nil, common.ErrorUnauthorized
	}

	pair, err := s.generateTokenPair(ctx, user, s.db)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// RefreshToken validates a refresh token, rotates it transactionally, and
// returns a fresh TokenPair. Expired tokens yield ErrRefreshTokenExpired.
func (s *UserService) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	repo := s.repomanager.RefreshTokens(s.db)

	token, err := repo.Find(ctx, refreshToken)
	if err != nil {
		if errorsIsNotFound(err) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("error searching refresh token: %w", err)
	}
	if token.Expires.Before(time.Now()) {
		return nil, common.ErrRefreshTokenExpired
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, token.UserID)
	if err != nil {
		return nil, common.ErrorInternal
	}

	var pair *TokenPair
	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.RefreshTokens(tx).Delete(ctx, refreshToken); err != nil {
			return fmt.Errorf("error deleting refresh token: %w", err)
		}
		var genErr error
		pair, genErr = s.generateTokenPair(ctx, user, tx)
		return genErr
	}); err != nil {
		return nil, err
	}
	return pair, nil
}

// Approve marks a pending user approved and notifies them. Admin only.
// The notification is best-effort: a send failure is logged, the approval
// stands.
func (s *UserService) Approve(ctx context.Context, actor Actor, userID string) error {
	if !actor.IsAdmin {
		return common.ErrorForbidden
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := repo.SetApproved(ctx, userID); err != nil {
		return err
	}

	msg := notify.Message{
		To:      user.Email,
		Subject: "Your Account Has Been Approved",
		Body: fmt.Sprintf("Dear %s,\n\nYour account has been approved. "+
			"You can now log in with your email address and password.\n\nThank you!", user.Email),
	}
	if err := s.notifier.Send(ctx, msg); err != nil {
		s.logger.Error(ctx, "approval notification failed", "error", err.Error())
	}

	s.logger.Info(ctx, "user approved", "user_id", userID)
	return nil
}

// ListPending returns users awaiting approval. Admin only.
func (s *UserService) ListPending(ctx context.Context, actor Actor) ([]*models.User, error) {
	if !actor.IsAdmin {
		return nil, common.ErrorForbidden
	}
	return s.repomanager.Users(s.db).ListPendingApproval(ctx)
}

// ListCustomers returns all non-admin users. Admin only.
func (s *UserService) ListCustomers(ctx context.Context, actor Actor) ([]*models.User, error) {
	if !actor.IsAdmin {
		return nil, common.ErrorForbidden
	}
	return s.repomanager.Users(s.db).ListCustomers(ctx)
}

// CustomerDetails returns one customer plus their current mailbox items.
// Admins may look at anyone; customers only at themselves.
func (s *UserService) CustomerDetails(ctx context.Context, actor Actor, userID string) (*models.User, []*models.MailboxItem, error) {
	if !actor.mayActOn(userID) {
		return nil, nil, common.ErrorForbidden
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	items, err := s.repomanager.Mailbox(s.db).ListByOwner(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	return user, items, nil
}

// --- helpers below ---

func newCustomerID() (string, error) {
	suffix, err := common.MakeRandHexString(4)
	if err != nil {
		return "", err
	}
	return "SSG-" + strings.ToUpper(suffix), nil
}

func (s *UserService) generateTokenPair(ctx context.Context, user *models.User, tx dbx.DBTX) (*TokenPair, error) {
	access, err := auth.GenerateToken(user.ID, user.IsAdmin, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}
	refresh, err := common.MakeRandHexString(32)
	if err != nil {
		return nil, common.ErrorInternal
	}
	if err := s.repomanager.RefreshTokens(tx).Create(ctx, user.ID, refresh, s.refreshTokenValidityDuration); err != nil {
		return nil, common.ErrorInternal
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}
