package services

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shipshopglobal/backend/internal/common"
	"github.com/shipshopglobal/backend/internal/dbx"
	"github.com/shipshopglobal/backend/internal/logging"
	"github.com/shipshopglobal/backend/internal/server/models"
	"github.com/shipshopglobal/backend/internal/server/notify"
	"github.com/shipshopglobal/backend/internal/server/payment"
	blockedipsrepo "github.com/shipshopglobal/backend/internal/server/repositories/blockedips"
	mailboxrepo "github.com/shipshopglobal/backend/internal/server/repositories/mailbox"
	refreshtokensrepo "github.com/shipshopglobal/backend/internal/server/repositories/refreshtokens"
	shipmentsrepo "github.com/shipshopglobal/backend/internal/server/repositories/shipments"
	usersrepo "github.com/shipshopglobal/backend/internal/server/repositories/users"
	"github.com/shopspring/decimal"
)

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})))
}

// --- in-memory repositories ---

type fakeUsersRepo struct {
	byID     map[string]*models.User
	recent   []*models.User
	nextID   int
	created  []*models.User
	approved []string

	createErr error
	recentErr error
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{byID: map[string]*models.User{}}
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.nextID++
	cp := *u
	cp.ID = fmt.Sprintf("u%d", f.nextID)
	cp.CreatedAt = time.Now()
	f.byID[cp.ID] = &cp
	f.created = append(f.created, &cp)
	return &cp, nil
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

func (f *fakeUsersRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	for _, u := range f.byID {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) ListRecentByIP(ctx context.Context, ip string, since time.Time) ([]*models.User, error) {
	if f.recentErr != nil {
		return nil, f.recentErr
	}
	return f.recent, nil
}

func (f *fakeUsersRepo) ListPendingApproval(ctx context.Context) ([]*models.User, error) {
	var out []*models.User
	for _, u := range f.byID {
		if !u.IsApproved {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUsersRepo) SetApproved(ctx context.Context, id string) error {
	u, ok := f.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.IsApproved = true
	f.approved = append(f.approved, id)
	return nil
}

func (f *fakeUsersRepo) ListCustomers(ctx context.Context) ([]*models.User, error) {
	var out []*models.User
	for _, u := range f.byID {
		if !u.IsAdmin {
			out = append(out, u)
		}
	}
	return out, nil
}

type fakeRefreshTokensRepo struct {
	tokens    map[string]*models.RefreshToken
	createErr error
	deleteErr error
}

func newFakeRefreshTokensRepo() *fakeRefreshTokensRepo {
	return &fakeRefreshTokensRepo{tokens: map[string]*models.RefreshToken{}}
}

func (f *fakeRefreshTokensRepo) Create(ctx context.Context, userID, token string, validity time.Duration) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.tokens[token] = &models.RefreshToken{UserID: userID, Token: token, Expires: time.Now().Add(validity)}
	return nil
}

func (f *fakeRefreshTokensRepo) Find(ctx context.Context, token string) (*models.RefreshToken, error) {
	rt, ok := f.tokens[token]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return rt, nil
}

func (f *fakeRefreshTokensRepo) Delete(ctx context.Context, token string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.tokens, token)
	return nil
}

type fakeMailboxRepo struct {
	items  map[string]*models.MailboxItem
	nextID int

	stamped map[string]decimal.Decimal
}

func newFakeMailboxRepo() *fakeMailboxRepo {
	return &fakeMailboxRepo{items: map[string]*models.MailboxItem{}, stamped: map[string]decimal.Decimal{}}
}

func (f *fakeMailboxRepo) Create(ctx context.Context, item *models.MailboxItem) (*models.MailboxItem, error) {
	f.nextID++
	cp := *item
	cp.ID = fmt.Sprintf("m%d", f.nextID)
	cp.CreatedAt = time.Now()
	f.items[cp.ID] = &cp
	return &cp, nil
}

func (f *fakeMailboxRepo) GetByID(ctx context.Context, id string) (*models.MailboxItem, error) {
	item, ok := f.items[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return item, nil
}

func (f *fakeMailboxRepo) ListByOwner(ctx context.Context, userID string) ([]*models.MailboxItem, error) {
	var out []*models.MailboxItem
	for _, item := range f.items {
		if item.UserID == userID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (f *fakeMailboxRepo) Update(ctx context.Context, id string, upd mailboxrepo.ItemUpdate) error {
	item, ok := f.items[id]
	if !ok {
		return common.ErrorNotFound
	}
	if upd.ProductValue != nil {
		item.ProductValue = *upd.ProductValue
	}
	if upd.ShippingPrice != nil {
		item.ShippingPrice = decimal.NewNullDecimal(*upd.ShippingPrice)
	}
	if upd.TrackingNumber != nil {
		item.TrackingNumber = *upd.TrackingNumber
	}
	if upd.WeightKg != nil {
		item.WeightKg = *upd.WeightKg
	}
	if upd.Dimension != nil {
		item.Dimension = *upd.Dimension
	}
	return nil
}

func (f *fakeMailboxRepo) SetShippingPrice(ctx context.Context, id string, price decimal.Decimal) error {
	item, ok := f.items[id]
	if !ok {
		return common.ErrorNotFound
	}
	item.ShippingPrice = decimal.NewNullDecimal(price)
	f.stamped[id] = price
	return nil
}

func (f *fakeMailboxRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.items[id]; !ok {
		return common.ErrorNotFound
	}
	delete(f.items, id)
	return nil
}

func (f *fakeMailboxRepo) ListByIDsForUpdate(ctx context.Context, ids []string) ([]*models.MailboxItem, error) {
	var out []*models.MailboxItem
	for _, id := range ids {
		if item, ok := f.items[id]; ok {
			out = append(out, item)
		}
	}
	return out, nil
}

func (f *fakeMailboxRepo) DeleteByIDs(ctx context.Context, ids []string) error {
	for _, id := range ids {
		if _, ok := f.items[id]; !ok {
			return common.ErrorNotFound
		}
	}
	for _, id := range ids {
		delete(f.items, id)
	}
	return nil
}

type fakeShipmentsRepo struct {
	shipments map[string]*models.Shipment
	nextID    int
	createErr error
}

func newFakeShipmentsRepo() *fakeShipmentsRepo {
	return &fakeShipmentsRepo{shipments: map[string]*models.Shipment{}}
}

func (f *fakeShipmentsRepo) Create(ctx context.Context, shipment *models.Shipment) (*models.Shipment, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.nextID++
	cp := *shipment
	cp.ID = fmt.Sprintf("s%d", f.nextID)
	cp.CreatedAt = time.Now()
	f.shipments[cp.ID] = &cp
	return &cp, nil
}

func (f *fakeShipmentsRepo) GetByID(ctx context.Context, id string) (*models.Shipment, error) {
	shipment, ok := f.shipments[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return shipment, nil
}

func (f *fakeShipmentsRepo) ListByOwner(ctx context.Context, userID string) ([]*models.Shipment, error) {
	var out []*models.Shipment
	for _, shipment := range f.shipments {
		if shipment.UserID == userID {
			out = append(out, shipment)
		}
	}
	return out, nil
}

func (f *fakeShipmentsRepo) ListAll(ctx context.Context) ([]*models.Shipment, error) {
	var out []*models.Shipment
	for _, shipment := range f.shipments {
		out = append(out, shipment)
	}
	return out, nil
}

func (f *fakeShipmentsRepo) UpdateStatus(ctx context.Context, id string, status models.ShipmentStatus, carrier, trackingURL string) error {
	shipment, ok := f.shipments[id]
	if !ok {
		return common.ErrorNotFound
	}
	shipment.Status = status
	if carrier != "" {
		shipment.Carrier = carrier
	}
	if trackingURL != "" {
		shipment.CarrierTrackingURL = trackingURL
	}
	return nil
}

type fakeBlockedIPsRepo struct {
	blocked map[string]string
}

func newFakeBlockedIPsRepo() *fakeBlockedIPsRepo {
	return &fakeBlockedIPsRepo{blocked: map[string]string{}}
}

func (f *fakeBlockedIPsRepo) Get(ctx context.Context, ip string) (*models.BlockedIP, error) {
	reason, ok := f.blocked[ip]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &models.BlockedIP{IP: ip, Reason: reason}, nil
}

func (f *fakeBlockedIPsRepo) Upsert(ctx context.Context, ip, reason string) error {
	f.blocked[ip] = reason
	return nil
}

type fakeRepoManager struct {
	u  *fakeUsersRepo
	r  *fakeRefreshTokensRepo
	m  *fakeMailboxRepo
	s  *fakeShipmentsRepo
	ip *fakeBlockedIPsRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		u:  newFakeUsersRepo(),
		r:  newFakeRefreshTokensRepo(),
		m:  newFakeMailboxRepo(),
		s:  newFakeShipmentsRepo(),
		ip: newFakeBlockedIPsRepo(),
	}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error           { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository                 { return m.u }
func (m *fakeRepoManager) RefreshTokens(db dbx.DBTX) refreshtokensrepo.Repository { return m.r }
func (m *fakeRepoManager) Mailbox(db dbx.DBTX) mailboxrepo.Repository             { return m.m }
func (m *fakeRepoManager) Shipments(db dbx.DBTX) shipmentsrepo.Repository         { return m.s }
func (m *fakeRepoManager) BlockedIPs(db dbx.DBTX) blockedipsrepo.Repository       { return m.ip }

// --- external collaborators ---

type fakePaymentProvider struct {
	intent     *payment.Intent
	createErr  error
	executeErr error

	executed []string
}

func (f *fakePaymentProvider) CreateIntent(ctx context.Context, amount decimal.Decimal, currency string) (*payment.Intent, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.intent != nil {
		return f.intent, nil
	}
	return &payment.Intent{ID: "PAY-1", ApprovalURL: "https://pay.example/approve"}, nil
}

func (f *fakePaymentProvider) Execute(ctx context.Context, paymentID, payerToken string) error {
	if f.executeErr != nil {
		return f.executeErr
	}
	f.executed = append(f.executed, paymentID)
	return nil
}

type fakeArtifactStore struct {
	objects    map[string][]byte
	putErr     error
	presignErr error
}

func newFakeArtifactStore() *fakeArtifactStore {
	return &fakeArtifactStore{objects: map[string][]byte{}}
}

func (f *fakeArtifactStore) Put(ctx context.Context, key string, body []byte, contentType string) error {
	if f.putErr != nil {
		return f.putErr
	}
	f.objects[key] = body
	return nil
}

func (f *fakeArtifactStore) PresignGet(ctx context.Context, key string) (string, error) {
	if f.presignErr != nil {
		return "", f.presignErr
	}
	return "https://s3.example/" + key, nil
}

type fakeNotifier struct {
	sent    []notify.Message
	sendErr error
}

func (f *fakeNotifier) Send(ctx context.Context, msg notify.Message) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, msg)
	return nil
}
