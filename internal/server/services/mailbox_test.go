package services

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/shipshopglobal/backend/internal/common"
	"github.com/shipshopglobal/backend/internal/server/models"
	"github.com/shipshopglobal/backend/internal/server/pricing"
	mailboxrepo "github.com/shipshopglobal/backend/internal/server/repositories/mailbox"
	"github.com/shopspring/decimal"
)

func newMailboxService(t *testing.T, db *sql.DB, rm *fakeRepoManager) *MailboxService {
	t.Helper()
	calc := pricing.NewCalculator(pricing.DefaultSlab(), pricing.DefaultVolumetricDivisor, testLogger())
	return NewMailboxService(db, rm, calc, testLogger())
}

func TestMailboxCreate_StampsPrice(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectCommit()

	rm := newFakeRepoManager()
	s := newMailboxService(t, db, rm)

	item, err := s.Create(context.Background(), Actor{UserID: "u1"}, CreateInput{
		UserID:    "u1",
		ItemName:  "headphones",
		WeightKg:  2,
		Dimension: "10x10x10",
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if !item.ShippingPrice.Valid {
		t.Fatalf("price must be stamped at intake")
	}
	if got := item.ShippingPrice.Decimal; !got.Equal(decimal.NewFromInt(12)) {
		t.Fatalf("2 kg slab price: got %s, want 12", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestMailboxCreate_MalformedDimensionStillPriced(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectCommit()

	rm := newFakeRepoManager()
	s := newMailboxService(t, db, rm)

	item, err := s.Create(context.Background(), Actor{UserID: "u1"}, CreateInput{
		UserID: "u1", ItemName: "mystery box", WeightKg: 2, Dimension: "garbage",
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if !item.ShippingPrice.Valid || !item.ShippingPrice.Decimal.Equal(decimal.NewFromInt(12)) {
		t.Fatalf("malformed dimension must fall back to actual weight: %+v", item.ShippingPrice)
	}
}

func TestMailboxCreate_Forbidden(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()
	s := newMailboxService(t, db, newFakeRepoManager())

	_, err := s.Create(context.Background(), Actor{UserID: "u2"}, CreateInput{UserID: "u1", ItemName: "x"})
	if !errors.Is(err, common.ErrorForbidden) {
		t.Fatalf("want ErrorForbidden, got %v", err)
	}
}

func TestMailboxCreate_AdminForAnyUser(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectCommit()

	rm := newFakeRepoManager()
	s := newMailboxService(t, db, rm)

	item, err := s.Create(context.Background(), Actor{UserID: "a1", IsAdmin: true}, CreateInput{
		UserID: "u1", ItemName: "book", WeightKg: 0.4,
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if item.UserID != "u1" {
		t.Fatalf("item owner: got %q", item.UserID)
	}
}

func TestMailboxUpdate_OwnerAndMissing(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()

	rm := newFakeRepoManager()
	rm.m.items["m1"] = &models.MailboxItem{ID: "m1", UserID: "u1", ItemName: "old"}
	s := newMailboxService(t, db, rm)

	tracking := "TRK-9"
	mock.ExpectBegin()
	mock.ExpectCommit()
	item, err := s.Update(context.Background(), Actor{UserID: "u1"}, "m1", mailboxrepo.ItemUpdate{TrackingNumber: &tracking})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if item.TrackingNumber != "TRK-9" {
		t.Fatalf("tracking not updated: %+v", item)
	}

	// An item consumed by checkout is gone; the update sees not-found.
	mock.ExpectBegin()
	mock.ExpectRollback()
	if _, err := s.Update(context.Background(), Actor{UserID: "u1"}, "missing", mailboxrepo.ItemUpdate{}); !errorsIsNotFound(err) {
		t.Fatalf("want not-found, got %v", err)
	}
}

func TestMailboxUpdate_Forbidden(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectRollback()

	rm := newFakeRepoManager()
	rm.m.items["m1"] = &models.MailboxItem{ID: "m1", UserID: "u1"}
	s := newMailboxService(t, db, rm)

	if _, err := s.Update(context.Background(), Actor{UserID: "u2"}, "m1", mailboxrepo.ItemUpdate{}); !errors.Is(err, common.ErrorForbidden) {
		t.Fatalf("want ErrorForbidden, got %v", err)
	}
}

func TestMailboxDelete_AdminOnly(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := newFakeRepoManager()
	rm.m.items["m1"] = &models.MailboxItem{ID: "m1", UserID: "u1"}
	s := newMailboxService(t, db, rm)

	if err := s.Delete(context.Background(), Actor{UserID: "u1"}, "m1"); !errors.Is(err, common.ErrorForbidden) {
		t.Fatalf("owner delete must be forbidden, got %v", err)
	}
	if err := s.Delete(context.Background(), Actor{IsAdmin: true}, "m1"); err != nil {
		t.Fatalf("admin delete error: %v", err)
	}
	if _, ok := rm.m.items["m1"]; ok {
		t.Fatalf("item must be gone")
	}
}

func TestMailboxList_OwnerScoped(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := newFakeRepoManager()
	rm.m.items["m1"] = &models.MailboxItem{ID: "m1", UserID: "u1"}
	rm.m.items["m2"] = &models.MailboxItem{ID: "m2", UserID: "u2"}
	s := newMailboxService(t, db, rm)

	items, err := s.List(context.Background(), Actor{UserID: "u1"}, "u1")
	if err != nil || len(items) != 1 || items[0].ID != "m1" {
		t.Fatalf("owner list: (%v, %v)", items, err)
	}
	if _, err := s.List(context.Background(), Actor{UserID: "u1"}, "u2"); !errors.Is(err, common.ErrorForbidden) {
		t.Fatalf("cross-user list must be forbidden, got %v", err)
	}
}
