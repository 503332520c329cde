package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shipshopglobal/backend/internal/common"
	"github.com/shipshopglobal/backend/internal/server/models"
)

func TestGuardEvaluate_Thresholds(t *testing.T) {
	now := time.Now()

	cases := []struct {
		name       string
		prior      []*models.User // newest first
		suspicious bool
	}{
		{"no prior", nil, false},
		{"one prior", []*models.User{
			{CreatedAt: now.Add(-5 * time.Second)},
		}, false},
		{"two prior tight", []*models.User{
			{CreatedAt: now.Add(-10 * time.Second)},
			{CreatedAt: now.Add(-40 * time.Second)},
		}, true},
		{"two prior span exactly at limit", []*models.User{
			{CreatedAt: now.Add(-10 * time.Second)},
			{CreatedAt: now.Add(-130 * time.Second)},
		}, true},
		{"two prior spread out", []*models.User{
			{CreatedAt: now.Add(-10 * time.Second)},
			{CreatedAt: now.Add(-131 * time.Second)},
		}, false},
		{"three prior tight", []*models.User{
			{CreatedAt: now.Add(-5 * time.Second)},
			{CreatedAt: now.Add(-30 * time.Second)},
			{CreatedAt: now.Add(-60 * time.Second)},
		}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rm := newFakeRepoManager()
			rm.u.recent = tc.prior
			guard := NewSignupGuard(rm, testLogger())

			verdict, err := guard.Evaluate(context.Background(), nil, "192.0.2.1", now)
			if err != nil {
				t.Fatalf("Evaluate error: %v", err)
			}
			if verdict.Suspicious != tc.suspicious {
				t.Fatalf("suspicious: got %v, want %v", verdict.Suspicious, tc.suspicious)
			}
		})
	}
}

func TestGuardCheck(t *testing.T) {
	rm := newFakeRepoManager()
	rm.ip.blocked["192.0.2.66"] = "suspicious signup velocity"
	rm.u.byID["u1"] = &models.User{ID: "u1", Email: "taken@example.com"}
	guard := NewSignupGuard(rm, testLogger())

	if err := guard.Check(context.Background(), nil, "192.0.2.66", "new@example.com"); !errors.Is(err, common.ErrIPBlocked) {
		t.Fatalf("want ErrIPBlocked, got %v", err)
	}
	if err := guard.Check(context.Background(), nil, "192.0.2.1", "taken@example.com"); !errors.Is(err, common.ErrEmailAlreadyTaken) {
		t.Fatalf("want ErrEmailAlreadyTaken, got %v", err)
	}
	if err := guard.Check(context.Background(), nil, "192.0.2.1", "new@example.com"); err != nil {
		t.Fatalf("clean signup must pass: %v", err)
	}
}

func TestGuardBlock(t *testing.T) {
	rm := newFakeRepoManager()
	guard := NewSignupGuard(rm, testLogger())

	if err := guard.Block(context.Background(), nil, "192.0.2.7"); err != nil {
		t.Fatalf("Block error: %v", err)
	}
	if reason, ok := rm.ip.blocked["192.0.2.7"]; !ok || reason == "" {
		t.Fatalf("block entry missing: %v", rm.ip.blocked)
	}
}
