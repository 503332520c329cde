// Package services contains the server-side business logic: registration
// and authentication, mailbox item intake, checkout/payment orchestration,
// and shipment lifecycle operations.
package services

import (
	"context"
	"errors"
	"time"

	"github.com/shipshopglobal/backend/internal/common"
	"github.com/shipshopglobal/backend/internal/dbx"
	"github.com/shipshopglobal/backend/internal/logging"
	"github.com/shipshopglobal/backend/internal/server/repositories/repomanager"
)

const (
	// signupWindow bounds how far back the guard looks for registrations
	// from the same address.
	signupWindow = 10 * time.Minute

	// signupMinPrior is how many prior registrations inside the window make
	// the new one part of a cluster (2 prior + the new one = 3 total).
	signupMinPrior = 2

	// signupMaxSpan is the maximum elapsed time between the oldest and the
	// newest of the prior registrations for the cluster to count as
	// suspicious.
	signupMaxSpan = 120 * time.Second

	blockReason = "suspicious signup velocity"
)

// SignupGuard evaluates registration attempts against recent IP history and
// the block-list.
//
// The guard is a velocity heuristic, not a rate limiter: it always admits
// the request that trips it (the user is created, flagged suspicious) and
// only forward-blocks subsequent registrations from the same address.
type SignupGuard struct {
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

func NewSignupGuard(m repomanager.RepositoryManager, logger logging.Logger) *SignupGuard {
	return &SignupGuard{repomanager: m, logger: logger.With("module", "signup_guard")}
}

// GuardVerdict is the outcome of evaluating one registration attempt.
type GuardVerdict struct {
	// Suspicious marks the new user and triggers a block-list entry for
	// the address.
	Suspicious bool
}

// Check rejects attempts that must not create a user at all: blocked
// addresses and duplicate emails. Run before any insert.
func (g *SignupGuard) Check(ctx context.Context, tx dbx.DBTX, ip, email string) error {
	if _, err := g.repomanager.BlockedIPs(tx).Get(ctx, ip); err == nil {
		return common.ErrIPBlocked
	} else if !errors.Is(err, common.ErrorNotFound) {
		return err
	}

	if _, err := g.repomanager.Users(tx).GetByEmail(ctx, email); err == nil {
		return common.ErrEmailAlreadyTaken
	} else if !errors.Is(err, common.ErrorNotFound) {
		return err
	}

	return nil
}

// Evaluate inspects the trailing registration window for ip and decides
// whether the attempt being admitted is part of a suspicious cluster.
// Must run in the same transaction as the user insert so the window query
// is consistent with the insertion order.
func (g *SignupGuard) Evaluate(ctx context.Context, tx dbx.DBTX, ip string, now time.Time) (GuardVerdict, error) {
	prior, err := g.repomanager.Users(tx).ListRecentByIP(ctx, ip, now.Add(-signupWindow))
	if err != nil {
		return GuardVerdict{}, err
	}

	if len(prior) < signupMinPrior {
		return GuardVerdict{}, nil
	}

	// prior is ordered newest first.
	newest := prior[0].CreatedAt
	oldest := prior[len(prior)-1].CreatedAt
	if newest.Sub(oldest) > signupMaxSpan {
		return GuardVerdict{}, nil
	}

	g.logger.Warn(ctx, "suspicious signup cluster detected",
		"ip", ip, "prior_registrations", len(prior), "span", newest.Sub(oldest).String())
	return GuardVerdict{Suspicious: true}, nil
}

// Block writes the forward-block entry for ip with the default reason.
func (g *SignupGuard) Block(ctx context.Context, tx dbx.DBTX, ip string) error {
	return g.repomanager.BlockedIPs(tx).Upsert(ctx, ip, blockReason)
}
