package distribution

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/masjidtools/qurbani-backend/internal/models"
)

// Snapshot is one consistent view of everything a distribution run reads:
// donor totals and the full member set of a mosque.
type Snapshot struct {
	Totals     Totals
	DonorCount int
	Members    []models.Member
}

// Tx is the mutation surface available inside one distribution transaction.
type Tx interface {
	Snapshot(ctx context.Context, mosqueID uuid.UUID) (*Snapshot, error)

	// UpdateShares writes the computed shares and status for every listed
	// member of the mosque. Within a Transact call it is all-or-nothing.
	UpdateShares(ctx context.Context, mosqueID uuid.UUID, updates []ShareUpdate) error
}

// Store is what the engine needs from storage. Transact must run fn inside a
// single serializable transaction: the snapshot read and the share writes
// either all take effect or none do, and no concurrent donor/member write
// can land between them.
type Store interface {
	Transact(ctx context.Context, fn func(tx Tx) error) error

	// Snapshot reads outside any write transaction, for summaries.
	Snapshot(ctx context.Context, mosqueID uuid.UUID) (*Snapshot, error)
}

// Statistics are the read-side counts shown alongside the totals.
type Statistics struct {
	TotalDonors        int `json:"total_donors"`
	TotalMembers       int `json:"total_members"`
	TotalFamilyMembers int `json:"total_family_members"`
	CompletedMembers   int `json:"completed_members"`
	PendingMembers     int `json:"pending_members"`
}

// Summary is the non-mutating counterpart of a run.
type Summary struct {
	Totals     Totals     `json:"totals"`
	Statistics Statistics `json:"statistics"`
}

// Engine computes and persists proportional shares for a mosque.
type Engine struct {
	store  Store
	logger *zap.Logger
}

func NewEngine(store Store, logger *zap.Logger) *Engine {
	return &Engine{store: store, logger: logger}
}

// Run performs one distribution for the mosque: read donor totals and
// members, compute every member's share, and persist shares plus COMPLETED
// status — all inside one transaction. A mosque with no members gets
// ErrNoMembers and no mutation. Any storage failure rolls the whole batch
// back and surfaces as ErrPersistence; re-running is safe because the same
// inputs always produce the same shares.
func (e *Engine) Run(ctx context.Context, mosqueID uuid.UUID) (*Result, error) {
	var result *Result

	err := e.store.Transact(ctx, func(tx Tx) error {
		snap, err := tx.Snapshot(ctx, mosqueID)
		if err != nil {
			return fmt.Errorf("read snapshot: %w", err)
		}

		res, updates, err := Compute(snap.Totals, snap.Members)
		if err != nil {
			return err
		}

		if err := tx.UpdateShares(ctx, mosqueID, updates); err != nil {
			return fmt.Errorf("write shares: %w", err)
		}

		result = res
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNoMembers) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	e.logger.Info("distribution completed",
		zap.String("mosque_id", mosqueID.String()),
		zap.Int("members", result.TotalMembers),
		zap.Int("family_members", result.TotalFamilyMembers),
	)
	return result, nil
}

// Summary recomputes the totals and counts without touching any row. It runs
// on a plain read snapshot, so it reflects whatever donors and members exist
// right now, whether or not a run has happened.
func (e *Engine) Summary(ctx context.Context, mosqueID uuid.UUID) (*Summary, error) {
	snap, err := e.store.Snapshot(ctx, mosqueID)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	stats := Statistics{
		TotalDonors:  snap.DonorCount,
		TotalMembers: len(snap.Members),
	}
	for _, m := range snap.Members {
		stats.TotalFamilyMembers += familySize(m)
		if m.Status == models.StatusCompleted {
			stats.CompletedMembers++
		} else {
			stats.PendingMembers++
		}
	}

	return &Summary{Totals: snap.Totals, Statistics: stats}, nil
}
