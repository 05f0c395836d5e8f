package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/masjidtools/qurbani-backend/internal/distribution"
	"github.com/masjidtools/qurbani-backend/internal/models"
)

// DistributionStore backs the distribution engine with Postgres.
//
// Transact runs the engine's read-compute-write cycle in one SERIALIZABLE
// transaction. That gives the run a stable snapshot (no donor or member
// write can land between reading the totals and writing the shares) and
// makes the share batch all-or-nothing: any failure rolls every member
// update back. Runs for different mosques touch disjoint rows and do not
// contend.
type DistributionStore struct {
	pool *pgxpool.Pool
}

func NewDistributionStore(pool *pgxpool.Pool) *DistributionStore {
	return &DistributionStore{pool: pool}
}

var _ distribution.Store = (*DistributionStore)(nil)

func (s *DistributionStore) Transact(ctx context.Context, fn func(tx distribution.Tx) error) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return fmt.Errorf("begin distribution tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(&distributionTx{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit distribution tx: %w", err)
	}
	return nil
}

// Snapshot reads totals and members outside a write transaction, for the
// read-only summary path.
func (s *DistributionStore) Snapshot(ctx context.Context, mosqueID uuid.UUID) (*distribution.Snapshot, error) {
	return readSnapshot(ctx, s.pool, mosqueID)
}

type distributionTx struct {
	tx pgx.Tx
}

func (t *distributionTx) Snapshot(ctx context.Context, mosqueID uuid.UUID) (*distribution.Snapshot, error) {
	return readSnapshot(ctx, t.tx, mosqueID)
}

// UpdateShares queues one UPDATE per member into a single batch on the open
// transaction. The batch either commits with the transaction or vanishes
// with the rollback.
func (t *distributionTx) UpdateShares(ctx context.Context, mosqueID uuid.UUID, updates []distribution.ShareUpdate) error {
	batch := &pgx.Batch{}
	for _, u := range updates {
		batch.Queue(`
			UPDATE members
			SET beef_share = $1, lungs_share = $2, bone_share = $3, status = $4
			WHERE id = $5 AND mosque_id = $6`,
			u.Beef, u.Lungs, u.Bone, u.Status, u.MemberID, mosqueID)
	}

	results := t.tx.SendBatch(ctx, batch)
	defer results.Close()

	for range updates {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("update member shares: %w", err)
		}
	}
	return nil
}

// querier is satisfied by both *pgxpool.Pool and pgx.Tx, so the snapshot
// read works inside and outside a transaction.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func readSnapshot(ctx context.Context, q querier, mosqueID uuid.UUID) (*distribution.Snapshot, error) {
	snap := &distribution.Snapshot{}

	err := q.QueryRow(ctx, `
		SELECT COUNT(*), COALESCE(SUM(beef), 0), COALESCE(SUM(lungs), 0), COALESCE(SUM(bone), 0)
		FROM donors
		WHERE mosque_id = $1`, mosqueID).Scan(
		&snap.DonorCount,
		&snap.Totals.Beef,
		&snap.Totals.Lungs,
		&snap.Totals.Bone,
	)
	if err != nil {
		return nil, fmt.Errorf("sum donor totals: %w", err)
	}

	rows, err := q.Query(ctx, `
		SELECT `+memberColumns+`
		FROM members
		WHERE mosque_id = $1
		ORDER BY created_at ASC`, mosqueID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	snap.Members = make([]models.Member, 0)
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		snap.Members = append(snap.Members, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate members: %w", err)
	}

	return snap, nil
}
