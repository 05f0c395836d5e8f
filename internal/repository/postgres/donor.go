package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/masjidtools/qurbani-backend/internal/distribution"
	"github.com/masjidtools/qurbani-backend/internal/models"
	"github.com/masjidtools/qurbani-backend/internal/repository"
)

type DonorStore struct {
	pool *pgxpool.Pool
}

func NewDonorStore(pool *pgxpool.Pool) *DonorStore {
	return &DonorStore{pool: pool}
}

const donorColumns = `id, mosque_id, name, phone, beef, lungs, bone, created_at`

func scanDonor(row pgx.Row) (*models.Donor, error) {
	var d models.Donor
	err := row.Scan(
		&d.ID,
		&d.MosqueID,
		&d.Name,
		&d.Phone,
		&d.Beef,
		&d.Lungs,
		&d.Bone,
		&d.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *DonorStore) Create(ctx context.Context, mosqueID uuid.UUID, in repository.DonorInput) (*models.Donor, error) {
	query := `
		INSERT INTO donors (mosque_id, name, phone, beef, lungs, bone, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
		RETURNING ` + donorColumns

	d, err := scanDonor(s.pool.QueryRow(ctx, query, mosqueID, in.Name, in.Phone, in.Beef, in.Lungs, in.Bone))
	if err != nil {
		return nil, fmt.Errorf("insert donor: %w", err)
	}
	return d, nil
}

func (s *DonorStore) Update(ctx context.Context, mosqueID, donorID uuid.UUID, in repository.DonorInput) (*models.Donor, error) {
	query := `
		UPDATE donors
		SET name = $3, phone = $4, beef = $5, lungs = $6, bone = $7
		WHERE id = $1 AND mosque_id = $2
		RETURNING ` + donorColumns

	d, err := scanDonor(s.pool.QueryRow(ctx, query, donorID, mosqueID, in.Name, in.Phone, in.Beef, in.Lungs, in.Bone))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("update donor: %w", err)
	}
	return d, nil
}

func (s *DonorStore) Delete(ctx context.Context, mosqueID, donorID uuid.UUID) (bool, error) {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM donors WHERE id = $1 AND mosque_id = $2`, donorID, mosqueID)
	if err != nil {
		return false, fmt.Errorf("delete donor: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (s *DonorStore) ListByMosque(ctx context.Context, mosqueID uuid.UUID) ([]models.Donor, error) {
	query := `
		SELECT ` + donorColumns + `
		FROM donors
		WHERE mosque_id = $1
		ORDER BY created_at DESC`

	rows, err := s.pool.Query(ctx, query, mosqueID)
	if err != nil {
		return nil, fmt.Errorf("list donors: %w", err)
	}
	defer rows.Close()

	donors := make([]models.Donor, 0)
	for rows.Next() {
		d, err := scanDonor(rows)
		if err != nil {
			return nil, fmt.Errorf("scan donor: %w", err)
		}
		donors = append(donors, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate donors: %w", err)
	}

	return donors, nil
}

// TotalsByMosque sums the three quantities over the mosque's donors.
// COALESCE turns an empty donor set into zero totals rather than NULLs.
func (s *DonorStore) TotalsByMosque(ctx context.Context, mosqueID uuid.UUID) (distribution.Totals, error) {
	query := `
		SELECT COALESCE(SUM(beef), 0), COALESCE(SUM(lungs), 0), COALESCE(SUM(bone), 0)
		FROM donors
		WHERE mosque_id = $1`

	var t distribution.Totals
	if err := s.pool.QueryRow(ctx, query, mosqueID).Scan(&t.Beef, &t.Lungs, &t.Bone); err != nil {
		return distribution.Totals{}, fmt.Errorf("sum donor totals: %w", err)
	}
	return t, nil
}
