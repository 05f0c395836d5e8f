package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/masjidtools/qurbani-backend/internal/models"
)

// HouseStore reads and maintains the denormalized house columns on members.
// There is no houses table: a house is the group of a mosque's members that
// share a house name.
type HouseStore struct {
	pool *pgxpool.Pool
}

func NewHouseStore(pool *pgxpool.Pool) *HouseStore {
	return &HouseStore{pool: pool}
}

func (s *HouseStore) ListByMosque(ctx context.Context, mosqueID uuid.UUID) ([]models.House, error) {
	query := `
		SELECT house_name, MIN(house_priority), COUNT(*)
		FROM members
		WHERE mosque_id = $1
		GROUP BY house_name
		ORDER BY MIN(house_priority) ASC, LOWER(house_name) ASC`

	rows, err := s.pool.Query(ctx, query, mosqueID)
	if err != nil {
		return nil, fmt.Errorf("list houses: %w", err)
	}
	defer rows.Close()

	houses := make([]models.House, 0)
	for rows.Next() {
		var h models.House
		if err := rows.Scan(&h.HouseName, &h.HousePriority, &h.MemberCount); err != nil {
			return nil, fmt.Errorf("scan house: %w", err)
		}
		houses = append(houses, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate houses: %w", err)
	}

	return houses, nil
}

// UpdatePriority rewrites the priority on every member of the house in one
// statement, so any later read sees the new value.
func (s *HouseStore) UpdatePriority(ctx context.Context, mosqueID uuid.UUID, houseName string, priority int) (int64, error) {
	tag, err := s.pool.Exec(ctx, `
		UPDATE members
		SET house_priority = $3
		WHERE mosque_id = $1 AND house_name = $2`,
		mosqueID, houseName, priority)
	if err != nil {
		return 0, fmt.Errorf("update house priority: %w", err)
	}
	return tag.RowsAffected(), nil
}
