package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/masjidtools/qurbani-backend/internal/models"
)

type MosqueStore struct {
	pool *pgxpool.Pool
}

func NewMosqueStore(pool *pgxpool.Pool) *MosqueStore {
	return &MosqueStore{pool: pool}
}

// CreateWithAdmin registers a mosque together with its first admin user.
// Both inserts run in one transaction: a failed user insert (say, a
// duplicate email that raced the earlier check) leaves no orphan mosque.
func (s *MosqueStore) CreateWithAdmin(ctx context.Context, mosqueName, mosqueAddress, adminName, email, passwordHash string) (*models.Mosque, *models.User, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("begin registration tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var mosque models.Mosque
	err = tx.QueryRow(ctx, `
		INSERT INTO mosques (name, address, created_at)
		VALUES ($1, $2, now())
		RETURNING id, name, address, created_at`,
		mosqueName, mosqueAddress).Scan(
		&mosque.ID,
		&mosque.Name,
		&mosque.Address,
		&mosque.CreatedAt,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("insert mosque: %w", err)
	}

	var user models.User
	err = tx.QueryRow(ctx, `
		INSERT INTO users (mosque_id, name, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4, now())
		RETURNING id, mosque_id, name, email, password_hash, created_at`,
		mosque.ID, adminName, email, passwordHash).Scan(
		&user.ID,
		&user.MosqueID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("insert admin user: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, fmt.Errorf("commit registration tx: %w", err)
	}
	return &mosque, &user, nil
}
