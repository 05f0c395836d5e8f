package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/masjidtools/qurbani-backend/internal/models"
	"github.com/masjidtools/qurbani-backend/internal/repository"
)

type MemberStore struct {
	pool *pgxpool.Pool
}

func NewMemberStore(pool *pgxpool.Pool) *MemberStore {
	return &MemberStore{pool: pool}
}

const memberColumns = `id, mosque_id, name, father_name, house_name, house_priority,
		family_members, beef_share, lungs_share, bone_share, status, created_at`

func scanMember(row pgx.Row) (*models.Member, error) {
	var m models.Member
	err := row.Scan(
		&m.ID,
		&m.MosqueID,
		&m.Name,
		&m.FatherName,
		&m.HouseName,
		&m.HousePriority,
		&m.FamilyMembers,
		&m.BeefShare,
		&m.LungsShare,
		&m.BoneShare,
		&m.Status,
		&m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *MemberStore) Create(ctx context.Context, mosqueID uuid.UUID, in repository.MemberInput) (*models.Member, error) {
	query := `
		INSERT INTO members (mosque_id, name, father_name, house_name, house_priority,
			family_members, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now())
		RETURNING ` + memberColumns

	m, err := scanMember(s.pool.QueryRow(ctx, query,
		mosqueID, in.Name, in.FatherName, in.HouseName, in.HousePriority, in.FamilyMembers,
		models.StatusPending))
	if err != nil {
		return nil, fmt.Errorf("insert member: %w", err)
	}
	return m, nil
}

func (s *MemberStore) Update(ctx context.Context, mosqueID, memberID uuid.UUID, in repository.MemberInput) (*models.Member, error) {
	query := `
		UPDATE members
		SET name = $3, father_name = $4, house_name = $5, house_priority = $6, family_members = $7
		WHERE id = $1 AND mosque_id = $2
		RETURNING ` + memberColumns

	m, err := scanMember(s.pool.QueryRow(ctx, query,
		memberID, mosqueID, in.Name, in.FatherName, in.HouseName, in.HousePriority, in.FamilyMembers))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("update member: %w", err)
	}
	return m, nil
}

func (s *MemberStore) UpdateStatus(ctx context.Context, mosqueID, memberID uuid.UUID, status string) (*models.Member, error) {
	query := `
		UPDATE members
		SET status = $3
		WHERE id = $1 AND mosque_id = $2
		RETURNING ` + memberColumns

	m, err := scanMember(s.pool.QueryRow(ctx, query, memberID, mosqueID, status))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("update member status: %w", err)
	}
	return m, nil
}

func (s *MemberStore) Delete(ctx context.Context, mosqueID, memberID uuid.UUID) (bool, error) {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM members WHERE id = $1 AND mosque_id = $2`, memberID, mosqueID)
	if err != nil {
		return false, fmt.Errorf("delete member: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// List returns one page of members. The search filter matches name, father
// name, and house name case-insensitively. Default order is newest first;
// ByPriority orders by house priority ascending with name as tie-break.
func (s *MemberStore) List(ctx context.Context, mosqueID uuid.UUID, params repository.ListMembersParams) (*repository.MemberPage, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.Limit < 1 {
		params.Limit = 10
	}

	where := `WHERE mosque_id = $1`
	args := []any{mosqueID}
	if params.Search != "" {
		where += ` AND (name ILIKE $2 OR father_name ILIKE $2 OR house_name ILIKE $2)`
		args = append(args, "%"+params.Search+"%")
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM members ` + where
	if err := s.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count members: %w", err)
	}

	order := `created_at DESC`
	if params.ByPriority {
		order = `house_priority ASC, name ASC`
	}

	limitArg := len(args) + 1
	offsetArg := len(args) + 2
	query := fmt.Sprintf(`
		SELECT `+memberColumns+`
		FROM members
		%s
		ORDER BY %s
		LIMIT $%d OFFSET $%d`, where, order, limitArg, offsetArg)
	args = append(args, params.Limit, (params.Page-1)*params.Limit)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	members := make([]models.Member, 0)
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		members = append(members, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate members: %w", err)
	}

	totalPages := (total + params.Limit - 1) / params.Limit
	return &repository.MemberPage{
		Members:    members,
		Total:      total,
		Page:       params.Page,
		Limit:      params.Limit,
		TotalPages: totalPages,
	}, nil
}
