package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/masjidtools/qurbani-backend/internal/distribution"
	"github.com/masjidtools/qurbani-backend/internal/models"
)

// Every method takes the mosque ID as a mandatory parameter. The middleware
// resolves it from the JWT; repositories never run an unscoped query, so one
// mosque can never read or write another mosque's rows.

// DonorInput carries the writable donor fields. Quantities are grams and are
// already floored to zero by the API layer.
type DonorInput struct {
	Name  string
	Phone *string
	Beef  decimal.Decimal
	Lungs decimal.Decimal
	Bone  decimal.Decimal
}

// MemberInput carries the writable member fields.
type MemberInput struct {
	Name          string
	FatherName    string
	HouseName     string
	HousePriority int
	FamilyMembers int
}

// ListMembersParams controls pagination, search, and ordering of the member
// list. Search matches name, father name, and house name case-insensitively.
// ByPriority orders by house priority then name (the hand-out / slideshow
// reading order) instead of newest-first.
type ListMembersParams struct {
	Page       int
	Limit      int
	Search     string
	ByPriority bool
}

// MemberPage is one page of members plus pagination metadata.
type MemberPage struct {
	Members    []models.Member `json:"members"`
	Total      int             `json:"total"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"total_pages"`
}

// MosqueRepository handles tenant registration.
type MosqueRepository interface {
	// CreateWithAdmin creates a mosque and its first admin user in a single
	// transaction. Either both rows exist afterwards or neither does.
	CreateWithAdmin(ctx context.Context, mosqueName, mosqueAddress, adminName, email, passwordHash string) (*models.Mosque, *models.User, error)
}

// UserRepository handles account lookup for login.
type UserRepository interface {
	// GetByEmail looks up a user by email (globally — email is unique across
	// mosques). Returns nil, nil if not found.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// DonorRepository handles donor records and the aggregation the
// distribution engine reads.
type DonorRepository interface {
	Create(ctx context.Context, mosqueID uuid.UUID, in DonorInput) (*models.Donor, error)

	// Update rewrites all writable fields. Returns nil, nil if the donor
	// does not exist in this mosque.
	Update(ctx context.Context, mosqueID, donorID uuid.UUID, in DonorInput) (*models.Donor, error)

	// Delete removes a donor. Returns false if nothing was deleted.
	Delete(ctx context.Context, mosqueID, donorID uuid.UUID) (bool, error)

	// ListByMosque returns all donors, newest first.
	ListByMosque(ctx context.Context, mosqueID uuid.UUID) ([]models.Donor, error)

	// TotalsByMosque sums the three quantities over all of the mosque's
	// donors. An empty donor set yields zero totals, not an error.
	TotalsByMosque(ctx context.Context, mosqueID uuid.UUID) (distribution.Totals, error)
}

// MemberRepository handles member records.
type MemberRepository interface {
	Create(ctx context.Context, mosqueID uuid.UUID, in MemberInput) (*models.Member, error)

	// Update rewrites the member's details, leaving shares and status alone.
	// Returns nil, nil if the member does not exist in this mosque.
	Update(ctx context.Context, mosqueID, memberID uuid.UUID, in MemberInput) (*models.Member, error)

	// UpdateStatus flips the hand-out status only. Returns nil, nil if the
	// member does not exist in this mosque.
	UpdateStatus(ctx context.Context, mosqueID, memberID uuid.UUID, status string) (*models.Member, error)

	// Delete removes a member. Returns false if nothing was deleted.
	Delete(ctx context.Context, mosqueID, memberID uuid.UUID) (bool, error)

	// List returns one page of members with pagination metadata.
	List(ctx context.Context, mosqueID uuid.UUID, params ListMembersParams) (*MemberPage, error)
}

// HouseRepository is the read/maintenance surface over the denormalized
// house columns on members.
type HouseRepository interface {
	// ListByMosque groups members by house name: minimum priority and member
	// count per house, ordered by priority then case-insensitive name.
	ListByMosque(ctx context.Context, mosqueID uuid.UUID) ([]models.House, error)

	// UpdatePriority sets the priority on every member of the named house
	// and reports how many rows changed.
	UpdatePriority(ctx context.Context, mosqueID uuid.UUID, houseName string, priority int) (int64, error)
}
