package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Member status values. A member starts PENDING and is marked COMPLETED by a
// distribution run. Volunteers can also toggle the status by hand while
// handing out shares; the next run overwrites it.
const (
	StatusPending   = "PENDING"
	StatusCompleted = "COMPLETED"
)

// DefaultHousePriority is the sentinel for houses that have not been
// prioritized yet. Lower values sort first.
const DefaultHousePriority = 999

// Mosque is the tenant boundary. Every user, donor, and member belongs to
// exactly one mosque, and every repository call is scoped by mosque ID.
type Mosque struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// User is an administrator account within a mosque.
type User struct {
	ID           uuid.UUID `json:"id"`
	MosqueID     uuid.UUID `json:"mosque_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Donor is a contributor of meat quantities. All quantities are grams,
// stored as NUMERIC(12,2) and never negative.
type Donor struct {
	ID        uuid.UUID       `json:"id"`
	MosqueID  uuid.UUID       `json:"mosque_id"`
	Name      string          `json:"name"`
	Phone     *string         `json:"phone"`
	Beef      decimal.Decimal `json:"beef"`
	Lungs     decimal.Decimal `json:"lungs"`
	Bone      decimal.Decimal `json:"bone"`
	CreatedAt time.Time       `json:"created_at"`
}

// Member is a beneficiary entitled to a share proportional to FamilyMembers
// (always >= 1). The three share fields are outputs of the distribution
// engine and stay zero until the first run.
//
// HouseName and HousePriority are denormalized: a "house" is the set of a
// mosque's members sharing a house name, and a priority change rewrites
// every row of the house in one statement. Reads therefore always see the
// current priority.
type Member struct {
	ID            uuid.UUID       `json:"id"`
	MosqueID      uuid.UUID       `json:"mosque_id"`
	Name          string          `json:"name"`
	FatherName    string          `json:"father_name"`
	HouseName     string          `json:"house_name"`
	HousePriority int             `json:"house_priority"`
	FamilyMembers int             `json:"family_members"`
	BeefShare     decimal.Decimal `json:"beef_share"`
	LungsShare    decimal.Decimal `json:"lungs_share"`
	BoneShare     decimal.Decimal `json:"bone_share"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
}

// House is a read-side aggregate over members, not a table of its own.
type House struct {
	HouseName     string `json:"house_name"`
	HousePriority int    `json:"house_priority"`
	MemberCount   int    `json:"member_count"`
}
