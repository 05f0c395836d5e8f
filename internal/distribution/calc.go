package distribution

import (
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/masjidtools/qurbani-backend/internal/models"
)

// ErrNoMembers is returned when a mosque has no members to distribute to.
// The caller should add members and retry; nothing is written.
var ErrNoMembers = errors.New("no members found")

// ErrPersistence wraps storage failures during a distribution run. The whole
// batch was rolled back, so retrying is safe.
var ErrPersistence = errors.New("distribution persistence failure")

// Totals is the sum of donated quantities (grams) for one mosque.
type Totals struct {
	Beef  decimal.Decimal `json:"beef"`
	Lungs decimal.Decimal `json:"lungs"`
	Bone  decimal.Decimal `json:"bone"`
}

// PerPerson is the per-person unit share for each quantity, rounded to two
// decimals for display. Member shares are computed from the unrounded units.
type PerPerson struct {
	Beef  decimal.Decimal `json:"beef"`
	Lungs decimal.Decimal `json:"lungs"`
	Bone  decimal.Decimal `json:"bone"`
}

// Result is what a distribution run reports back.
type Result struct {
	Totals             Totals    `json:"totals"`
	PerPerson          PerPerson `json:"per_person"`
	TotalFamilyMembers int       `json:"total_family_members"`
	TotalMembers       int       `json:"total_members"`
}

// ShareUpdate is the computed share set for one member.
type ShareUpdate struct {
	MemberID uuid.UUID
	Beef     decimal.Decimal
	Lungs    decimal.Decimal
	Bone     decimal.Decimal
	Status   string
}

// Compute divides the donated totals proportionally among members by family
// size. Each unit share is total / sum(familyMembers) as exact decimal
// division; each member's share is unit * familySize rounded to two decimals
// (half away from zero — half up for this non-negative domain, the same
// policy for every quantity and every member).
//
// Compute is a pure function: the same totals and members always produce the
// same updates, independent of member order. A family size below one counts
// as one, matching the storage invariant.
func Compute(totals Totals, members []models.Member) (*Result, []ShareUpdate, error) {
	if len(members) == 0 {
		return nil, nil, ErrNoMembers
	}

	totalFamily := 0
	for _, m := range members {
		totalFamily += familySize(m)
	}

	famDec := decimal.NewFromInt(int64(totalFamily))
	unitBeef := totals.Beef.Div(famDec)
	unitLungs := totals.Lungs.Div(famDec)
	unitBone := totals.Bone.Div(famDec)

	updates := make([]ShareUpdate, 0, len(members))
	for _, m := range members {
		fam := decimal.NewFromInt(int64(familySize(m)))
		updates = append(updates, ShareUpdate{
			MemberID: m.ID,
			Beef:     unitBeef.Mul(fam).Round(2),
			Lungs:    unitLungs.Mul(fam).Round(2),
			Bone:     unitBone.Mul(fam).Round(2),
			Status:   models.StatusCompleted,
		})
	}

	result := &Result{
		Totals: totals,
		PerPerson: PerPerson{
			Beef:  unitBeef.Round(2),
			Lungs: unitLungs.Round(2),
			Bone:  unitBone.Round(2),
		},
		TotalFamilyMembers: totalFamily,
		TotalMembers:       len(members),
	}
	return result, updates, nil
}

func familySize(m models.Member) int {
	if m.FamilyMembers < 1 {
		return 1
	}
	return m.FamilyMembers
}
