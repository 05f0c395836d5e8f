package distribution

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/masjidtools/qurbani-backend/internal/models"
)

func membersWithFamilies(sizes ...int) []models.Member {
	members := make([]models.Member, 0, len(sizes))
	for _, size := range sizes {
		members = append(members, models.Member{
			ID:            uuid.New(),
			FamilyMembers: size,
			Status:        models.StatusPending,
		})
	}
	return members
}

func totalsFromInts(beef, lungs, bone int64) Totals {
	return Totals{
		Beef:  decimal.NewFromInt(beef),
		Lungs: decimal.NewFromInt(lungs),
		Bone:  decimal.NewFromInt(bone),
	}
}

func TestComputeProportionalShares(t *testing.T) {
	// Five donors: 25000 + 30000 + 20000 + 35000 + 28000 = 138000 grams of
	// beef. Ten families totalling 48 people -> 2875 g per person.
	totals := totalsFromInts(138000, 0, 0)
	members := membersWithFamilies(5, 4, 6, 3, 7, 4, 5, 6, 3, 5)

	result, updates, err := Compute(totals, members)
	require.NoError(t, err)

	assert.Equal(t, 48, result.TotalFamilyMembers)
	assert.Equal(t, 10, result.TotalMembers)
	assert.True(t, result.PerPerson.Beef.Equal(decimal.RequireFromString("2875")),
		"per-person beef = %s", result.PerPerson.Beef)

	// The first member has a family of 5: 2875 * 5 = 14375.00.
	require.Len(t, updates, 10)
	assert.Equal(t, "14375", updates[0].Beef.String())
	assert.Equal(t, models.StatusCompleted, updates[0].Status)

	for i, u := range updates {
		expected := result.PerPerson.Beef.Mul(decimal.NewFromInt(int64(members[i].FamilyMembers)))
		assert.True(t, u.Beef.Equal(expected), "member %d: got %s want %s", i, u.Beef, expected)
	}
}

func TestComputeNoMembers(t *testing.T) {
	totals := totalsFromInts(138000, 5000, 3000)

	result, updates, err := Compute(totals, nil)
	assert.ErrorIs(t, err, ErrNoMembers)
	assert.Nil(t, result)
	assert.Nil(t, updates)
}

func TestComputeZeroDonations(t *testing.T) {
	members := membersWithFamilies(3, 4)

	result, updates, err := Compute(Totals{
		Beef:  decimal.Zero,
		Lungs: decimal.Zero,
		Bone:  decimal.Zero,
	}, members)
	require.NoError(t, err)

	assert.Equal(t, 7, result.TotalFamilyMembers)
	for _, u := range updates {
		assert.True(t, u.Beef.IsZero())
		assert.True(t, u.Lungs.IsZero())
		assert.True(t, u.Bone.IsZero())
	}
}

func TestComputeFamilySizeFloor(t *testing.T) {
	// Family sizes below one count as one person.
	members := membersWithFamilies(0, -2, 3)

	result, updates, err := Compute(totalsFromInts(500, 0, 0), members)
	require.NoError(t, err)

	assert.Equal(t, 5, result.TotalFamilyMembers)
	assert.Equal(t, "100", updates[0].Beef.String())
	assert.Equal(t, "100", updates[1].Beef.String())
	assert.Equal(t, "300", updates[2].Beef.String())
}

func TestComputeDeterministic(t *testing.T) {
	totals := totalsFromInts(138000, 12500, 16200)
	members := membersWithFamilies(5, 4, 6, 3, 7, 4, 5, 6, 3, 5)

	_, first, err := Compute(totals, members)
	require.NoError(t, err)
	_, second, err := Compute(totals, members)
	require.NoError(t, err)

	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].Beef.String(), second[i].Beef.String())
		assert.Equal(t, first[i].Lungs.String(), second[i].Lungs.String())
		assert.Equal(t, first[i].Bone.String(), second[i].Bone.String())
	}
}

func TestComputeRoundingDriftBounded(t *testing.T) {
	// 1000 grams over a family total of 21 does not divide evenly; the sum
	// of the rounded shares may drift from the total, but by at most one
	// cent per member.
	totals := totalsFromInts(1000, 333, 77)
	members := membersWithFamilies(3, 7, 11)

	_, updates, err := Compute(totals, members)
	require.NoError(t, err)

	sum := Totals{Beef: decimal.Zero, Lungs: decimal.Zero, Bone: decimal.Zero}
	for _, u := range updates {
		sum.Beef = sum.Beef.Add(u.Beef)
		sum.Lungs = sum.Lungs.Add(u.Lungs)
		sum.Bone = sum.Bone.Add(u.Bone)
	}

	bound := decimal.RequireFromString("0.01").Mul(decimal.NewFromInt(int64(len(members))))
	assert.True(t, sum.Beef.Sub(totals.Beef).Abs().LessThanOrEqual(bound),
		"beef drift %s exceeds %s", sum.Beef.Sub(totals.Beef).Abs(), bound)
	assert.True(t, sum.Lungs.Sub(totals.Lungs).Abs().LessThanOrEqual(bound),
		"lungs drift %s exceeds %s", sum.Lungs.Sub(totals.Lungs).Abs(), bound)
	assert.True(t, sum.Bone.Sub(totals.Bone).Abs().LessThanOrEqual(bound),
		"bone drift %s exceeds %s", sum.Bone.Sub(totals.Bone).Abs(), bound)
}

func TestComputeSharesRoundedToTwoDecimals(t *testing.T) {
	_, updates, err := Compute(totalsFromInts(100, 0, 0), membersWithFamilies(1, 1, 1))
	require.NoError(t, err)

	// 100 / 3 = 33.333... -> 33.33 for everyone.
	for _, u := range updates {
		assert.Equal(t, "33.33", u.Beef.String())
		assert.True(t, u.Beef.Exponent() >= -2, "more than two decimals: %s", u.Beef)
	}
}
