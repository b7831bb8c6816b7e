package repository

import (
	"context"
	"testing"

	"github.com/alexanderramin/testdeck/internal/domain"
	"github.com/alexanderramin/testdeck/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTestCaseRepo_CreateGetUpdate(t *testing.T) {
	f := setupSectionRepo(t)
	ctx := context.Background()
	sec := f.add(t, "Login")

	tc := testutil.NewTestCase(f.set.ID, sec.ID, "valid password",
		testutil.WithPriority(domain.PriorityHigh),
		testutil.WithTCGTicket("TCG-12"),
	)
	require.NoError(t, f.cases.Create(ctx, tc))

	got, err := f.cases.GetByID(ctx, tc.ID)
	require.NoError(t, err)
	assert.Equal(t, "valid password", got.Title)
	assert.Equal(t, domain.PriorityHigh, got.Priority)
	assert.Equal(t, "TCG-12", got.TCGTicket)
	assert.Equal(t, sec.ID, got.SectionID)

	tc.Title = "valid password with 2FA"
	tc.Priority = domain.PriorityLow
	require.NoError(t, f.cases.Update(ctx, tc))

	got, err = f.cases.GetByID(ctx, tc.ID)
	require.NoError(t, err)
	assert.Equal(t, "valid password with 2FA", got.Title)
	assert.Equal(t, domain.PriorityLow, got.Priority)

	require.NoError(t, f.cases.Delete(ctx, tc.ID))
	_, err = f.cases.GetByID(ctx, tc.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTestCaseRepo_RejectsUnknownPriority(t *testing.T) {
	f := setupSectionRepo(t)
	sec := f.add(t, "Login")

	tc := testutil.NewTestCase(f.set.ID, sec.ID, "bad", testutil.WithPriority("urgent"))
	assert.Error(t, f.cases.Create(context.Background(), tc))
}

func TestTestCaseRepo_MoveToSection(t *testing.T) {
	f := setupSectionRepo(t)
	ctx := context.Background()

	a := f.add(t, "A")
	b := f.add(t, "B", testutil.WithSectionParent(a.ID))
	target := f.add(t, "Target")

	require.NoError(t, f.cases.Create(ctx, testutil.NewTestCase(f.set.ID, a.ID, "one")))
	require.NoError(t, f.cases.Create(ctx, testutil.NewTestCase(f.set.ID, b.ID, "two")))
	require.NoError(t, f.cases.Create(ctx, testutil.NewTestCase(f.set.ID, b.ID, "three")))

	n, err := f.cases.MoveToSection(ctx, []string{a.ID, b.ID}, target.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	moved, err := f.cases.ListBySection(ctx, target.ID)
	require.NoError(t, err)
	assert.Len(t, moved, 3)

	n, err = f.cases.MoveToSection(ctx, nil, target.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}
