package store_test

import (
	"context"
	"testing"

	"churchdirectory/internal/model"
	"churchdirectory/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMember(first, last, memberType string) model.Member {
	return model.Member{
		PersonalDetails: model.PersonalDetails{
			FirstName:     first,
			LastName:      last,
			Phone:         "0801 234 5678",
			HouseNumber:   "12",
			StreetName:    "Broad Street",
			City:          "Lagos",
			State:         "Lagos",
			MaritalStatus: model.MaritalSingle,
			DateOfBirth:   "1990-04-12",
		},
		ChurchDetails: model.ChurchDetails{
			MemberType: memberType,
		},
	}
}

func TestMemoryStore_SaveAndGetRoundTrip(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()

	saved, err := s.SaveMember(ctx, newMember("Jane", "Doe", model.MemberTypeWorker))
	require.NoError(t, err)
	assert.Equal(t, "JCC-WRK-001", saved.ID)
	assert.Equal(t, saved.CreatedAt, saved.UpdatedAt)
	assert.Equal(t, model.DefaultStatus, saved.ChurchDetails.Status)

	got, err := s.GetMemberByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved.PersonalDetails, got.PersonalDetails)
	assert.Equal(t, saved.ChurchDetails, got.ChurchDetails)
}

func TestMemoryStore_IDsAreTypeScoped(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := s.SaveMember(ctx, newMember("Worker", "N", model.MemberTypeWorker))
		require.NoError(t, err)
	}

	saved, err := s.SaveMember(ctx, newMember("Sam", "Lee", model.MemberTypeVolunteer))
	require.NoError(t, err)
	assert.Equal(t, "JCC-VOL-001", saved.ID)
}

func TestMemoryStore_UpdatePreservesIDAndCreatedAt(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()

	saved, err := s.SaveMember(ctx, newMember("Jane", "Doe", model.MemberTypeWorker))
	require.NoError(t, err)

	// Changing the member type never renumbers the id.
	saved.ChurchDetails.MemberType = model.MemberTypeVolunteer
	saved.PersonalDetails.City = "Abuja"
	updated, err := s.SaveMember(ctx, saved)
	require.NoError(t, err)

	assert.Equal(t, "JCC-WRK-001", updated.ID)
	assert.Equal(t, saved.CreatedAt, updated.CreatedAt)
	assert.Equal(t, model.MemberTypeVolunteer, updated.ChurchDetails.MemberType)
	assert.Equal(t, "Abuja", updated.PersonalDetails.City)
	assert.False(t, updated.UpdatedAt.Before(updated.CreatedAt))
}

func TestMemoryStore_UpdateNonexistentFails(t *testing.T) {
	s := store.NewMemoryStore()

	missing := newMember("Ghost", "Nobody", model.MemberTypeWorker)
	missing.ID = "JCC-WRK-042"
	_, err := s.SaveMember(context.Background(), missing)
	assert.ErrorIs(t, err, store.ErrMemberNotFound)
}

func TestMemoryStore_DeleteIsIdempotent(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()

	saved, err := s.SaveMember(ctx, newMember("Jane", "Doe", model.MemberTypeWorker))
	require.NoError(t, err)

	require.NoError(t, s.DeleteMember(ctx, saved.ID))
	require.NoError(t, s.DeleteMember(ctx, saved.ID))

	members, err := s.ListMembers(ctx)
	require.NoError(t, err)
	assert.Empty(t, members)
}

func TestMemoryStore_ListInInsertionOrder(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()

	first, err := s.SaveMember(ctx, newMember("Jane", "Doe", model.MemberTypeWorker))
	require.NoError(t, err)
	second, err := s.SaveMember(ctx, newMember("Sam", "Lee", model.MemberTypeVolunteer))
	require.NoError(t, err)

	members, err := s.ListMembers(ctx)
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, first.ID, members[0].ID)
	assert.Equal(t, second.ID, members[1].ID)
}

func TestMemoryStore_DepartmentDuplicateRule(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()

	dept, outcome, err := s.SaveDepartment(ctx, "Choir")
	require.NoError(t, err)
	assert.Equal(t, store.DeptCreated, outcome)
	assert.Equal(t, "JCC-DEPT-001", dept.ID)
	assert.Equal(t, "Choir", dept.Name)

	// Case-insensitive, whitespace-trimmed match reports the existing record.
	existing, outcome, err := s.SaveDepartment(ctx, "  choir ")
	require.NoError(t, err)
	assert.Equal(t, store.DeptDuplicate, outcome)
	assert.Equal(t, dept.ID, existing.ID)

	departments, err := s.ListDepartments(ctx)
	require.NoError(t, err)
	require.Len(t, departments, 1)
	assert.Equal(t, "Choir", departments[0].Name)
}

func TestMemoryStore_DepartmentEmptyNameIsNoOp(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()

	_, outcome, err := s.SaveDepartment(ctx, "   ")
	require.NoError(t, err)
	assert.Equal(t, store.DeptEmptyName, outcome)

	departments, err := s.ListDepartments(ctx)
	require.NoError(t, err)
	assert.Empty(t, departments)
}

func TestMemoryStore_UpdateDepartment(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()

	dept, _, err := s.SaveDepartment(ctx, "Ushering")
	require.NoError(t, err)

	require.NoError(t, s.UpdateDepartment(ctx, dept.ID, " Protocol "))
	departments, err := s.ListDepartments(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Protocol", departments[0].Name)

	// Unknown id is a silent no-op.
	require.NoError(t, s.UpdateDepartment(ctx, "JCC-DEPT-099", "Media"))
}

func TestMemoryStore_DeleteDepartmentLeavesMemberRefsDangling(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()

	dept, _, err := s.SaveDepartment(ctx, "Choir")
	require.NoError(t, err)

	member := newMember("Jane", "Doe", model.MemberTypeWorker)
	member.ChurchDetails.Departments = []model.DepartmentRef{
		{ID: dept.ID, Name: dept.Name, Role: model.RoleHoD},
	}
	saved, err := s.SaveMember(ctx, member)
	require.NoError(t, err)

	require.NoError(t, s.DeleteDepartment(ctx, dept.ID))

	got, err := s.GetMemberByID(ctx, saved.ID)
	require.NoError(t, err)
	require.Len(t, got.ChurchDetails.Departments, 1)
	assert.Equal(t, dept.ID, got.ChurchDetails.Departments[0].ID)
}
