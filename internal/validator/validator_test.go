package validator_test

import (
	"testing"

	"churchdirectory/internal/model"
	"churchdirectory/internal/validator"

	"github.com/stretchr/testify/assert"
)

func validDetails() model.PersonalDetails {
	return model.PersonalDetails{
		FirstName:     "Jane",
		LastName:      "Doe",
		Phone:         "+234 (080) 1234-5678",
		HouseNumber:   "12",
		StreetName:    "Broad Street",
		City:          "Lagos",
		State:         "Lagos",
		MaritalStatus: model.MaritalSingle,
		DateOfBirth:   "1990-04-12",
	}
}

func TestValidate_PersonalDetails(t *testing.T) {
	v := validator.New()

	assert.NoError(t, v.Validate(validDetails()))

	tests := []struct {
		name   string
		mutate func(*model.PersonalDetails)
	}{
		{"missing first name", func(d *model.PersonalDetails) { d.FirstName = "" }},
		{"phone too short", func(d *model.PersonalDetails) { d.Phone = "080" }},
		{"phone with letters", func(d *model.PersonalDetails) { d.Phone = "0801 CALL NOW" }},
		{"unknown marital status", func(d *model.PersonalDetails) { d.MaritalStatus = "Engaged" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDetails()
			tt.mutate(&d)
			assert.Error(t, v.Validate(d))
		})
	}
}

func TestValidate_ChurchDetails(t *testing.T) {
	v := validator.New()

	assert.NoError(t, v.Validate(model.ChurchDetails{
		MemberType: model.MemberTypeChurchMember,
		Departments: []model.DepartmentRef{
			{ID: "JCC-DEPT-001", Name: "Choir", Role: model.RoleAssistantHoD},
		},
	}))

	assert.Error(t, v.Validate(model.ChurchDetails{MemberType: "Deacon"}))
	assert.Error(t, v.Validate(model.ChurchDetails{
		MemberType:  model.MemberTypeWorker,
		Departments: []model.DepartmentRef{{Name: "Choir", Role: "Overseer"}},
	}))
}
