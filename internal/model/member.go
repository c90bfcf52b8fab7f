package model

import "time"

// Member types as stored in churchDetails.memberType.
const (
	MemberTypeWorker       = "Worker"
	MemberTypeVolunteer    = "Volunteer"
	MemberTypeChurchMember = "Church Member"
)

// Marital statuses accepted on personalDetails.maritalStatus.
const (
	MaritalSingle   = "Single"
	MaritalMarried  = "Married"
	MaritalDivorced = "Divorced"
	MaritalWidowed  = "Widowed"
)

// Department roles a member can hold.
const (
	RoleMember       = "Member"
	RoleAssistantHoD = "Assistant HoD"
	RoleHoD          = "HoD"
)

// DefaultStatus is substituted when a record carries no status field.
const DefaultStatus = "Active"

// Member is a person tracked in the directory. ID is assigned by the store
// on first save and never changes afterwards, even if the member type does.
type Member struct {
	ID              string          `json:"id"`
	PersonalDetails PersonalDetails `json:"personalDetails"`
	ChurchDetails   ChurchDetails   `json:"churchDetails"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

type PersonalDetails struct {
	FirstName        string `json:"firstName" validate:"required"`
	MiddleName       string `json:"middleName,omitempty"`
	LastName         string `json:"lastName" validate:"required"`
	Phone            string `json:"phone" validate:"required,min=10,phone"`
	PhoneSecondary   string `json:"phoneSecondary,omitempty" validate:"omitempty,min=10,phone"`
	EmergencyContact string `json:"emergencyContact,omitempty"`
	Photo            string `json:"photo,omitempty"` // base64-encoded image data
	HouseNumber      string `json:"houseNumber" validate:"required"`
	StreetName       string `json:"streetName" validate:"required"`
	BusStop          string `json:"busStop,omitempty"`
	City             string `json:"city" validate:"required"`
	State            string `json:"state" validate:"required"`
	MaritalStatus    string `json:"maritalStatus" validate:"required,oneof=Single Married Divorced Widowed"`
	DateOfBirth      string `json:"dateOfBirth" validate:"required"`
}

type ChurchDetails struct {
	MemberType  string          `json:"memberType" validate:"required,oneof=Worker Volunteer 'Church Member'"`
	Status      string          `json:"status,omitempty"`
	Departments []DepartmentRef `json:"departments,omitempty" validate:"omitempty,dive"`
}

// DepartmentRef is a denormalized copy of a department's id and name taken
// at assignment time. It is not updated or removed when the department
// record changes or is deleted.
type DepartmentRef struct {
	ID   string `json:"id"`
	Name string `json:"name" validate:"required"`
	Role string `json:"role" validate:"required,oneof=Member 'Assistant HoD' HoD"`
}

// StatusOrDefault resolves the free-text status, substituting DefaultStatus
// for records persisted before the field existed.
func (c ChurchDetails) StatusOrDefault() string {
	if c.Status == "" {
		return DefaultStatus
	}
	return c.Status
}

// Normalize fills defaults for fields that may be absent on older records.
// Stores apply it on every read so consumers never see the raw gaps.
func (m *Member) Normalize() {
	m.ChurchDetails.Status = m.ChurchDetails.StatusOrDefault()
}

// FullName joins the non-empty name parts with single spaces.
func (m Member) FullName() string {
	name := m.PersonalDetails.FirstName
	if m.PersonalDetails.MiddleName != "" {
		name += " " + m.PersonalDetails.MiddleName
	}
	if m.PersonalDetails.LastName != "" {
		name += " " + m.PersonalDetails.LastName
	}
	return name
}
