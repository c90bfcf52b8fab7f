// Package export renders the member collection as CSV. Every field is
// double-quoted with internal quotes doubled, including empty ones, so the
// writer is hand-rolled rather than encoding/csv (which quotes lazily).
package export

import (
	"fmt"
	"strings"
	"time"

	"churchdirectory/internal/model"
)

var csvHeaders = []string{
	"Member ID",
	"First Name",
	"Middle Name",
	"Last Name",
	"Primary Phone",
	"Secondary Phone",
	"Emergency Contact",
	"House Number",
	"Street Name",
	"Bus Stop",
	"City",
	"State",
	"Marital Status",
	"Date of Birth",
	"Member Type",
	"Departments",
}

// MembersCSV renders one row per member in the fixed column order.
func MembersCSV(members []model.Member) string {
	var b strings.Builder
	writeRow(&b, csvHeaders)

	for _, m := range members {
		p := m.PersonalDetails
		writeRow(&b, []string{
			m.ID,
			p.FirstName,
			p.MiddleName,
			p.LastName,
			p.Phone,
			p.PhoneSecondary,
			p.EmergencyContact,
			p.HouseNumber,
			p.StreetName,
			p.BusStop,
			p.City,
			p.State,
			p.MaritalStatus,
			p.DateOfBirth,
			m.ChurchDetails.MemberType,
			formatDepartments(m.ChurchDetails.Departments),
		})
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// Filename returns the dated download name, e.g. church_members_2026-08-31.csv.
func Filename(now time.Time) string {
	return fmt.Sprintf("church_members_%s.csv", now.Format("2006-01-02"))
}

func formatDepartments(refs []model.DepartmentRef) string {
	parts := make([]string, 0, len(refs))
	for _, ref := range refs {
		parts = append(parts, fmt.Sprintf("%s (%s)", ref.Name, ref.Role))
	}
	return strings.Join(parts, "; ")
}

func writeRow(b *strings.Builder, fields []string) {
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(f, `"`, `""`))
		b.WriteByte('"')
	}
	b.WriteByte('\n')
}
