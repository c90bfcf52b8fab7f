// Package identifier derives human-readable ids for members and departments
// from the current collection state. Ids are never reserved atomically: the
// count is taken at call time, so a member id freed by a delete is handed
// out again on the next creation of that type.
package identifier

import (
	"fmt"
	"strings"

	"churchdirectory/internal/model"
)

const idNamespace = "JCC"

// TypePrefix maps a member type to the 3-letter code embedded in its id.
func TypePrefix(memberType string) string {
	switch memberType {
	case model.MemberTypeWorker:
		return "WRK"
	case model.MemberTypeVolunteer:
		return "VOL"
	default:
		return "MBR"
	}
}

// NextMemberID returns the id for a new member of the given type. The
// numeric suffix is one more than the number of existing members whose id
// carries the same type prefix; members of other types are ignored.
func NextMemberID(existing []model.Member, memberType string) string {
	prefix := TypePrefix(memberType)
	count := 0
	for _, m := range existing {
		parts := strings.Split(m.ID, "-")
		if len(parts) >= 2 && parts[1] == prefix {
			count++
		}
	}
	return fmt.Sprintf("%s-%s-%03d", idNamespace, prefix, count+1)
}

// NextDepartmentID returns the id for a new department, counting the whole
// collection regardless of content.
func NextDepartmentID(existing []model.Department) string {
	return fmt.Sprintf("%s-DEPT-%03d", idNamespace, len(existing)+1)
}
