package aggregate

import (
	"strings"

	"github.com/syneteks/billing-reports/parse"
)

// UserTypes is the fixed column set of the Adams County pivot, in report
// order.
var UserTypes = []string{"u", "nu", "nb", "vm only", "faxata"}

// UserPivot counts extensions per Department x UserType.
type UserPivot struct {
	Depts map[string]map[string]int
}

// NewUserPivot returns an empty pivot.
func NewUserPivot() *UserPivot {
	return &UserPivot{Depts: make(map[string]map[string]int)}
}

// Add counts one extension.
func (p *UserPivot) Add(row parse.UserExportRow) {
	dept := p.Depts[row.Department]
	if dept == nil {
		dept = make(map[string]int)
		p.Depts[row.Department] = dept
	}
	dept[strings.ToLower(strings.TrimSpace(row.UserType))]++
}

// Totals sums each user type across departments.
func (p *UserPivot) Totals() map[string]int {
	totals := make(map[string]int)
	for _, dept := range p.Depts {
		for ut, n := range dept {
			totals[ut] += n
		}
	}
	return totals
}

// Lines is the billable line count: users plus voicemail-only extensions.
func (p *UserPivot) Lines() int {
	t := p.Totals()
	return t["u"] + t["vm only"]
}

// ActiveUsers is the month's high-value user count: users, not-used and
// voicemail-only extensions.
func (p *UserPivot) ActiveUsers() int {
	t := p.Totals()
	return t["u"] + t["nu"] + t["vm only"]
}
