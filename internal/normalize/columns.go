// Package normalize turns loosely shaped tabular input into validated weight
// entries. Column roles are inferred from header names; rows that fail
// validation are dropped and counted, never reported as errors.
package normalize

import (
	"errors"
	"fmt"
	"strings"
)

// Role is the meaning of a source column.
type Role string

const (
	RoleUser   Role = "user"
	RoleDate   Role = "date"
	RoleWeight Role = "weight"
)

// ErrSchema is matched by every *SchemaError.
var ErrSchema = errors.New("import schema error")

// SchemaError reports that one or more roles had no matching column.
type SchemaError struct {
	Missing []Role
	Headers []string
}

func (e *SchemaError) Error() string {
	missing := make([]string, len(e.Missing))
	for i, r := range e.Missing {
		missing[i] = string(r)
	}
	return fmt.Sprintf("no %s column among %q", strings.Join(missing, "/"), e.Headers)
}

func (e *SchemaError) Is(target error) bool {
	return target == ErrSchema
}

// roleMatchers are tried in order for every header. A header containing
// several keywords takes the first role that is still unclaimed. Fallback
// keywords are only consulted once no header matched a primary keyword.
var roleMatchers = []struct {
	role     Role
	keywords []string
	fallback []string
}{
	{RoleUser, []string{"user"}, []string{"name"}},
	{RoleDate, []string{"date"}, nil},
	{RoleWeight, []string{"weight", "lbs"}, nil},
}

// Columns holds the index of the column serving each role, nil when absent.
type Columns struct {
	User   *int
	Date   *int
	Weight *int
}

// Missing lists the roles without a column, in user/date/weight order.
func (c Columns) Missing() []Role {
	var out []Role
	if c.User == nil {
		out = append(out, RoleUser)
	}
	if c.Date == nil {
		out = append(out, RoleDate)
	}
	if c.Weight == nil {
		out = append(out, RoleWeight)
	}
	return out
}

func (c *Columns) slot(r Role) **int {
	switch r {
	case RoleUser:
		return &c.User
	case RoleDate:
		return &c.Date
	default:
		return &c.Weight
	}
}

// ClassifyColumns assigns roles to headers by case-insensitive substring
// match on the trimmed name. Matching is deliberately naive: "Update" is
// taken as a date column. The first header to claim a role keeps it, and a
// "user" header wins over an earlier one that only contains "name".
func ClassifyColumns(headers []string) Columns {
	var cols Columns
	claimed := make([]bool, len(headers))
	assign := func(pick func(m int) []string) {
		for i, h := range headers {
			if claimed[i] {
				continue
			}
			name := strings.ToLower(strings.TrimSpace(h))
		match:
			for mi, m := range roleMatchers {
				slot := cols.slot(m.role)
				if *slot != nil {
					continue
				}
				for _, kw := range pick(mi) {
					if strings.Contains(name, kw) {
						idx := i
						*slot = &idx
						claimed[i] = true
						break match
					}
				}
			}
		}
	}
	assign(func(m int) []string { return roleMatchers[m].keywords })
	assign(func(m int) []string { return roleMatchers[m].fallback })
	return cols
}

// Require returns a *SchemaError if any role is unmatched.
func (c Columns) Require(headers []string) error {
	if missing := c.Missing(); len(missing) > 0 {
		return &SchemaError{Missing: missing, Headers: headers}
	}
	return nil
}
