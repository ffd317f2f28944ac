package domain

import (
	"fmt"
	"strconv"
)

// Filter is one client-submitted (field, operator, value) triple for a
// conference query. Field and Op must come from the fixed enumerations below.
// swagger:model Filter
type Filter struct {
	Field string `json:"field"`
	Op    string `json:"operator"`
	Value string `json:"value"`
}

// filterFields maps the public field enumeration to the stored column and
// whether the value must be an integer.
var filterFields = map[string]struct {
	column  string
	numeric bool
}{
	"CITY":          {column: "city"},
	"TOPIC":         {column: "topics"},
	"MONTH":         {column: "month", numeric: true},
	"MAX_ATTENDEES": {column: "max_attendees", numeric: true},
}

// filterOps maps the public operator enumeration to its comparison symbol.
var filterOps = map[string]string{
	"EQ":   "=",
	"GT":   ">",
	"GTEQ": ">=",
	"LT":   "<",
	"LTEQ": "<=",
	"NE":   "!=",
}

// CompiledFilter is one validated predicate of a query plan. Value is a
// string, or an int for numeric columns.
type CompiledFilter struct {
	Column string
	Op     string
	Value  any
}

// ConferenceQueryPlan is a validated, ordered query against conferences.
// OrderBy always ends with "name"; when an inequality predicate exists its
// column sorts first. This mirrors a composite-index constraint of ordered
// storage engines: the result must be sorted by the inequality column before
// any secondary sort, so the plan bakes that ordering in regardless of the
// backend executing it.
type ConferenceQueryPlan struct {
	Filters []CompiledFilter
	OrderBy []string
}

// CompileConferenceFilters validates and compiles client-submitted filters
// into an ordered plan. It fails with ErrInvalidFilter on an unknown field or
// operator, a non-integer value for a numeric field, or a second distinct
// field carrying a non-equality operator.
func CompileConferenceFilters(filters []Filter) (*ConferenceQueryPlan, error) {
	plan := &ConferenceQueryPlan{}
	inequalityColumn := ""

	for _, f := range filters {
		field, ok := filterFields[f.Field]
		if !ok {
			return nil, fmt.Errorf("%w: filter contains invalid field or operator", ErrInvalidFilter)
		}
		op, ok := filterOps[f.Op]
		if !ok {
			return nil, fmt.Errorf("%w: filter contains invalid field or operator", ErrInvalidFilter)
		}

		var value any = f.Value
		if field.numeric {
			n, err := strconv.Atoi(f.Value)
			if err != nil {
				return nil, fmt.Errorf("%w: field %s requires an integer value", ErrInvalidFilter, f.Field)
			}
			value = n
		}

		// Every operator except "=" is an inequality, and all inequality
		// predicates must target the same field.
		if op != "=" {
			if inequalityColumn != "" && inequalityColumn != field.column {
				return nil, fmt.Errorf("%w: inequality filter is allowed on only one field", ErrInvalidFilter)
			}
			inequalityColumn = field.column
		}

		plan.Filters = append(plan.Filters, CompiledFilter{Column: field.column, Op: op, Value: value})
	}

	if inequalityColumn != "" {
		plan.OrderBy = []string{inequalityColumn, "name"}
	} else {
		plan.OrderBy = []string{"name"}
	}
	return plan, nil
}
