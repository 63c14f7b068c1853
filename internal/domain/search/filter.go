package search

import (
	"fmt"

	"github.com/lexivec/lexivec/internal/domain"
)

// MaxConditions is the maximum number of conditions per filter expression.
const MaxConditions = 32

// Condition is a single boolean filter clause over a scalar field:
// either an exact string match or a numeric range.
type Condition struct {
	field string
	match string
	rng   *Range
}

// NewMatch creates an exact string match condition.
func NewMatch(field, value string) (Condition, error) {
	if field == "" {
		return Condition{}, fmt.Errorf("%w: filter field is required", domain.ErrInvalidInput)
	}
	if value == "" {
		return Condition{}, fmt.Errorf("%w: match value is required for field %q", domain.ErrInvalidInput, field)
	}
	return Condition{field: field, match: value}, nil
}

// NewRange creates a numeric range condition. At least one bound is
// required; Min/Max are inclusive when the corresponding flag is set.
func NewRange(field string, r Range) (Condition, error) {
	if field == "" {
		return Condition{}, fmt.Errorf("%w: filter field is required", domain.ErrInvalidInput)
	}
	if r.Min == nil && r.Max == nil {
		return Condition{}, fmt.Errorf("%w: range on %q needs at least one bound", domain.ErrInvalidInput, field)
	}
	return Condition{field: field, rng: &r}, nil
}

// Field returns the filtered field name.
func (c Condition) Field() string { return c.field }

// Match returns the exact match value, empty for range conditions.
func (c Condition) Match() string { return c.match }

// Range returns the numeric range, nil for match conditions.
func (c Condition) Range() *Range { return c.rng }

// IsMatch reports whether this is an exact match condition.
func (c Condition) IsMatch() bool { return c.rng == nil }

// Range is a numeric interval with optional bounds.
type Range struct {
	Min          *float64
	Max          *float64
	MinExclusive bool
	MaxExclusive bool
}

// Filter is a boolean predicate over scalar fields: all conditions must
// hold, at least one any condition must hold (when present), and not
// conditions are subtracted from the match set.
type Filter struct {
	all []Condition
	any []Condition
	not []Condition
}

// NewFilter validates and creates a Filter.
func NewFilter(all, any, not []Condition) (Filter, error) {
	if len(all)+len(any)+len(not) > MaxConditions {
		return Filter{}, fmt.Errorf("%w: too many filter conditions (max %d)", domain.ErrInvalidInput, MaxConditions)
	}
	return Filter{all: all, any: any, not: not}, nil
}

// All returns the conjunctive conditions.
func (f Filter) All() []Condition { return f.all }

// Any returns the disjunctive conditions.
func (f Filter) Any() []Condition { return f.any }

// Not returns the negated conditions.
func (f Filter) Not() []Condition { return f.not }

// IsEmpty reports whether the filter has no conditions.
func (f Filter) IsEmpty() bool { return len(f.all) == 0 && len(f.any) == 0 && len(f.not) == 0 }

// Conditions returns every condition regardless of clause.
func (f Filter) Conditions() []Condition {
	out := make([]Condition, 0, len(f.all)+len(f.any)+len(f.not))
	out = append(out, f.all...)
	out = append(out, f.any...)
	out = append(out, f.not...)
	return out
}

// FieldNames returns every field referenced by the filter.
func (f Filter) FieldNames() []string {
	conds := f.Conditions()
	out := make([]string, 0, len(conds))
	for _, c := range conds {
		out = append(out, c.Field())
	}
	return out
}
