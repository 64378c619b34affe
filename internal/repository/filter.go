package repository

import "time"

// ClauseKind identifies the matching mode of a filter clause.
type ClauseKind string

const (
	// ClauseRange constrains a timestamp field to [From, To]; either bound
	// may be nil, leaving that side unconstrained.
	ClauseRange ClauseKind = "range"
	// ClauseEq requires exact equality on a field.
	ClauseEq ClauseKind = "eq"
	// ClauseIn requires the field value to be a member of Values.
	ClauseIn ClauseKind = "in"
	// ClauseSubstr requires a case-insensitive substring (regex) match.
	ClauseSubstr ClauseKind = "substr"
	// ClauseOr is satisfied when any member clause matches.
	ClauseOr ClauseKind = "or"
)

// Clause is one predicate of an article filter. Only the fields relevant to
// its Kind are populated. Clauses are accumulated by the query normalizer and
// compiled into the store's native query representation by each adapter,
// which keeps validation and compilation separately testable.
type Clause struct {
	Kind  ClauseKind
	Field string

	From *time.Time // range
	To   *time.Time // range

	Value  string   // eq, substr
	Values []string // in

	Any []Clause // or members (eq/substr only)
}

// Filter is an ordered list of clauses combined with AND at the top level.
// An empty filter matches every article.
type Filter struct {
	Clauses []Clause
}

// Range appends a timestamp range clause. A nil bound is unconstrained.
func (f *Filter) Range(field string, from, to *time.Time) {
	f.Clauses = append(f.Clauses, Clause{Kind: ClauseRange, Field: field, From: from, To: to})
}

// Eq appends an exact-equality clause.
func (f *Filter) Eq(field, value string) {
	f.Clauses = append(f.Clauses, Clause{Kind: ClauseEq, Field: field, Value: value})
}

// In appends a set-membership clause.
func (f *Filter) In(field string, values []string) {
	f.Clauses = append(f.Clauses, Clause{Kind: ClauseIn, Field: field, Values: values})
}

// Substr appends a case-insensitive substring clause.
func (f *Filter) Substr(field, value string) {
	f.Clauses = append(f.Clauses, Clause{Kind: ClauseSubstr, Field: field, Value: value})
}

// Or appends a single OR group built from the given members.
func (f *Filter) Or(members ...Clause) {
	f.Clauses = append(f.Clauses, Clause{Kind: ClauseOr, Any: members})
}

// EqClause builds an equality clause for use inside an OR group.
func EqClause(field, value string) Clause {
	return Clause{Kind: ClauseEq, Field: field, Value: value}
}

// SubstrClause builds a substring clause for use inside an OR group.
func SubstrClause(field, value string) Clause {
	return Clause{Kind: ClauseSubstr, Field: field, Value: value}
}

// Sort describes a single-field result ordering.
type Sort struct {
	Field     string
	Ascending bool
}

// Page describes an offset/limit window into the matching result set.
type Page struct {
	Skip  int
	Limit int
}
