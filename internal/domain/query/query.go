// Package query implements the tag query language: normalization of single
// conditions, parsing of a raw query string into AND-combined terms with
// bracketed OR-groups, and evaluation against a tag profile.
package query

import (
	"strings"

	"github.com/kailas-cloud/tagquery/internal/domain/tag"
)

// Kind distinguishes simple terms from OR-groups.
type Kind int

const (
	// Simple is a single condition.
	Simple Kind = iota
	// Group is an OR over its members.
	Group
)

// Term is one AND-combined unit of a query.
type Term struct {
	kind  Kind
	conds []Condition
}

// NewSimple creates a single-condition term.
func NewSimple(c Condition) Term {
	return Term{kind: Simple, conds: []Condition{c}}
}

// NewGroup creates an OR-group. A group without members never matches.
func NewGroup(members ...Condition) Term {
	return Term{kind: Group, conds: append([]Condition(nil), members...)}
}

// Kind returns the term kind.
func (t Term) Kind() Kind { return t.kind }

// IsGroup reports whether the term is an OR-group.
func (t Term) IsGroup() bool { return t.kind == Group }

// Condition returns the condition of a simple term.
func (t Term) Condition() Condition {
	if t.kind != Simple || len(t.conds) == 0 {
		return Condition{}
	}
	return t.conds[0]
}

// Members returns the conditions of a group (or the single condition of a simple term).
func (t Term) Members() []Condition {
	return append([]Condition(nil), t.conds...)
}

// Matches evaluates the term against a profile.
func (t Term) Matches(p *tag.Profile) bool {
	if t.kind == Simple {
		return t.Condition().Satisfied(p)
	}
	for _, c := range t.conds {
		if c.Satisfied(p) {
			return true
		}
	}
	return false
}

// String renders the term in query syntax.
func (t Term) String() string {
	if t.kind == Simple {
		return t.Condition().String()
	}
	parts := make([]string, len(t.conds))
	for i, c := range t.conds {
		parts[i] = c.String()
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// Query is an immutable, ordered list of AND-combined terms.
type Query struct {
	terms []Term
}

// New creates a query from terms.
func New(terms ...Term) Query {
	return Query{terms: append([]Term(nil), terms...)}
}

// Terms returns the terms in source order.
func (q Query) Terms() []Term {
	return append([]Term(nil), q.terms...)
}

// Len returns the number of terms.
func (q Query) Len() int { return len(q.terms) }

// IsEmpty reports whether the query has no terms.
func (q Query) IsEmpty() bool { return len(q.terms) == 0 }

// Conditions flattens every condition of every term.
func (q Query) Conditions() []Condition {
	var out []Condition
	for _, t := range q.terms {
		out = append(out, t.conds...)
	}
	return out
}

// Matches reports whether every term holds for the profile.
// An absent profile never matches.
func (q Query) Matches(p *tag.Profile) bool {
	if p == nil {
		return false
	}
	for _, t := range q.terms {
		if !t.Matches(p) {
			return false
		}
	}
	return true
}

// String renders the canonical form; parsing it yields an equal Query.
func (q Query) String() string {
	parts := make([]string, len(q.terms))
	for i, t := range q.terms {
		parts[i] = t.String()
	}
	return strings.Join(parts, ",")
}
