package query

import (
	"math"
	"strconv"
	"strings"

	"github.com/kailas-cloud/tagquery/internal/domain/tag"
)

// Condition is a single tag predicate: the tag must (or, when Negated, must not)
// be present with at least MinScore. MinScore 0 means presence only.
type Condition struct {
	Name     string
	MinScore float64
	Negated  bool
}

// Normalize turns one raw token into a Condition. It never fails: a ':' suffix that
// is not a number stays part of the tag name.
func Normalize(token string) Condition {
	var c Condition
	if strings.HasPrefix(token, "-") {
		c.Negated = true
		token = token[1:]
	}

	name := token
	if i := strings.LastIndexByte(token, ':'); i >= 0 {
		if score, ok := parseScore(token[i+1:]); ok {
			c.MinScore = score
			name = token[:i]
		}
	}
	c.Name = tag.NormalizeName(name)
	return c
}

// parseScore accepts only finite numbers that parse in full.
func parseScore(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// hasScoreSuffix reports whether name would lose its last ':' segment to the score
// on reparse, so String must write the threshold explicitly.
func hasScoreSuffix(name string) bool {
	i := strings.LastIndexByte(name, ':')
	if i < 0 {
		return false
	}
	_, ok := parseScore(name[i+1:])
	return ok
}

// Satisfied evaluates the condition against a profile.
func (c Condition) Satisfied(p *tag.Profile) bool {
	return p.Found(c.Name, c.MinScore) != c.Negated
}

// String renders the condition in query syntax.
func (c Condition) String() string {
	var b strings.Builder
	if c.Negated {
		b.WriteByte('-')
	}
	b.WriteString(c.Name)
	if c.MinScore != 0 || hasScoreSuffix(c.Name) {
		b.WriteByte(':')
		b.WriteString(strconv.FormatFloat(c.MinScore, 'g', -1, 64))
	}
	return b.String()
}
