// Package token tokenizes repository method names into the semantic tokens
// consumed by the query-plan parser. Matching is driven by closed keyword
// tables scanned longest-first, so a spelling like GreaterThanEqual is never
// split into GreaterThan + Equal and a property named NameFirst is never
// shadowed by Name.
package token

import "sort"

// A Kind identifies the token variant.
type Kind int

const (
	// KindSubject is the leading subject keyword (Find, Get, ...).
	KindSubject Kind = iota
	// KindProperty is a property-name reference.
	KindProperty
	// KindOperator is a predicate operator keyword.
	KindOperator
	// KindCombinator is a logical And/Or joining two predicates.
	KindCombinator
	// KindOrderBy opens an ordering clause.
	KindOrderBy
	// KindDirection is an Asc/Desc sort direction.
	KindDirection
	// KindLimiter is a First/Top row limiter with its count.
	KindLimiter
	// KindDistinct is the Distinct marker.
	KindDistinct
	// KindIgnoreCase is the IgnoreCase/IgnoringCase modifier.
	KindIgnoreCase
	// KindAsync is the trailing async marker.
	KindAsync
)

// An Op is a canonical predicate operator. Every accepted operator spelling
// maps to exactly one Op; alias resolution is total over the keyword table.
type Op int

const (
	OpEQ Op = iota
	OpNEQ
	OpGT
	OpGTE
	OpLT
	OpLTE
	OpLike
	OpIn
	OpIsNull
	OpNotNull
	OpBetween
	OpRegex
)

var opNames = [...]string{
	OpEQ:      "Equals",
	OpNEQ:     "NotEquals",
	OpGT:      "GreaterThan",
	OpGTE:     "GreaterThanEqual",
	OpLT:      "LessThan",
	OpLTE:     "LessThanEqual",
	OpLike:    "Like",
	OpIn:      "In",
	OpIsNull:  "IsNull",
	OpNotNull: "NotNull",
	OpBetween: "Between",
	OpRegex:   "Regex",
}

// String returns the canonical operator name.
func (o Op) String() string {
	if o < 0 || int(o) >= len(opNames) {
		return "Unknown"
	}
	return opNames[o]
}

// Operands reports how many query parameters the operator binds: zero for
// the null checks, two for Between, one otherwise.
func (o Op) Operands() int {
	switch o {
	case OpIsNull, OpNotNull:
		return 0
	case OpBetween:
		return 2
	}
	return 1
}

// Pattern reports whether the operator matches text patterns and therefore
// requires a textual property kind.
func (o Op) Pattern() bool {
	return o == OpLike || o == OpRegex
}

// A Combinator joins two predicates.
type Combinator int

const (
	And Combinator = iota
	Or
)

// String returns the combinator keyword.
func (c Combinator) String() string {
	if c == Or {
		return "Or"
	}
	return "And"
}

// A Direction is a sort direction.
type Direction int

const (
	Asc Direction = iota
	Desc
)

// String returns the direction keyword.
func (d Direction) String() string {
	if d == Desc {
		return "Desc"
	}
	return "Asc"
}

// A LimitKind distinguishes the First and Top limiter spellings. They are
// synonyms for row limiting; the kind is kept only so generated artifacts
// can echo the declared spelling.
type LimitKind int

const (
	LimitFirst LimitKind = iota
	LimitTop
)

// String returns the limiter keyword.
func (k LimitKind) String() string {
	if k == LimitTop {
		return "Top"
	}
	return "First"
}

// A Token is one semantic element of a method name, in source order. Only
// the fields matching Kind are meaningful.
type Token struct {
	Kind Kind
	// Text is the raw keyword or property name as it appeared.
	Text string
	// Op is set for KindOperator.
	Op Op
	// Combinator is set for KindCombinator.
	Combinator Combinator
	// Direction is set for KindDirection.
	Direction Direction
	// Limit and Count are set for KindLimiter.
	Limit LimitKind
	Count int
}

// subjects is the closed set of subject keywords, longest-first.
var subjects = []string{"Search", "Query", "Find", "Read", "Get"}

// operatorKeywords maps every accepted operator spelling to its canonical
// Op. Regex, Matches, IsMatches and MatchesRegex are aliases of one
// operator; Is and Equals alias the default equality.
var operatorKeywords = map[string]Op{
	"GreaterThanEqual": OpGTE,
	"GreaterThan":      OpGT,
	"LessThanEqual":    OpLTE,
	"LessThan":         OpLT,
	"MatchesRegex":     OpRegex,
	"IsMatches":        OpRegex,
	"Matches":          OpRegex,
	"Regex":            OpRegex,
	"IsNotNull":        OpNotNull,
	"NotNull":          OpNotNull,
	"IsNull":           OpIsNull,
	"Between":          OpBetween,
	"Equals":           OpEQ,
	"Like":             OpLike,
	"Not":              OpNEQ,
	"In":               OpIn,
	"Is":               OpEQ,
}

// operatorOrder holds the operator spellings longest-first so prefix
// matching picks GreaterThanEqual over GreaterThan and IsNotNull over Is.
var operatorOrder = func() []string {
	kws := make([]string, 0, len(operatorKeywords))
	for kw := range operatorKeywords {
		kws = append(kws, kw)
	}
	sort.Slice(kws, func(i, j int) bool {
		if len(kws[i]) != len(kws[j]) {
			return len(kws[i]) > len(kws[j])
		}
		return kws[i] < kws[j]
	})
	return kws
}()
