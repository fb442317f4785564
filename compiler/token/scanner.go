package token

import (
	"strconv"
	"strings"

	"github.com/syssam/repogen/schema"
)

type state int

const (
	stateSubject state = iota
	statePrefix
	stateProperty
	stateAfterProperty
	stateAfterOperator
	stateAfterModifier
	stateTail
	stateOrderProperty
	stateOrderDirection
	stateOrderMore
	stateEnd
)

// A Scanner lazily tokenizes one method name against an entity's property
// set. Usage follows bufio.Scanner:
//
//	s := token.NewScanner(entity, "FindByEmailRegexAsync")
//	for s.Scan() {
//		tok := s.Token()
//		...
//	}
//	if err := s.Err(); err != nil { ... }
//
// A Scanner is single-use; create a new one to rescan. Tokens come out in
// the order they appear in the name.
type Scanner struct {
	method string
	props  []string // longest-first

	pos      int
	state    state
	sawOrder bool
	// afterProp distinguishes an unlisted operator spelling from generic
	// trailing garbage when classifying the failure.
	afterProp bool

	tok  Token
	err  error
	done bool
}

// NewScanner returns a Scanner over method for the given entity.
func NewScanner(e *schema.Entity, method string) *Scanner {
	return &Scanner{
		method: method,
		props:  e.PropertyNames(),
		state:  stateSubject,
	}
}

// Tokenize scans the whole method name and returns its tokens.
func Tokenize(e *schema.Entity, method string) ([]Token, error) {
	s := NewScanner(e, method)
	var toks []Token
	for s.Scan() {
		toks = append(toks, s.Token())
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return toks, nil
}

// Scan advances to the next token. It returns false at the end of the name
// or on error; Err tells the two apart.
func (s *Scanner) Scan() bool {
	if s.done || s.err != nil {
		return false
	}
	tok, err := s.next()
	switch {
	case err != nil:
		s.err = err
		return false
	case tok == nil:
		s.done = true
		return false
	}
	s.tok = *tok
	if tok.Kind != KindProperty {
		s.afterProp = false
	}
	return true
}

// Token returns the token produced by the last successful Scan.
func (s *Scanner) Token() Token { return s.tok }

// Err returns the first error encountered, if any.
func (s *Scanner) Err() error { return s.err }

func (s *Scanner) rest() string { return s.method[s.pos:] }

// boundary reports whether position n in r ends a CamelCase segment: end of
// input, an uppercase letter or a digit. It keeps Or from swallowing the
// start of OrderBy and Asc the start of Async.
func boundary(r string, n int) bool {
	if n >= len(r) {
		return true
	}
	c := r[n]
	return c < 'a' || c > 'z'
}

// peek reports whether the remaining input starts with kw on a segment
// boundary.
func (s *Scanner) peek(kw string) bool {
	r := s.rest()
	return strings.HasPrefix(r, kw) && boundary(r, len(kw))
}

// eat consumes kw if the remaining input starts with it on a segment
// boundary.
func (s *Scanner) eat(kw string) bool {
	if s.peek(kw) {
		s.pos += len(kw)
		return true
	}
	return false
}

func (s *Scanner) fail(reason error, segment string) (*Token, error) {
	return nil, &Error{Method: s.method, Segment: segment, Reason: reason}
}

// matchProperty returns the longest property name prefixing the remaining
// input on a segment boundary.
func (s *Scanner) matchProperty() (string, bool) {
	r := s.rest()
	for _, name := range s.props {
		if strings.HasPrefix(r, name) && boundary(r, len(name)) {
			return name, true
		}
	}
	return "", false
}

func (s *Scanner) next() (*Token, error) {
	for {
		switch s.state {
		case stateSubject:
			if s.method == "" {
				return s.fail(ErrEmptyMethod, "")
			}
			for _, kw := range subjects {
				if s.eat(kw) {
					s.state = statePrefix
					return &Token{Kind: KindSubject, Text: kw}, nil
				}
			}
			return s.fail(ErrUnknownSubject, s.method)

		case statePrefix:
			switch r := s.rest(); {
			case s.eat("By"):
				s.state = stateProperty
			case s.eat("Distinct"):
				return &Token{Kind: KindDistinct, Text: "Distinct"}, nil
			case s.peek("First") || s.peek("Top"):
				return s.limiter()
			default:
				return s.fail(ErrMissingBy, r)
			}

		case stateProperty:
			if s.rest() == "" {
				// "FindBy" with nothing after: the parser reports
				// the empty predicate set.
				return nil, nil
			}
			name, ok := s.matchProperty()
			if !ok {
				return s.fail(ErrUnknownProperty, s.rest())
			}
			s.pos += len(name)
			s.state = stateAfterProperty
			s.afterProp = true
			return &Token{Kind: KindProperty, Text: name}, nil

		case stateAfterProperty:
			r := s.rest()
			if r == "" {
				return nil, nil
			}
			for _, kw := range operatorOrder {
				if s.eat(kw) {
					s.state = stateAfterOperator
					return &Token{Kind: KindOperator, Text: kw, Op: operatorKeywords[kw]}, nil
				}
			}
			s.state = stateAfterOperator

		case stateAfterOperator:
			switch {
			case s.rest() == "":
				return nil, nil
			case s.eat("IgnoringCase"), s.eat("IgnoreCase"):
				s.state = stateAfterModifier
				return &Token{Kind: KindIgnoreCase, Text: "IgnoreCase"}, nil
			default:
				s.state = stateAfterModifier
			}

		case stateAfterModifier:
			switch r := s.rest(); {
			case r == "" || strings.HasPrefix(r, "OrderBy"):
				// Or would otherwise swallow the OrderBy prefix.
				s.state = stateTail
			case s.eat("And"):
				s.state = stateProperty
				return &Token{Kind: KindCombinator, Text: "And", Combinator: And}, nil
			case s.eat("Or"):
				s.state = stateProperty
				return &Token{Kind: KindCombinator, Text: "Or", Combinator: Or}, nil
			default:
				s.state = stateTail
			}

		case stateTail:
			switch r := s.rest(); {
			case r == "":
				return nil, nil
			case !s.sawOrder && s.eat("Distinct"):
				return &Token{Kind: KindDistinct, Text: "Distinct"}, nil
			case s.eat("OrderBy"):
				s.sawOrder = true
				s.state = stateOrderProperty
				return &Token{Kind: KindOrderBy, Text: "OrderBy"}, nil
			case s.peek("First") || s.peek("Top"):
				return s.limiter()
			case s.eat("Async"):
				s.state = stateEnd
				return &Token{Kind: KindAsync, Text: "Async"}, nil
			case s.afterProp:
				return s.fail(ErrUnknownOperator, r)
			default:
				return s.fail(ErrTrailingInput, r)
			}

		case stateOrderProperty:
			name, ok := s.matchProperty()
			if !ok {
				return s.fail(ErrUnknownProperty, s.rest())
			}
			s.pos += len(name)
			s.state = stateOrderDirection
			return &Token{Kind: KindProperty, Text: name}, nil

		case stateOrderDirection:
			switch {
			case s.eat("Asc"):
				s.state = stateOrderMore
				return &Token{Kind: KindDirection, Text: "Asc", Direction: Asc}, nil
			case s.eat("Desc"):
				s.state = stateOrderMore
				return &Token{Kind: KindDirection, Text: "Desc", Direction: Desc}, nil
			default:
				s.state = stateOrderMore
			}

		case stateOrderMore:
			if _, ok := s.matchProperty(); ok {
				s.state = stateOrderProperty
			} else {
				s.state = stateTail
			}

		case stateEnd:
			if r := s.rest(); r != "" {
				return s.fail(ErrTrailingInput, r)
			}
			return nil, nil
		}
	}
}

// limiter consumes a First/Top keyword with its optional count. An omitted
// count means 1, matching the FindFirstByX convention.
func (s *Scanner) limiter() (*Token, error) {
	var kind LimitKind
	var kw string
	switch {
	case s.eat("First"):
		kind, kw = LimitFirst, "First"
	case s.eat("Top"):
		kind, kw = LimitTop, "Top"
	}
	digits := s.rest()
	n := 0
	for n < len(digits) && digits[n] >= '0' && digits[n] <= '9' {
		n++
	}
	count := 1
	if n > 0 {
		v, err := strconv.Atoi(digits[:n])
		if err != nil || v == 0 {
			return s.fail(ErrBadLimiter, kw+digits[:n])
		}
		s.pos += n
		count = v
	}
	return &Token{Kind: KindLimiter, Text: kw + digits[:n], Limit: kind, Count: count}, nil
}
