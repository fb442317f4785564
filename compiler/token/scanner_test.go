package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/repogen/schema"
)

func user(t *testing.T) *schema.Entity {
	t.Helper()
	e, err := schema.NewEntity("User", []*schema.Property{
		schema.String("Email"),
		schema.String("Status"),
		schema.String("Name"),
		schema.String("NameFirst"),
		schema.Int("Age"),
		schema.Time("CreatedAt"),
	})
	require.NoError(t, err)
	return e
}

// kinds reduces a token stream to its kind sequence for shape assertions.
func kinds(toks []Token) []Kind {
	ks := make([]Kind, len(toks))
	for i, tok := range toks {
		ks[i] = tok.Kind
	}
	return ks
}

func TestTokenize(t *testing.T) {
	e := user(t)

	t.Run("regex predicate", func(t *testing.T) {
		toks, err := Tokenize(e, "FindByEmailRegexAsync")
		require.NoError(t, err)
		require.Equal(t, []Kind{KindSubject, KindProperty, KindOperator, KindAsync}, kinds(toks))
		assert.Equal(t, "Find", toks[0].Text)
		assert.Equal(t, "Email", toks[1].Text)
		assert.Equal(t, OpRegex, toks[2].Op)
	})

	t.Run("combinator and ordering", func(t *testing.T) {
		toks, err := Tokenize(e, "FindByEmailRegexAndStatusOrderByNameAscAsync")
		require.NoError(t, err)
		require.Equal(t, []Kind{
			KindSubject, KindProperty, KindOperator, KindCombinator,
			KindProperty, KindOrderBy, KindProperty, KindDirection, KindAsync,
		}, kinds(toks))
		assert.Equal(t, And, toks[3].Combinator)
		assert.Equal(t, "Status", toks[4].Text)
		assert.Equal(t, "Name", toks[6].Text)
		assert.Equal(t, Asc, toks[7].Direction)
	})

	t.Run("or keeps its distance from OrderBy", func(t *testing.T) {
		toks, err := Tokenize(e, "FindByEmailOrStatusOrderByAgeDesc")
		require.NoError(t, err)
		require.Equal(t, []Kind{
			KindSubject, KindProperty, KindCombinator,
			KindProperty, KindOrderBy, KindProperty, KindDirection,
		}, kinds(toks))
		assert.Equal(t, Or, toks[2].Combinator)
	})

	t.Run("asc never leaks into async", func(t *testing.T) {
		toks, err := Tokenize(e, "FindByStatusOrderByNameAsync")
		require.NoError(t, err)
		require.Equal(t, []Kind{
			KindSubject, KindProperty, KindOrderBy, KindProperty, KindAsync,
		}, kinds(toks))
	})

	t.Run("multi-key ordering", func(t *testing.T) {
		toks, err := Tokenize(e, "FindByStatusOrderByNameAscAgeDesc")
		require.NoError(t, err)
		require.Equal(t, []Kind{
			KindSubject, KindProperty, KindOrderBy,
			KindProperty, KindDirection, KindProperty, KindDirection,
		}, kinds(toks))
		assert.Equal(t, "Name", toks[3].Text)
		assert.Equal(t, "Age", toks[5].Text)
		assert.Equal(t, Desc, toks[6].Direction)
	})

	t.Run("longest property wins", func(t *testing.T) {
		toks, err := Tokenize(e, "FindByNameFirstIsNull")
		require.NoError(t, err)
		require.Equal(t, []Kind{KindSubject, KindProperty, KindOperator}, kinds(toks))
		assert.Equal(t, "NameFirst", toks[1].Text)
		assert.Equal(t, OpIsNull, toks[2].Op)
	})

	t.Run("compound operator is not split", func(t *testing.T) {
		toks, err := Tokenize(e, "FindByAgeGreaterThanEqual")
		require.NoError(t, err)
		assert.Equal(t, OpGTE, toks[2].Op)
	})

	t.Run("ignore case modifier", func(t *testing.T) {
		toks, err := Tokenize(e, "FindByEmailLikeIgnoreCaseAsync")
		require.NoError(t, err)
		require.Equal(t, []Kind{
			KindSubject, KindProperty, KindOperator, KindIgnoreCase, KindAsync,
		}, kinds(toks))
	})

	t.Run("distinct prefix", func(t *testing.T) {
		toks, err := Tokenize(e, "FindDistinctByStatus")
		require.NoError(t, err)
		require.Equal(t, []Kind{KindSubject, KindDistinct, KindProperty}, kinds(toks))
	})

	t.Run("between binds two operands", func(t *testing.T) {
		toks, err := Tokenize(e, "FindByAgeBetweenAsync")
		require.NoError(t, err)
		assert.Equal(t, OpBetween, toks[2].Op)
		assert.Equal(t, 2, toks[2].Op.Operands())
	})

	t.Run("bare subject and by", func(t *testing.T) {
		toks, err := Tokenize(e, "FindBy")
		require.NoError(t, err)
		require.Equal(t, []Kind{KindSubject}, kinds(toks))
	})
}

func TestTokenizeSubjects(t *testing.T) {
	e := user(t)
	for _, subject := range []string{"Find", "Get", "Read", "Query", "Search"} {
		t.Run(subject, func(t *testing.T) {
			toks, err := Tokenize(e, subject+"ByEmail")
			require.NoError(t, err)
			assert.Equal(t, subject, toks[0].Text)
		})
	}
}

func TestTokenizeRegexAliases(t *testing.T) {
	e := user(t)
	for _, alias := range []string{"Regex", "Matches", "IsMatches", "MatchesRegex"} {
		t.Run(alias, func(t *testing.T) {
			toks, err := Tokenize(e, "FindByEmail"+alias+"Async")
			require.NoError(t, err)
			require.Equal(t, []Kind{KindSubject, KindProperty, KindOperator, KindAsync}, kinds(toks))
			assert.Equal(t, OpRegex, toks[2].Op, "alias %s must normalize", alias)
			assert.Equal(t, alias, toks[2].Text)
		})
	}
}

func TestTokenizeLimiters(t *testing.T) {
	e := user(t)
	cases := []struct {
		method string
		kind   LimitKind
		count  int
	}{
		{"FindFirst5ByNameMatchesAsync", LimitFirst, 5},
		{"GetTop10ByNameMatchesAsync", LimitTop, 10},
		{"FindFirstByEmail", LimitFirst, 1},
		{"FindTopByEmail", LimitTop, 1},
		{"FindByEmailOrderByNameTop3", LimitTop, 3},
	}
	for _, tc := range cases {
		t.Run(tc.method, func(t *testing.T) {
			toks, err := Tokenize(e, tc.method)
			require.NoError(t, err)
			var lim *Token
			for i := range toks {
				if toks[i].Kind == KindLimiter {
					lim = &toks[i]
				}
			}
			require.NotNil(t, lim)
			assert.Equal(t, tc.kind, lim.Limit)
			assert.Equal(t, tc.count, lim.Count)
		})
	}
}

func TestTokenizeErrors(t *testing.T) {
	e := user(t)
	cases := []struct {
		name   string
		method string
		reason error
	}{
		{"empty", "", ErrEmptyMethod},
		{"unknown subject", "FetchByEmail", ErrUnknownSubject},
		{"missing by", "FindEmail", ErrMissingBy},
		{"unknown property", "FindByColor", ErrUnknownProperty},
		{"property is not a segment prefix", "FindByNames", ErrUnknownProperty},
		{"unknown operator", "FindByEmailFuzzy", ErrUnknownOperator},
		{"zero limiter", "FindFirst0ByEmail", ErrBadLimiter},
		{"trailing input", "FindByEmailAsyncJunk", ErrTrailingInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Tokenize(e, tc.method)
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.reason)
			assert.True(t, IsError(err))
			var tokErr *Error
			require.ErrorAs(t, err, &tokErr)
			assert.Equal(t, tc.method, tokErr.Method)
		})
	}
}

func TestScanner(t *testing.T) {
	e := user(t)

	t.Run("lazy iteration", func(t *testing.T) {
		s := NewScanner(e, "FindByEmailRegexAsync")
		var texts []string
		for s.Scan() {
			texts = append(texts, s.Token().Text)
		}
		require.NoError(t, s.Err())
		assert.Equal(t, []string{"Find", "Email", "Regex", "Async"}, texts)
	})

	t.Run("stops at first error", func(t *testing.T) {
		s := NewScanner(e, "FindByColorAndEmail")
		n := 0
		for s.Scan() {
			n++
		}
		assert.Equal(t, 1, n, "only the subject precedes the bad segment")
		assert.ErrorIs(t, s.Err(), ErrUnknownProperty)
		assert.False(t, s.Scan(), "scanner stays stopped after an error")
	})

	t.Run("fresh scanner rescans", func(t *testing.T) {
		first, err := Tokenize(e, "FindByEmailRegexAndStatusOrderByNameAscAsync")
		require.NoError(t, err)
		second, err := Tokenize(e, "FindByEmailRegexAndStatusOrderByNameAscAsync")
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})
}

func TestOperatorTable(t *testing.T) {
	t.Run("longest spelling first", func(t *testing.T) {
		require.NotEmpty(t, operatorOrder)
		for i := 1; i < len(operatorOrder); i++ {
			assert.GreaterOrEqual(t, len(operatorOrder[i-1]), len(operatorOrder[i]))
		}
	})

	t.Run("every spelling has a canonical operator", func(t *testing.T) {
		for _, kw := range operatorOrder {
			op, ok := operatorKeywords[kw]
			require.True(t, ok, kw)
			assert.NotEqual(t, "Unknown", op.String())
		}
	})
}
