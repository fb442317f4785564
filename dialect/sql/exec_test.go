package sql

import (
	stdsql "database/sql"
	"database/sql/driver"
	"fmt"
	"regexp"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sqlite "modernc.org/sqlite"

	"github.com/syssam/repogen/dialect"
	"github.com/syssam/repogen/schema"
)

// TestEmitAgainstMockDriver runs an emitted query through database/sql with
// a mock driver, proving the text and named parameters line up with what a
// driver receives.
func TestEmitAgainstMockDriver(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()

	e := user(t, schema.WithTenant(schema.MultiTenant()))
	q := lower(t, dialect.MySQL, e, "FindByEmailRegexAndStatusOrderByNameAscAsync")

	mock.ExpectQuery(q.Text).
		WithArgs(
			stdsql.Named("tenantId", "t1"),
			stdsql.Named("email", ".*@example[.]com"),
			stdsql.Named("status", "active"),
		).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email"}).AddRow(1, "a@example.com"))

	args := make([]any, len(q.Params))
	values := map[string]any{
		"tenantId": "t1",
		"email":    ".*@example[.]com",
		"status":   "active",
	}
	for i, p := range q.Params {
		args[i] = stdsql.Named(p.Name, values[p.Name])
	}
	rows, err := db.Query(q.Text, args...)
	require.NoError(t, err)
	require.NoError(t, rows.Close())
	require.NoError(t, mock.ExpectationsWereMet())
}

// regexpOnce registers the regexp function sqlite's REGEXP operator
// dispatches to. Emitted SQLite regex queries document this requirement.
var regexpOnce = sync.OnceFunc(func() {
	sqlite.MustRegisterDeterministicScalarFunction("regexp", 2,
		func(ctx *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
			pattern, ok := args[0].(string)
			if !ok {
				return nil, fmt.Errorf("regexp: pattern must be text, got %T", args[0])
			}
			var value string
			switch v := args[1].(type) {
			case string:
				value = v
			case []byte:
				value = string(v)
			default:
				return nil, fmt.Errorf("regexp: value must be text, got %T", args[1])
			}
			matched, err := regexp.MatchString(pattern, value)
			if err != nil {
				return nil, err
			}
			if matched {
				return int64(1), nil
			}
			return int64(0), nil
		})
})

// TestEmitAgainstSQLite executes emitted SQLite text against an in-memory
// database end to end: schema, rows, named parameters, regex, ordering and
// row limit.
func TestEmitAgainstSQLite(t *testing.T) {
	regexpOnce()
	db, err := stdsql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE users (
		id INTEGER PRIMARY KEY,
		email TEXT, status TEXT, name TEXT, age INTEGER, tenant_id TEXT
	)`)
	require.NoError(t, err)
	for _, row := range [][]any{
		{1, "ada@example.com", "active", "Ada", 36, "t1"},
		{2, "bob@example.org", "active", "Bob", 41, "t1"},
		{3, "cam@example.com", "blocked", "Cam", 29, "t1"},
		{4, "dot@example.com", "active", "Dot", 52, "t2"},
	} {
		_, err = db.Exec(`INSERT INTO users VALUES (?, ?, ?, ?, ?, ?)`, row...)
		require.NoError(t, err)
	}

	e := user(t, schema.WithTenant(schema.MultiTenant()))

	t.Run("regex with tenant scoping", func(t *testing.T) {
		q := lower(t, dialect.SQLite, e, "FindByEmailRegexAndStatusOrderByNameAscAsync")
		rows, err := db.Query(q.Text,
			stdsql.Named("tenantId", "t1"),
			stdsql.Named("email", `.*@example\.com`),
			stdsql.Named("status", "active"),
		)
		require.NoError(t, err)
		defer rows.Close()

		var names []string
		for rows.Next() {
			var id, age int
			var email, status, name, tenantID string
			require.NoError(t, rows.Scan(&id, &email, &status, &name, &age, &tenantID))
			names = append(names, name)
		}
		require.NoError(t, rows.Err())
		assert.Equal(t, []string{"Ada"}, names,
			"org address, blocked row and foreign tenant are all filtered")
	})

	t.Run("or-chain stays inside the tenant", func(t *testing.T) {
		q := lower(t, dialect.SQLite, e, "FindByStatusOrAgeGreaterThanOrderByAgeDesc")
		rows, err := db.Query(q.Text,
			stdsql.Named("tenantId", "t1"),
			stdsql.Named("status", "active"),
			stdsql.Named("age", 30),
		)
		require.NoError(t, err)
		defer rows.Close()

		var ids []int
		for rows.Next() {
			var id, age int
			var email, status, name, tenantID string
			require.NoError(t, rows.Scan(&id, &email, &status, &name, &age, &tenantID))
			ids = append(ids, id)
		}
		require.NoError(t, rows.Err())
		assert.Equal(t, []int{2, 1}, ids, "row 4 matches the Or-chain but not the tenant")
	})

	t.Run("uuid parameter round-trips", func(t *testing.T) {
		_, err := db.Exec(`CREATE TABLE orders (id INTEGER PRIMARY KEY, owner_id TEXT, total REAL)`)
		require.NoError(t, err)
		owner := uuid.NewString()
		_, err = db.Exec(`INSERT INTO orders VALUES (1, ?, 9.5), (2, ?, 3.0)`, owner, uuid.NewString())
		require.NoError(t, err)

		order, err := schema.NewEntity("Order", []*schema.Property{
			schema.UUID("OwnerId"),
			schema.Float64("Total"),
		})
		require.NoError(t, err)
		q := lower(t, dialect.SQLite, order, "FindByOwnerId")
		rows, err := db.Query(q.Text, stdsql.Named("ownerId", owner))
		require.NoError(t, err)
		defer rows.Close()

		var ids []int
		for rows.Next() {
			var id int
			var ownerID string
			var total float64
			require.NoError(t, rows.Scan(&id, &ownerID, &total))
			ids = append(ids, id)
		}
		require.NoError(t, rows.Err())
		assert.Equal(t, []int{1}, ids)
	})

	t.Run("limit", func(t *testing.T) {
		q := lower(t, dialect.SQLite, e, "FindFirst2ByAgeGreaterThanOrderByAgeAsc")
		rows, err := db.Query(q.Text,
			stdsql.Named("tenantId", "t1"),
			stdsql.Named("age", 0),
		)
		require.NoError(t, err)
		defer rows.Close()

		n := 0
		for rows.Next() {
			n++
		}
		require.NoError(t, rows.Err())
		assert.Equal(t, 2, n)
	})
}
