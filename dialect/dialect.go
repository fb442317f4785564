// Package dialect names the SQL dialects repogen can emit query text for
// and records the capability differences the emitter branches on.
//
// # Supported Dialects
//
// Each dialect is identified by a constant string:
//
//	dialect.MySQL     = "mysql"
//	dialect.Postgres  = "postgres"
//	dialect.SQLite    = "sqlite"
//	dialect.SQLServer = "sqlserver"
//
// # Capabilities
//
// Dialects differ in regex support and row-limit syntax. MySQL and SQLite
// use the REGEXP operator (SQLite only after the application registers a
// regexp function on the connection), Postgres uses ~ and ~*, and SQL Server
// has no native regex operator at all. SQL Server also renders row limits as
// TOP n instead of LIMIT n.
package dialect

import (
	"errors"
	"fmt"
)

const (
	// MySQL is the mysql dialect.
	MySQL = "mysql"
	// Postgres is the postgres dialect.
	Postgres = "postgres"
	// SQLite is the sqlite dialect.
	SQLite = "sqlite"
	// SQLServer is the sqlserver dialect.
	SQLServer = "sqlserver"
)

// ErrUnknownDialect indicates a dialect name outside the supported set.
var ErrUnknownDialect = errors.New("repogen: unknown dialect")

// All returns the supported dialect names in stable order.
func All() []string {
	return []string{MySQL, Postgres, SQLite, SQLServer}
}

// Validate returns an error if name is not a supported dialect.
func Validate(name string) error {
	switch name {
	case MySQL, Postgres, SQLite, SQLServer:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownDialect, name)
}

// SupportsRegex reports whether the dialect has a native regex match
// operator. SQLite counts as supported because the emitted REGEXP operator
// works once the application registers a regexp function; SQL Server does
// not, and regex plans fail at emit time there.
func SupportsRegex(name string) bool {
	switch name {
	case MySQL, Postgres, SQLite:
		return true
	}
	return false
}

// UsesTop reports whether the dialect renders row limits as a TOP clause in
// the projection rather than a trailing LIMIT.
func UsesTop(name string) bool {
	return name == SQLServer
}
