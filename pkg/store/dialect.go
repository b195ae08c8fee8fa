// pkg/store/dialect.go
package store

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/lib/pq"
)

// Dialect abstracts the SQL differences between backing stores:
// identifier folding and quoting, and the server-side timestamp
// expression written into override records.
type Dialect interface {
	// Name returns the dialect name
	Name() string

	// QuoteIdentifier validates and quotes a table or column name.
	// Identifiers never come from user-typed SQL, but they do come from
	// catalog data, so they are validated rather than trusted.
	QuoteIdentifier(name string) (string, error)

	// CurrentTimestamp returns the server-side current timestamp expression
	CurrentTimestamp() string
}

// identifierPattern is the only identifier shape the override tables use
var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_$]*$`)

// DialectFor returns the dialect for a registered driver name
func DialectFor(driverName string) (Dialect, error) {
	switch driverName {
	case "snowflake":
		return snowflakeDialect{}, nil
	case "pgx", "postgres":
		return postgresDialect{}, nil
	default:
		return nil, fmt.Errorf("no dialect for driver %q", driverName)
	}
}

type snowflakeDialect struct{}

func (snowflakeDialect) Name() string { return "snowflake" }

// QuoteIdentifier upper-cases and quotes the name. Snowflake stores
// unquoted identifiers in upper case, so the quoted upper form matches
// tables created either way except deliberately case-sensitive ones.
func (snowflakeDialect) QuoteIdentifier(name string) (string, error) {
	if !identifierPattern.MatchString(name) {
		return "", fmt.Errorf("invalid identifier: %q", name)
	}
	return `"` + strings.ToUpper(name) + `"`, nil
}

func (snowflakeDialect) CurrentTimestamp() string { return "CURRENT_TIMESTAMP()" }

type postgresDialect struct{}

func (postgresDialect) Name() string { return "postgres" }

// QuoteIdentifier lower-cases and quotes the name, matching Postgres
// folding for tables created with unquoted identifiers.
func (postgresDialect) QuoteIdentifier(name string) (string, error) {
	if !identifierPattern.MatchString(name) {
		return "", fmt.Errorf("invalid identifier: %q", name)
	}
	return pq.QuoteIdentifier(strings.ToLower(name)), nil
}

func (postgresDialect) CurrentTimestamp() string { return "CURRENT_TIMESTAMP" }
