package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialectFor(t *testing.T) {
	t.Run("known drivers", func(t *testing.T) {
		sf, err := DialectFor("snowflake")
		require.NoError(t, err)
		assert.Equal(t, "snowflake", sf.Name())

		pg, err := DialectFor("pgx")
		require.NoError(t, err)
		assert.Equal(t, "postgres", pg.Name())
	})

	t.Run("unknown driver", func(t *testing.T) {
		_, err := DialectFor("mysql")
		assert.Error(t, err)
	})
}

func TestQuoteIdentifier(t *testing.T) {
	snowflake, err := DialectFor("snowflake")
	require.NoError(t, err)
	postgres, err := DialectFor("pgx")
	require.NoError(t, err)

	t.Run("snowflake folds to upper", func(t *testing.T) {
		quoted, err := snowflake.QuoteIdentifier("fact_orders")
		require.NoError(t, err)
		assert.Equal(t, `"FACT_ORDERS"`, quoted)
	})

	t.Run("postgres folds to lower", func(t *testing.T) {
		quoted, err := postgres.QuoteIdentifier("FACT_ORDERS")
		require.NoError(t, err)
		assert.Equal(t, `"fact_orders"`, quoted)
	})

	t.Run("rejects injection-shaped names", func(t *testing.T) {
		for _, name := range []string{
			"",
			"fact_orders; DROP TABLE x",
			`fact"orders`,
			"fact orders",
			"1fact",
		} {
			_, err := snowflake.QuoteIdentifier(name)
			assert.Error(t, err, "snowflake should reject %q", name)
			_, err = postgres.QuoteIdentifier(name)
			assert.Error(t, err, "postgres should reject %q", name)
		}
	})
}

func TestCurrentTimestamp(t *testing.T) {
	snowflake, _ := DialectFor("snowflake")
	postgres, _ := DialectFor("pgx")

	assert.Equal(t, "CURRENT_TIMESTAMP()", snowflake.CurrentTimestamp())
	assert.Equal(t, "CURRENT_TIMESTAMP", postgres.CurrentTimestamp())
}
