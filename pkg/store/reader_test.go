package store

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeValues(t *testing.T) {
	row := normalizeValues(map[string]interface{}{
		"CATEGORY": []byte("A"),
		"AMOUNT":   int64(100),
		"NOTE":     nil,
	})

	assert.Equal(t, "A", row["CATEGORY"])
	assert.Equal(t, int64(100), row["AMOUNT"])
	assert.Nil(t, row["NOTE"])
}

func TestReadErrorWrapping(t *testing.T) {
	cause := errors.New("network unreachable")
	err := &ReadError{Table: "fact_orders", Err: cause}

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "fact_orders")
}

func TestWriteErrorWrapping(t *testing.T) {
	cause := errors.New("constraint violation")
	err := &WriteError{
		Table: "fact_orders_override",
		Step:  StepInsert,
		Key:   map[string]interface{}{"CATEGORY": "A"},
		Err:   cause,
	}

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "insert")
	assert.Contains(t, err.Error(), "fact_orders_override")
}
