package repository

import (
	"testing"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Questions created without sharing and configs created without a type
// filter carry nil slices; pgx encodes a nil []string as SQL NULL, which
// the NOT NULL array columns reject. textArray has to turn those into
// empty arrays before they reach the driver.
func TestTextArrayNilEncodesAsEmptyArray(t *testing.T) {
	m := pgtype.NewMap()

	buf, err := m.Encode(pgtype.TextArrayOID, pgtype.TextFormatCode, textArray(nil), nil)
	require.NoError(t, err)
	require.NotNil(t, buf, "nil input must not encode as SQL NULL")
	assert.Equal(t, "{}", string(buf))
}

func TestTextArrayPassthrough(t *testing.T) {
	in := []string{"a@example.com", "b@example.com"}
	assert.Equal(t, in, textArray(in))
	assert.Equal(t, []string{}, textArray([]string{}))
}
