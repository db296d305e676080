package util

import (
	"strings"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewID(t *testing.T) {
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	id := NewID(at)

	assert.True(t, ValidID(id))
	parsed, err := ulid.ParseStrict(id)
	require.NoError(t, err)
	assert.Equal(t, ulid.Timestamp(at), parsed.Time())
}

func TestValidID(t *testing.T) {
	assert.False(t, ValidID(""))
	assert.False(t, ValidID("../../etc/passwd"))
	assert.False(t, ValidID("not-a-ulid"))
}

func TestNewCustomerID(t *testing.T) {
	id := NewCustomerID(time.Now())
	assert.True(t, strings.HasPrefix(id, "cus_"))
	assert.Equal(t, strings.ToLower(id), id)
	assert.NotEqual(t, id, NewCustomerID(time.Now()))
}
