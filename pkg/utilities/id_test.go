package utilities

import (
	"strconv"
	"testing"

	"github.com/segmentio/ksuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSnowflakeID_Unique(t *testing.T) {
	t.Setenv("SNOWFLAKE_NODE", "3")

	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		id := NewSnowflakeID()
		_, dup := seen[id]
		require.False(t, dup, "duplicate id %s", id)
		seen[id] = struct{}{}

		_, err := strconv.ParseInt(id, 10, 64)
		require.NoError(t, err)
	}
}

func TestNewSnowflakeID_BadNodeFallsBackToDefault(t *testing.T) {
	t.Setenv("SNOWFLAKE_NODE", "not-a-number")

	id := NewSnowflakeID()
	_, err := strconv.ParseInt(id, 10, 64)
	assert.NoError(t, err)
}

func TestNewSnowflakeIDWithNode_OutOfRangeUsesKSUID(t *testing.T) {
	id := NewSnowflakeIDWithNode(1 << 20)

	_, err := ksuid.Parse(id)
	assert.NoError(t, err)
}
