package assets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationsOrdered(t *testing.T) {
	ms, err := Migrations()
	require.NoError(t, err)
	require.Len(t, ms, 2)
	assert.Equal(t, "001_results.sql", ms[0].Name)
	assert.Equal(t, "002_daily_unique.sql", ms[1].Name)
	assert.Contains(t, ms[0].SQL, "CREATE TABLE IF NOT EXISTS results")
}
