package repository

import (
	"testing"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inquizitor/inquizitor-backend/internal/model"
)

// Difficulty is bound and scanned directly, so it must round-trip
// through the smallint wire type the questions table uses.
func TestDifficultyRoundTripsThroughSmallint(t *testing.T) {
	m := pgtype.NewMap()

	buf, err := m.Encode(pgtype.Int2OID, pgtype.TextFormatCode, model.DifficultyMedium, nil)
	require.NoError(t, err)
	assert.Equal(t, "2", string(buf))

	var d model.Difficulty
	plan := m.PlanScan(pgtype.Int2OID, pgtype.TextFormatCode, &d)
	require.NotNil(t, plan)
	require.NoError(t, plan.Scan([]byte("3"), &d))
	assert.Equal(t, model.DifficultyHard, d)
}
