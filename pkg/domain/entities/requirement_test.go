package entities

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseExplosionBasis(t *testing.T) {
	basis, err := ParseExplosionBasis("release")
	require.NoError(t, err)
	assert.Equal(t, ExplodeReleases, basis)

	basis, err = ParseExplosionBasis(" GROSS ")
	require.NoError(t, err)
	assert.Equal(t, ExplodeGross, basis)
	assert.Equal(t, "gross", basis.String())

	_, err = ParseExplosionBasis("net")
	assert.EqualError(t, err, "invalid explosion basis: net (expected: release or gross)")
}

func TestExplosionBasis_JSON(t *testing.T) {
	run := PlanningRun{Horizon: 5, ExplosionBasis: ExplodeGross}

	data, err := json.Marshal(run)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"explosion_basis":"gross"`)

	var decoded PlanningRun
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, ExplodeGross, decoded.ExplosionBasis)
}
