package iectable_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radekizk/mvbench/iectable"
)

func TestMN_ExactGridPoint(t *testing.T) {
	m, n, err := iectable.MN(0.1, 1.4)
	require.NoError(t, err)
	assert.InDelta(t, 0.08, m, 1e-9)
	assert.InDelta(t, 1.05, n, 1e-9)
}

func TestMN_InterpolatesBetweenGridPoints(t *testing.T) {
	m, _, err := iectable.MN(0.075, 1.3)
	require.NoError(t, err)
	assert.Greater(t, m, 0.0)
	assert.Less(t, m, 0.12)
}

func TestMN_ClampsAboveGridRange(t *testing.T) {
	m1, n1, err := iectable.MN(10, 2.0)
	require.NoError(t, err)
	m2, n2, err := iectable.MN(3.0, 2.0)
	require.NoError(t, err)
	assert.Equal(t, m1, m2)
	assert.Equal(t, n1, n2)
}

func TestMN_RejectsInvalidKappa(t *testing.T) {
	_, _, err := iectable.MN(0.1, 0.5)
	assert.Error(t, err)
}
