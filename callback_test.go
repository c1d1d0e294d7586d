package astarnn

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type unknownCallback struct{}

func (unknownCallback) Init() {}

func TestNearestRejectsUnrecognizedCallbackShape(t *testing.T) {
	e, err := New(3, 1.0, 0)
	require.NoError(t, err)
	defer e.Close()

	err = e.Nearest(context.Background(), make([]float64, 3), unknownCallback{})
	require.Error(t, err)
	var aerr *Error
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, Unknown, aerr.Code)
}

func TestKeepHashesInitResetsPriorResults(t *testing.T) {
	kept := KeepHashes{Hashes: []uint64{1, 2, 3}}
	kept.Init()
	assert.Empty(t, kept.Hashes)
}

func TestKeepCVectorsInitResetsPriorResults(t *testing.T) {
	kept := KeepCVectors{Probes: []CVector{{K: 1}}}
	kept.Init()
	assert.Empty(t, kept.Probes)
}

func TestKeepProbesInitResetsPriorResults(t *testing.T) {
	kept := KeepProbes{Probes: []Probe{{Hash: 1}}}
	kept.Init()
	assert.Empty(t, kept.Probes)
}

func TestKeepPointsInitResetsPriorResults(t *testing.T) {
	kept := KeepPoints{Points: [][]float64{{1, 2}}}
	kept.Init()
	assert.Empty(t, kept.Points)
}

func TestKeepCVectorsCopiesCVectorRatherThanAliasingScratch(t *testing.T) {
	e, err := New(3, 1.0, 0)
	require.NoError(t, err)
	defer e.Close()

	var kept KeepCVectors
	require.NoError(t, e.Nearest(context.Background(), []float64{0.1, 0.2, 0.3}, &kept))
	require.Len(t, kept.Probes, 1)

	original := append([]int32(nil), kept.Probes[0].C...)

	var kept2 KeepCVectors
	require.NoError(t, e.Nearest(context.Background(), []float64{-0.4, 0.9, -0.1}, &kept2))

	assert.Equal(t, original, kept.Probes[0].C)
}
