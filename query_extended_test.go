package astarnn

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtendedReportsExactlyNumProbesEntries(t *testing.T) {
	e, err := New(4, 1.0, 2)
	require.NoError(t, err)
	defer e.Close()

	var kept KeepCVectors
	require.NoError(t, e.Extended(context.Background(), []float64{0.3, -1.1, 0.7, 0.2}, &kept))
	assert.Len(t, kept.Probes, e.NumProbes())
}

func TestExtendedEveryCVectorSumsToMinusK(t *testing.T) {
	e, err := New(4, 1.0, 2)
	require.NoError(t, err)
	defer e.Close()

	var kept KeepCVectors
	require.NoError(t, e.Extended(context.Background(), []float64{0.3, -1.1, 0.7, 0.2}, &kept))
	require.NotEmpty(t, kept.Probes)

	for _, p := range kept.Probes {
		var sum int32
		for _, c := range p.C {
			sum += c
		}
		assert.Equal(t, -p.K, sum)
	}
}

func TestExtendedFirstProbeMatchesDelaunayOrigin(t *testing.T) {
	e, err := New(4, 1.0, 2)
	require.NoError(t, err)
	defer e.Close()

	v := []float64{0.3, -1.1, 0.7, 0.2}

	var extended KeepCVectors
	require.NoError(t, e.Extended(context.Background(), v, &extended))

	var delaunay KeepCVectors
	require.NoError(t, e.Delaunay(context.Background(), v, &delaunay))

	require.NotEmpty(t, extended.Probes)
	require.NotEmpty(t, delaunay.Probes)
	assert.Equal(t, delaunay.Probes[0].C, extended.Probes[0].C)
	assert.Equal(t, delaunay.Probes[0].K, extended.Probes[0].K)
}

func TestExtendedWithZeroShellsMatchesOrbitOfDelaunayOrigin(t *testing.T) {
	e, err := New(3, 1.0, 0)
	require.NoError(t, err)
	defer e.Close()

	var kept KeepCVectors
	require.NoError(t, e.Extended(context.Background(), []float64{0.2, -0.4, 0.9}, &kept))
	assert.Len(t, kept.Probes, 4) // one zero-probe, orbit size dim+1
}

func TestExtendedHashCallbackMatchesFullCallback(t *testing.T) {
	e, err := New(4, 1.0, 1)
	require.NoError(t, err)
	defer e.Close()

	v := []float64{0.5, -0.2, 0.1, -0.7}

	var full KeepProbes
	require.NoError(t, e.Extended(context.Background(), v, &full))

	var hashes KeepHashes
	require.NoError(t, e.Extended(context.Background(), v, &hashes))

	require.Equal(t, len(full.Probes), len(hashes.Hashes))
	for i := range full.Probes {
		assert.Equal(t, full.Probes[i].Hash, hashes.Hashes[i])
	}
}

func TestExtendedPointCallbackProducesOneVectorPerProbe(t *testing.T) {
	e, err := New(3, 1.0, 1)
	require.NoError(t, err)
	defer e.Close()

	var kept KeepPoints
	require.NoError(t, e.Extended(context.Background(), []float64{0.1, 0.2, -0.3}, &kept))
	assert.Len(t, kept.Points, e.NumProbes())
	for _, p := range kept.Points {
		assert.Len(t, p, 3)
	}
}

func TestExtendedRejectsWrongLengthVector(t *testing.T) {
	e, err := New(4, 1.0, 1)
	require.NoError(t, err)
	defer e.Close()

	var kept KeepHashes
	err = e.Extended(context.Background(), []float64{1, 2}, &kept)
	require.Error(t, err)
}
