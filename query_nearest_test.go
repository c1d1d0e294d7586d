package astarnn

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNearestReportsALatticePointViaKeepHashes(t *testing.T) {
	e, err := New(4, 1.0, 0)
	require.NoError(t, err)
	defer e.Close()

	var kept KeepHashes
	require.NoError(t, e.Nearest(context.Background(), []float64{0.1, -0.2, 0.05, 0.3}, &kept))
	require.Len(t, kept.Hashes, 1)
}

func TestNearestOriginMapsToTheZeroCVector(t *testing.T) {
	e, err := New(4, 1.0, 0)
	require.NoError(t, err)
	defer e.Close()

	var kept KeepCVectors
	require.NoError(t, e.Nearest(context.Background(), make([]float64, 4), &kept))
	require.Len(t, kept.Probes, 1)
	for _, c := range kept.Probes[0].C {
		assert.Equal(t, int32(0), c)
	}
	assert.Equal(t, int32(0), kept.Probes[0].K)
}

func TestNearestCVectorSumsToMinusK(t *testing.T) {
	e, err := New(5, 1.3, 0)
	require.NoError(t, err)
	defer e.Close()

	var kept KeepCVectors
	require.NoError(t, e.Nearest(context.Background(), []float64{1.1, -2.3, 0.7, 4.2, -1.9}, &kept))
	require.Len(t, kept.Probes, 1)

	p := kept.Probes[0]
	var sum int32
	for _, c := range p.C {
		sum += c
	}
	assert.Equal(t, -p.K, sum)
}

func TestNearestPointCallbackRoundTripsNearTheInput(t *testing.T) {
	e, err := New(3, 1.0, 0)
	require.NoError(t, err)
	defer e.Close()

	v := []float64{0.2, -0.1, 0.15}
	var kept KeepPoints
	require.NoError(t, e.Nearest(context.Background(), v, &kept))
	require.Len(t, kept.Points, 1)
	assert.Len(t, kept.Points[0], 3)
}

func TestNearestFullCallbackHashMatchesKeepHashes(t *testing.T) {
	e, err := New(4, 1.0, 0)
	require.NoError(t, err)
	defer e.Close()

	v := []float64{0.4, -0.6, 0.25, 0.05}

	var full KeepProbes
	require.NoError(t, e.Nearest(context.Background(), v, &full))

	var hashes KeepHashes
	require.NoError(t, e.Nearest(context.Background(), v, &hashes))

	require.Len(t, full.Probes, 1)
	require.Len(t, hashes.Hashes, 1)
	assert.Equal(t, hashes.Hashes[0], full.Probes[0].Hash)
}

func TestNearestRejectsWrongLengthVector(t *testing.T) {
	e, err := New(4, 1.0, 0)
	require.NoError(t, err)
	defer e.Close()

	var kept KeepHashes
	err = e.Nearest(context.Background(), []float64{1, 2, 3}, &kept)
	require.Error(t, err)
}

func TestNearestHashConvenienceWrapper(t *testing.T) {
	e, err := New(4, 1.0, 0)
	require.NoError(t, err)
	defer e.Close()

	h, err := e.NearestHash([]float64{0.1, 0.2, 0.3, 0.4})
	require.NoError(t, err)

	var kept KeepHashes
	require.NoError(t, e.Nearest(context.Background(), []float64{0.1, 0.2, 0.3, 0.4}, &kept))
	assert.Equal(t, kept.Hashes[0], h)
}

type errCallback struct {
	err error
}

func (errCallback) Init() {}
func (c errCallback) OnProbe(hash uint64, k int32, c_ []int32) error {
	return c.err
}

var assertErr = &Error{Code: Unknown, Message: "boom"}

var plainCallbackErr = errors.New("callback exploded")

func TestNearestPropagatesKnownTaxonomyCallbackErrorVerbatim(t *testing.T) {
	e, err := New(4, 1.0, 0)
	require.NoError(t, err)
	defer e.Close()

	err = e.Nearest(context.Background(), make([]float64, 4), errCallback{err: assertErr})
	require.Error(t, err)
	var aerr *Error
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, Unknown, aerr.Code)
	assert.Same(t, assertErr, aerr)
}

func TestNearestWrapsNonTaxonomyCallbackErrorAsInCallback(t *testing.T) {
	e, err := New(4, 1.0, 0)
	require.NoError(t, err)
	defer e.Close()

	err = e.Nearest(context.Background(), make([]float64, 4), errCallback{err: plainCallbackErr})
	require.Error(t, err)
	var aerr *Error
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, InCallback, aerr.Code)
	assert.ErrorIs(t, err, plainCallbackErr)
}
