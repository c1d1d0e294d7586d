package astarnn

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalAndLoadTablesRoundTrip(t *testing.T) {
	e, err := New(4, 1.3, 2)
	require.NoError(t, err)
	defer e.Close()

	data, err := e.MarshalTables()
	require.NoError(t, err)
	require.NotEmpty(t, data)

	loaded, err := LoadTables(4, 1.3, 2, data)
	require.NoError(t, err)
	defer loaded.Close()

	assert.Equal(t, e.NumProbes(), loaded.NumProbes())
	assert.Equal(t, e.NumOrbits(), loaded.NumOrbits())
	assert.Equal(t, e.Scale(), loaded.Scale())

	v := []float64{0.4, -0.6, 0.2, 0.1}

	var want KeepCVectors
	require.NoError(t, e.Extended(context.Background(), v, &want))

	var got KeepCVectors
	require.NoError(t, loaded.Extended(context.Background(), v, &got))

	assert.Equal(t, want.Probes, got.Probes)
}

func TestLoadTablesRejectsMismatchedParameters(t *testing.T) {
	e, err := New(4, 1.3, 2)
	require.NoError(t, err)
	defer e.Close()

	data, err := e.MarshalTables()
	require.NoError(t, err)

	_, err = LoadTables(5, 1.3, 2, data)
	require.Error(t, err)
	var aerr *Error
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, Unknown, aerr.Code)

	_, err = LoadTables(4, 9.9, 2, data)
	require.Error(t, err)

	_, err = LoadTables(4, 1.3, 3, data)
	require.Error(t, err)
}

func TestLoadTablesRejectsGarbageData(t *testing.T) {
	_, err := LoadTables(4, 1.0, 1, []byte("not a valid table"))
	require.Error(t, err)
}

func TestLoadTablesRejectsInvalidDimensions(t *testing.T) {
	_, err := LoadTables(0, 1.0, 1, nil)
	require.Error(t, err)
	var aerr *Error
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, InvalidDim, aerr.Code)
}

func TestMarshalTablesRejectsClosedEngine(t *testing.T) {
	e, err := New(3, 1.0, 0)
	require.NoError(t, err)
	require.NoError(t, e.Close())

	_, err = e.MarshalTables()
	require.Error(t, err)
}
