package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-trip-pipeline/internal/dataset"
)

func TestParseDuration(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 10*time.Second, ParseDuration("10s"))
	assert.Equal(t, 5*time.Minute, ParseDuration(""))
	assert.Equal(t, 5*time.Minute, ParseDuration("not a duration"))
}

func TestCoerce(t *testing.T) {
	t.Parallel()

	v, err := Coerce("63", dataset.Int)
	require.NoError(t, err)
	assert.Equal(t, int64(63), v)

	v, err = Coerce(float64(63), dataset.Int) // encoding/json numbers
	require.NoError(t, err)
	assert.Equal(t, int64(63), v)

	v, err = Coerce(" 3.5 ", dataset.Float)
	require.NoError(t, err)
	assert.Equal(t, 3.5, v)

	v, err = Coerce("Embarcadero", dataset.String)
	require.NoError(t, err)
	assert.Equal(t, "Embarcadero", v)

	v, err = Coerce("8/29/2013 14:13", dataset.Time)
	require.NoError(t, err)
	ts, ok := v.(time.Time)
	require.True(t, ok)
	assert.Equal(t, 2013, ts.Year())
	assert.Equal(t, time.August, ts.Month())

	_, err = Coerce("oops", dataset.Int)
	assert.Error(t, err)
	_, err = Coerce("oops", dataset.Time)
	assert.Error(t, err)
	_, err = Coerce(true, dataset.Float)
	assert.Error(t, err)
}

func TestNumeric(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 63.0, Numeric(int64(63)))
	assert.Equal(t, 63.0, Numeric(63))
	assert.Equal(t, 1.5, Numeric(1.5))
	assert.Equal(t, 0.0, Numeric("not numeric"))
}
