package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stationRows(stations ...string) []Row {
	rows := make([]Row, 0, len(stations))
	for _, s := range stations {
		rows = append(rows, Row{"Start Station": s})
	}
	return rows
}

func TestGroupAndRank(t *testing.T) {
	t.Parallel()
	ds := New(tripSchema(), stationRows("A", "B", "A", "A", "C"))

	got, err := GroupAndRank(ds, "Start Station")
	require.NoError(t, err)

	// B before C: both count 1, B appeared first.
	assert.Equal(t, []GroupCount{
		{Key: "A", Count: 3},
		{Key: "B", Count: 1},
		{Key: "C", Count: 1},
	}, got)
}

func TestGroupAndRankProperties(t *testing.T) {
	t.Parallel()
	ds := New(tripSchema(), stationRows(
		"Embarcadero", "Ferry Building", "Caltrain", "Ferry Building",
		"Embarcadero", "Ferry Building", "Caltrain", "Market St",
	))

	got, err := GroupAndRank(ds, "Start Station")
	require.NoError(t, err)

	total := 0
	for i, gc := range got {
		total += gc.Count
		if i > 0 {
			assert.LessOrEqual(t, gc.Count, got[i-1].Count)
		}
	}
	assert.Equal(t, ds.Len(), total)
}

func TestGroupAndRankEmptyDataset(t *testing.T) {
	t.Parallel()
	got, err := GroupAndRank(New(tripSchema(), nil), "Start Station")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestGroupAndRankMissingColumn(t *testing.T) {
	t.Parallel()
	_, err := GroupAndRank(New(tripSchema(), nil), "End Station")
	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, "End Station", schemaErr.Column)
}

func TestGroupAndRankNonStringKeys(t *testing.T) {
	t.Parallel()
	ds := New(tripSchema(), []Row{
		{"Duration": int64(60)},
		{"Duration": int64(120)},
		{"Duration": int64(60)},
	})

	got, err := GroupAndRank(ds, "Duration")
	require.NoError(t, err)
	assert.Equal(t, []GroupCount{{Key: "60", Count: 2}, {Key: "120", Count: 1}}, got)
}
