package dataset

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func eventRow(station, date string) Row {
	return Row{"Start Station": station, "Start Date": date}
}

func utcDay(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestResampleDailyZeroFill(t *testing.T) {
	t.Parallel()
	ds := New(tripSchema(), []Row{
		eventRow("X", "2024-01-01 08:30"),
		eventRow("X", "2024-01-03 17:05"),
	})

	series, failed, err := ResampleDaily(ds, "Start Date", "Start Station", []string{"X"})
	require.NoError(t, err)
	assert.Empty(t, failed)

	require.Contains(t, series, "X")
	assert.Equal(t, []DateCount{
		{Date: utcDay(2024, time.January, 1), Count: 1},
		{Date: utcDay(2024, time.January, 2), Count: 0},
		{Date: utcDay(2024, time.January, 3), Count: 1},
	}, series["X"].Buckets)
}

func TestResampleDailyContiguousAndConserving(t *testing.T) {
	t.Parallel()
	ds := New(tripSchema(), []Row{
		eventRow("Embarcadero", "8/29/2013 14:13"),
		eventRow("Embarcadero", "8/29/2013 18:02"),
		eventRow("Embarcadero", "9/2/2013 09:40"),
		eventRow("Caltrain", "8/30/2013 07:55"),
	})

	series, failed, err := ResampleDaily(ds, "Start Date", "Start Station", []string{"Embarcadero", "Caltrain"})
	require.NoError(t, err)
	assert.Empty(t, failed)

	emb := series["Embarcadero"]
	require.Len(t, emb.Buckets, 5) // Aug 29 .. Sep 2 inclusive
	for i := 1; i < len(emb.Buckets); i++ {
		assert.Equal(t, emb.Buckets[i-1].Date.AddDate(0, 0, 1), emb.Buckets[i].Date)
	}
	assert.Equal(t, 3, emb.Total())

	cal := series["Caltrain"]
	require.Len(t, cal.Buckets, 1)
	assert.Equal(t, 1, cal.Total())
}

func TestResampleDailyTimeTypedColumn(t *testing.T) {
	t.Parallel()
	schema := Schema{
		{Name: "Start Station", Type: String},
		{Name: "Start Date", Type: Time},
	}
	ds := New(schema, []Row{
		{"Start Station": "X", "Start Date": time.Date(2024, time.March, 1, 23, 59, 0, 0, time.UTC)},
		{"Start Station": "X", "Start Date": time.Date(2024, time.March, 1, 0, 1, 0, 0, time.UTC)},
	})

	series, failed, err := ResampleDaily(ds, "Start Date", "Start Station", []string{"X"})
	require.NoError(t, err)
	assert.Empty(t, failed)
	require.Len(t, series["X"].Buckets, 1)
	assert.Equal(t, 2, series["X"].Buckets[0].Count)
}

func TestResampleDailyPartialFailure(t *testing.T) {
	t.Parallel()
	ds := New(tripSchema(), []Row{
		eventRow("Good", "2024-01-01 10:00"),
		eventRow("Bad", "not a timestamp"),
		eventRow("Good", "2024-01-02 10:00"),
	})

	series, failed, err := ResampleDaily(ds, "Start Date", "Start Station", []string{"Bad", "Good"})
	require.NoError(t, err)

	// The malformed entity fails alone; the rest still resolves.
	require.Contains(t, failed, "Bad")
	var parseErr *ParseError
	require.ErrorAs(t, failed["Bad"], &parseErr)
	assert.Equal(t, "not a timestamp", parseErr.Value)

	require.Contains(t, series, "Good")
	assert.Equal(t, 2, series["Good"].Total())
	assert.NotContains(t, series, "Bad")
}

func TestResampleDailyUnknownEntity(t *testing.T) {
	t.Parallel()
	ds := New(tripSchema(), []Row{eventRow("X", "2024-01-01")})

	series, failed, err := ResampleDaily(ds, "Start Date", "Start Station", []string{"Y"})
	require.NoError(t, err)
	assert.Empty(t, failed)
	assert.Empty(t, series)
}

func TestResampleDailySchemaErrors(t *testing.T) {
	t.Parallel()
	ds := New(tripSchema(), nil)

	var schemaErr *SchemaError
	_, _, err := ResampleDaily(ds, "End Date", "Start Station", nil)
	require.ErrorAs(t, err, &schemaErr)

	_, _, err = ResampleDaily(ds, "Start Date", "End Station", nil)
	require.ErrorAs(t, err, &schemaErr)

	_, _, err = ResampleDaily(ds, "Duration", "Start Station", nil)
	require.ErrorAs(t, err, &schemaErr)
}
