package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-trip-pipeline/internal/dataset"
	"go-trip-pipeline/internal/model"
)

func tripSource(t *testing.T, name, content, srcType string) model.Source {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return model.Source{
		Type: srcType,
		URL:  path,
		Schema: []model.FieldSpec{
			{Name: "Duration", Type: "int"},
			{Name: "Start Station", Type: "string"},
			{Name: "Start Date", Type: "string"},
		},
	}
}

func TestIngestNDJSON(t *testing.T) {
	t.Parallel()
	content := `{"Duration": 63, "Start Station": "South Van Ness", "Start Date": "8/29/2013 14:13"}
{"Duration": 7200, "Start Station": "Embarcadero", "Start Date": "8/29/2013 14:42"}
{"Duration": 1500, "Start Station": "Embarcadero", "Start Date": "8/30/2013 09:01"}
`
	src := tripSource(t, "trips.json", content, "ndjson")

	ds, err := Ingest(context.Background(), src, 0)
	require.NoError(t, err)

	assert.Equal(t, 3, ds.Len())
	rows := ds.Rows()
	assert.Equal(t, int64(63), rows[0]["Duration"])
	assert.Equal(t, "South Van Ness", rows[0]["Start Station"])
	assert.Equal(t, "Embarcadero", rows[2]["Start Station"])

	f, ok := ds.Schema().Field("Duration")
	require.True(t, ok)
	assert.Equal(t, dataset.Int, f.Type)
}

func TestIngestSkipsInvalidRecords(t *testing.T) {
	t.Parallel()
	content := `{"Duration": 63, "Start Station": "A", "Start Date": "8/29/2013 14:13"}
{"Start Station": "missing duration", "Start Date": "8/29/2013 14:13"}
{"Duration": "not a number", "Start Station": "B", "Start Date": "8/29/2013 14:13"}
{"Duration": 99, "Start Station": "C", "Start Date": "8/29/2013 15:00"}
`
	src := tripSource(t, "trips.json", content, "ndjson")

	ds, err := Ingest(context.Background(), src, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, ds.Len())
}

func TestIngestCSV(t *testing.T) {
	t.Parallel()
	content := `Duration,Start Station,Start Date
63,South Van Ness,8/29/2013 14:13
1500,Embarcadero,8/30/2013 09:01
`
	src := tripSource(t, "trips.csv", content, "csv")

	ds, err := Ingest(context.Background(), src, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, ds.Len())
	assert.Equal(t, int64(1500), ds.Rows()[1]["Duration"])
}

func TestIngestErrors(t *testing.T) {
	t.Parallel()

	_, err := Ingest(context.Background(), model.Source{
		Type:   "ndjson",
		URL:    filepath.Join(t.TempDir(), "missing.json"),
		Schema: []model.FieldSpec{{Name: "Duration", Type: "int"}},
	}, 0)
	require.Error(t, err)

	src := tripSource(t, "trips.json", "{}", "xml")
	_, err = Ingest(context.Background(), src, 0)
	assert.ErrorContains(t, err, "unknown source type")

	badSchema := tripSource(t, "trips2.json", "{}", "ndjson")
	badSchema.Schema = []model.FieldSpec{{Name: "Duration", Type: "decimal"}}
	_, err = Ingest(context.Background(), badSchema, 0)
	assert.ErrorContains(t, err, "unknown column type")
}

func TestValidateRecord(t *testing.T) {
	t.Parallel()
	schema := dataset.Schema{
		{Name: "Duration", Type: dataset.Int},
		{Name: "Start Station", Type: dataset.String},
	}

	row, err := validateRecord(rawRecord{"Duration": float64(63), "Start Station": "A", "extra": true}, schema)
	require.NoError(t, err)
	assert.Equal(t, dataset.Row{"Duration": int64(63), "Start Station": "A"}, row)

	_, err = validateRecord(rawRecord{"Start Station": "A"}, schema)
	assert.ErrorContains(t, err, "missing required field")

	_, err = validateRecord(rawRecord{"Duration": "oops", "Start Station": "A"}, schema)
	assert.ErrorContains(t, err, "Duration")
}
