package airtable_timeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCSV = "\ufeffTitle,Start,Image,Featured,Order\n" +
	"Gala,2024-05-01,\"poster.png (https://dl.example.com/poster.png),back.png (https://dl.example.com/back.png)\",checked,2\n" +
	",,,,\n" +
	"Fair,2024-06-01,,,\n"

func TestSourceCSV_ReadAll(t *testing.T) {
	source, err := NewSourceCSV(ConfigSourceCSV{File: strings.NewReader(testCSV)})
	require.NoError(t, err)

	records, err := source.ReadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 3)

	gala := Normalize(records[0])
	assert.Equal(t, "Gala", gala.Title)
	require.NotNil(t, gala.Image)
	assert.Equal(t, "https://dl.example.com/poster.png", *gala.Image)
	assert.True(t, gala.Featured)
	require.NotNil(t, gala.Order)
	assert.Equal(t, 2.0, *gala.Order)
	assert.True(t, strings.HasSuffix(records[0].ID, "@csv"))

	assert.Empty(t, records[1].Fields)
	assert.NotEqual(t, records[0].ID, records[2].ID)

	fair := Normalize(records[2])
	assert.False(t, fair.Featured)
	assert.Nil(t, fair.Image)
}

func TestSourceCSV_StableIDs(t *testing.T) {
	read := func() []RawRecord {
		source, err := NewSourceCSV(ConfigSourceCSV{File: strings.NewReader(testCSV)})
		require.NoError(t, err)
		records, err := source.ReadAll(context.Background())
		require.NoError(t, err)
		return records
	}

	first, second := read(), read()
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
	}
}

func TestSourceCSV_Path(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Events-Grid view.csv")
	require.NoError(t, os.WriteFile(path, []byte(testCSV), 0o644))

	source, err := NewSourceCSV(ConfigSourceCSV{Path: path})
	require.NoError(t, err)
	assert.Equal(t, "Events-Grid view", source.Name())

	records, err := source.ReadAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestSourceCSV_Errors(t *testing.T) {
	_, err := NewSourceCSV(ConfigSourceCSV{})
	assert.ErrorIs(t, err, ErrMissingConfig)

	source, err := NewSourceCSV(ConfigSourceCSV{Path: filepath.Join(t.TempDir(), "missing.csv")})
	require.NoError(t, err)
	_, err = source.ReadAll(context.Background())
	assert.ErrorIs(t, err, ErrCSVRead)

	source, err = NewSourceCSV(ConfigSourceCSV{File: strings.NewReader("")})
	require.NoError(t, err)
	_, err = source.ReadAll(context.Background())
	assert.ErrorIs(t, err, ErrCSVRead)
}
