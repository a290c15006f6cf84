package airtable_timeline

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_ObserveSync(t *testing.T) {
	m := NewMetrics()
	m.ObservePage(100)
	m.ObservePage(3)
	m.observeSync(Stats{Records: 103, Events: 100, Dropped: 3}, time.Unix(1714550400, 0), 1500*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.PagesFetched))
	assert.Equal(t, 103.0, testutil.ToFloat64(m.RecordsFetched))
	assert.Equal(t, 100.0, testutil.ToFloat64(m.EventsWritten))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.EventsDropped))
	assert.Equal(t, 1714550400.0, testutil.ToFloat64(m.LastSuccess))
	assert.Equal(t, 1.5, testutil.ToFloat64(m.Duration))

	count, err := testutil.GatherAndCount(m.Gatherer())
	require.NoError(t, err)
	assert.Equal(t, 6, count)
}

func TestMetrics_WriteTextfile(t *testing.T) {
	m := NewMetrics()
	m.observeSync(Stats{Records: 2, Events: 1, Dropped: 1}, time.Unix(10, 0), time.Second)

	path := filepath.Join(t.TempDir(), "airtable_timeline.prom")
	require.NoError(t, m.WriteTextfile(path))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "airtable_timeline_events_written 1")
	assert.Contains(t, string(b), "airtable_timeline_events_dropped 1")
	assert.Contains(t, string(b), "# TYPE airtable_timeline_records_fetched gauge")
}
