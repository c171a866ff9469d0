package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carlosrabelo/ifpoll/domain/entities"
)

func TestObserveWalk(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveWalk("INDEX-DESC", entities.WalkOK, 20*time.Millisecond, 3)
	m.ObserveWalk("INDEX-DESC", entities.WalkOK, 10*time.Millisecond, 0)
	m.ObserveWalk("DEFAULT", entities.WalkSoftEmpty, time.Millisecond, 0)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.walks.WithLabelValues("INDEX-DESC", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.walks.WithLabelValues("DEFAULT", "soft_empty")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.skippedLines.WithLabelValues("INDEX-DESC")))
}

func TestObservePoll(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObservePoll(entities.PollResult{Target: "10.0.0.2", Interfaces: make([]entities.Interface, 4)})
	m.ObservePoll(entities.PollResult{Target: "10.0.0.3", Warnings: []string{"no such object"}})
	m.ObservePoll(entities.PollResult{Target: "10.0.0.4", Fatal: "timeout"})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.devices.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.devices.WithLabelValues("warning")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.devices.WithLabelValues("fatal")))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.interfaces.WithLabelValues("10.0.0.2", "physical")))
}

func TestWriteFile(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := New(registry)
	m.ObserveWalk("DotSplit", entities.WalkFatal, time.Second, 0)

	path := filepath.Join(t.TempDir(), "ifpoll.prom")
	require.NoError(t, WriteFile(path, registry))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `ifpoll_walks_total{grammar="DotSplit",outcome="fatal"} 1`)
}
