package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_ObserveReaction(t *testing.T) {
	reg := prometheus.NewRegistry()
	r, err := NewRecorder(reg, "love")
	require.NoError(t, err)

	r.ObserveReaction(OpReact, ResultApplied)
	r.ObserveReaction(OpReact, ResultApplied)
	r.ObserveReaction(OpUnreact, ResultNoop)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.reactions.WithLabelValues(OpReact, ResultApplied)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.reactions.WithLabelValues(OpUnreact, ResultNoop)))
}

func TestRecorder_ObserveRecount(t *testing.T) {
	reg := prometheus.NewRegistry()
	r, err := NewRecorder(reg, "love")
	require.NoError(t, err)

	r.ObserveRecount(3, 1, 20*time.Millisecond)

	assert.Equal(t, 3.0, testutil.ToFloat64(r.recountReactants.WithLabelValues(ResultRecounted)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.recountReactants.WithLabelValues(ResultFailed)))
	assert.Equal(t, 1, testutil.CollectAndCount(r.recountDuration))
}

func TestNewRecorder_ReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewRecorder(reg, "love")
	require.NoError(t, err)
	second, err := NewRecorder(reg, "love")
	require.NoError(t, err)

	first.ObserveReaction(OpReact, ResultApplied)
	second.ObserveReaction(OpReact, ResultApplied)

	assert.Equal(t, 2.0, testutil.ToFloat64(first.reactions.WithLabelValues(OpReact, ResultApplied)))
}

func TestRecorder_NilIsNoop(t *testing.T) {
	var r *Recorder
	assert.NotPanics(t, func() {
		r.ObserveReaction(OpReact, ResultError)
		r.ObserveRecount(1, 0, time.Second)
	})
}

func TestWriteTextfile(t *testing.T) {
	reg := prometheus.NewRegistry()
	r, err := NewRecorder(reg, "love")
	require.NoError(t, err)
	r.ObserveRecount(5, 0, time.Second)

	path := filepath.Join(t.TempDir(), "love.prom")
	require.NoError(t, WriteTextfile(path, reg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), `love_recount_reactants_total{result="recounted"} 5`), string(data))
}
