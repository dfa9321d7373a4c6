// x/logx/logx_test.go
package logx

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLevelAndFields(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "warn", Output: &buf, Service: "blinky-test"})
	l.Info().Msg("hidden")
	l.Warn().Str("k", "v").Msg("shown")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "shown", rec["message"])
	assert.Equal(t, "blinky-test", rec["service"])
	assert.Equal(t, "v", rec["k"])
}

func TestBadLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "loud", Output: &buf})
	l.Debug().Msg("hidden")
	assert.Zero(t, buf.Len())
	l.Info().Msg("shown")
	assert.NotZero(t, buf.Len())
}

func TestWithComponent(t *testing.T) {
	l := WithComponent("dispatch")
	// The global logger writes to stderr; only check the child is usable.
	assert.NotPanics(t, func() { l.Debug().Msg("x") })
}
