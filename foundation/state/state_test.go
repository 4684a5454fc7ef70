package state_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/superfeelapi/goVeritas/foundation/state"
)

func TestState(t *testing.T) {
	s := state.NewState()
	assert.True(t, s.Get(state.Redis))
	assert.True(t, s.Get(state.Feed))

	s.Set(state.Redis, false)
	assert.False(t, s.Get(state.Redis))
	assert.Equal(t, map[string]bool{"redis": false, "feed": true, "grpc": true}, s.Snapshot())

	assert.False(t, s.Get(state.Service(42)))
	assert.Equal(t, "unknown", state.Service(42).String())
}
