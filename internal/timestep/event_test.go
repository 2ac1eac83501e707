package timestep

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	for _, k := range Kinds {
		got, err := ParseKind(string(k))
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}
	_, err := ParseKind("fixedupdate")
	assert.Error(t, err)
}

func TestParseOverrunPolicy(t *testing.T) {
	p, err := ParseOverrunPolicy("clamp")
	require.NoError(t, err)
	assert.Equal(t, OverrunClamp, p)

	_, err = ParseOverrunPolicy("pause")
	assert.Error(t, err)
}

func TestPayload_StopReasonSurvivesJSON(t *testing.T) {
	data, err := MarshalEvent(StopEvent{Reason: StopOverrun})
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"stop","reason":"overrun"}`, string(data))

	var p Payload
	require.NoError(t, json.Unmarshal(data, &p))
	ev, err := p.Event()
	require.NoError(t, err)
	assert.Equal(t, StopEvent{Reason: StopOverrun}, ev)
}

func TestPayload_RenderCarriesFrameNumber(t *testing.T) {
	p := ToPayload(RenderEvent{Delta: 20 * time.Millisecond, Frame: 7})
	assert.Equal(t, Payload{Kind: KindRender, Delta: 20 * time.Millisecond, Seq: 7}, p)

	_, err := Payload{Kind: "bogus"}.Event()
	assert.Error(t, err)
}
