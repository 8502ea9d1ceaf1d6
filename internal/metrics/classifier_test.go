package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPerTool(t *testing.T) {
	outcomes := []Outcome{
		{Expected: "flight_schedule", Predicted: "flight_schedule", Parsable: true},
		{Expected: "flight_schedule", Predicted: "flight_schedule", Parsable: true},
		{Expected: "flight_schedule", Predicted: "search_music", Parsable: true},
		{Expected: "search_music", Predicted: "search_music", Parsable: true},
		{Expected: "search_music", Predicted: "flight_schedule", Parsable: true},
	}

	perTool := PerTool(outcomes)
	require.Contains(t, perTool, "flight_schedule")
	require.Contains(t, perTool, "search_music")

	fs := perTool["flight_schedule"]
	assert.Equal(t, Confusion{TP: 2, FP: 1, FN: 1, TN: 1}, fs.Confusion)
	assert.InDelta(t, 2.0/3.0, fs.Precision, 1e-9)
	assert.InDelta(t, 2.0/3.0, fs.Recall, 1e-9)
	assert.InDelta(t, 2.0/3.0, fs.F1, 1e-9)
	assert.InDelta(t, 0.5, fs.FalseAlarmRate, 1e-9)

	sm := perTool["search_music"]
	assert.Equal(t, Confusion{TP: 1, FP: 1, FN: 1, TN: 2}, sm.Confusion)
}

func TestPerTool_UnseenPrediction(t *testing.T) {
	outcomes := []Outcome{
		{Expected: "create_note", Predicted: "search_notes", Parsable: true},
	}
	perTool := PerTool(outcomes)
	require.Contains(t, perTool, "search_notes")
	assert.Equal(t, Confusion{FP: 1}, perTool["search_notes"].Confusion)
	assert.Equal(t, Confusion{FN: 1}, perTool["create_note"].Confusion)
}

func TestAccuracy(t *testing.T) {
	assert.InDelta(t, 0.0, Accuracy(nil), 1e-9)
	outcomes := []Outcome{
		{Expected: "a", Predicted: "a"},
		{Expected: "a", Predicted: "b"},
		{Expected: "b", Predicted: "b"},
		{Expected: "c", Predicted: "c"},
	}
	assert.InDelta(t, 0.75, Accuracy(outcomes), 1e-9)
}

func TestParsableRate(t *testing.T) {
	outcomes := []Outcome{
		{Expected: "a", Predicted: "a", Parsable: true},
		{Expected: "a", Predicted: "b", Parsable: true},
		{Expected: "b", Predicted: "x", Parsable: false},
		// No prediction at all is not counted as an invocation.
		{Expected: "c", Predicted: ""},
	}
	assert.InDelta(t, 2.0/3.0, ParsableRate(outcomes), 1e-9)
	assert.InDelta(t, 0.0, ParsableRate(nil), 1e-9)
}
