package kb

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testVideos = []VideoSource{
	{ID: "id1", Label: "Video 1"},
	{ID: "id2", Label: "Video 2"},
	{ID: "id3", Label: "Video 3"},
}

func testRecords() map[string]TranscriptRecord {
	return map[string]TranscriptRecord{
		"id1": {Status: StatusOK, Language: "es", Text: "hello"},
		"id2": {Status: StatusError, Error: "no captions"},
		"id3": {Status: StatusOK, Language: "ca", Text: "world"},
	}
}

func TestAssembleExpectedLayout(t *testing.T) {
	asset := Assemble(testVideos, testRecords(), "Rule A")

	want := "=== Video 1 (https://youtu.be/id1) ===\nhello\n\n" +
		"=== Video 3 (https://youtu.be/id3) ===\nworld\n\n" +
		"=== NORMATIVA ===\nRule A"
	assert.Equal(t, want, asset.Knowledge)
	assert.NotEmpty(t, asset.SystemInstruction)
}

func TestAssembleDeterministic(t *testing.T) {
	first := Assemble(testVideos, testRecords(), "Rule A")
	for i := 0; i < 20; i++ {
		again := Assemble(testVideos, testRecords(), "Rule A")
		require.Equal(t, first, again, "run %d differs", i)
	}
}

func TestAssembleOrderFollowsConfiguration(t *testing.T) {
	// Flip the configured order; sections must follow it, not the
	// record map's iteration order.
	reversed := []VideoSource{testVideos[2], testVideos[1], testVideos[0]}
	asset := Assemble(reversed, testRecords(), "")

	i3 := strings.Index(asset.Knowledge, "Video 3")
	i1 := strings.Index(asset.Knowledge, "Video 1")
	require.NotEqual(t, -1, i3)
	require.NotEqual(t, -1, i1)
	assert.Less(t, i3, i1)
	assert.NotContains(t, asset.Knowledge, "Video 2")
}

func TestAssembleRulesPlacement(t *testing.T) {
	t.Run("rules always last", func(t *testing.T) {
		asset := Assemble(testVideos, testRecords(), "Rule A")
		idx := strings.Index(asset.Knowledge, "=== NORMATIVA ===")
		require.NotEqual(t, -1, idx)
		assert.NotContains(t, asset.Knowledge[idx:], "Video ")
	})

	t.Run("no rules section when empty", func(t *testing.T) {
		asset := Assemble(testVideos, testRecords(), "")
		assert.NotContains(t, asset.Knowledge, "NORMATIVA")
		assert.True(t, strings.HasSuffix(asset.Knowledge, "world"))
	})
}

func TestAssembleSkipsUnknownAndFailed(t *testing.T) {
	records := map[string]TranscriptRecord{
		"id1": {Status: StatusError, Error: "boom"},
		// id2, id3 missing entirely
	}
	asset := Assemble(testVideos, records, "")
	assert.Empty(t, asset.Knowledge)
	assert.NotEmpty(t, asset.SystemInstruction)
}

// Content that looks like code or markup must ride through assembly and
// JSON persistence as opaque text without disturbing structure.
func TestAssembleHostileContentStaysOpaque(t *testing.T) {
	hostile := "\"; DROP TABLE x; {\"k\": \"v\"} ```python\nimport os\nos.system('rm -rf /')``` '''"
	records := map[string]TranscriptRecord{
		"id1": {Status: StatusOK, Text: hostile},
	}
	asset := Assemble(testVideos[:1], records, "{{rules}} \"quoted\" \\escaped\\")

	data, err := json.Marshal(asset)
	require.NoError(t, err)

	var back Asset
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, asset, back)
	assert.Contains(t, back.Knowledge, hostile)
}
