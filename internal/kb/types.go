// Package kb builds the coach's knowledge base: it fetches YouTube
// transcripts, extracts the Pitch&Putt rules PDF, and assembles both
// into the single knowledge asset the coach runtime loads at startup.
package kb

// TranscriptRecord status values.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// VideoSource identifies one configured source video.
type VideoSource struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// TranscriptRecord is the fetch outcome for one video. Created once by
// the fetcher, never mutated, persisted keyed by video id.
type TranscriptRecord struct {
	Label    string `json:"label,omitempty"`
	Status   string `json:"status"`
	Language string `json:"lang,omitempty"`
	Text     string `json:"text,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Asset is the final consumable unit: the merged knowledge text plus the
// fixed persona instruction. Immutable once built; persisted as plain
// JSON so no loader ever evaluates knowledge content as code.
type Asset struct {
	Knowledge         string `json:"knowledge"`
	SystemInstruction string `json:"system_instruction"`
}

// Artifact file names within the pipeline data directory.
const (
	TranscriptsFile = "transcripts.json"
	RulesFile       = "rules.txt"
	AssetFile       = "knowledge.json"
)
