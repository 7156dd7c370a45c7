package kb

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/time/rate"

	"github.com/coachgolf/go_coach/internal/engine"
	"github.com/coachgolf/go_coach/internal/engine/sources"
)

// fetchTranscript is swappable for tests.
var fetchTranscript = sources.FetchTranscript

// FetchAll retrieves a transcript per configured video, sequentially and
// rate-limited. Empty langs falls back to the configured language
// ranking. A failed video is recorded with status=error and never
// aborts the rest of the batch; the single retry/fallback policy lives
// inside sources.FetchTranscript.
func FetchAll(ctx context.Context, videos []VideoSource, langs []string) map[string]TranscriptRecord {
	if len(langs) == 0 {
		langs = engine.Cfg.TranscriptLangs
	}
	perSec := engine.Cfg.FetchRate
	if perSec <= 0 {
		perSec = 1
	}
	limiter := rate.NewLimiter(rate.Limit(perSec), 1)

	records := make(map[string]TranscriptRecord, len(videos))
	for _, v := range videos {
		if err := limiter.Wait(ctx); err != nil {
			records[v.ID] = TranscriptRecord{Label: v.Label, Status: StatusError, Error: err.Error()}
			continue
		}

		tr, err := fetchTranscript(ctx, v.ID, langs)
		if err != nil {
			engine.IncrTranscriptErrors()
			records[v.ID] = TranscriptRecord{Label: v.Label, Status: StatusError, Error: err.Error()}
			slog.Warn("transcript fetch failed",
				slog.String("id", v.ID), slog.String("label", v.Label), slog.Any("error", err))
			continue
		}

		records[v.ID] = TranscriptRecord{
			Label:    v.Label,
			Status:   StatusOK,
			Language: tr.Language,
			Text:     tr.Text,
		}
		slog.Info("transcript fetched",
			slog.String("id", v.ID),
			slog.String("lang", tr.Language),
			slog.Int("chars", len(tr.Text)),
			slog.String("preview", engine.Truncate(tr.Text, 80)))
	}
	return records
}

// CountOK returns how many records fetched successfully.
func CountOK(records map[string]TranscriptRecord) int {
	n := 0
	for _, r := range records {
		if r.Status == StatusOK {
			n++
		}
	}
	return n
}

// SaveTranscripts persists the record mapping verbatim as JSON.
func SaveTranscripts(dir string, records map[string]TranscriptRecord) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal transcripts: %w", err)
	}
	path := filepath.Join(dir, TranscriptsFile)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// LoadTranscripts reads a previously persisted record mapping.
func LoadTranscripts(dir string) (map[string]TranscriptRecord, error) {
	path := filepath.Join(dir, TranscriptsFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var records map[string]TranscriptRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return records, nil
}
