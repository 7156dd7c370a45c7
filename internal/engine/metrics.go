package engine

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// Metrics tracks operational counters across the engine.
var metrics struct {
	TranscriptRequests atomic.Int64
	TranscriptErrors   atomic.Int64
	RulesPages         atomic.Int64
	LLMCalls           atomic.Int64
	LLMErrors          atomic.Int64
	VideoUploads       atomic.Int64
	VideoUploadErrors  atomic.Int64
	Visits             atomic.Int64
}

// GetMetrics returns a snapshot of all counters.
func GetMetrics() map[string]int64 {
	return map[string]int64{
		"transcript_requests": metrics.TranscriptRequests.Load(),
		"transcript_errors":   metrics.TranscriptErrors.Load(),
		"rules_pages":         metrics.RulesPages.Load(),
		"llm_calls":           metrics.LLMCalls.Load(),
		"llm_errors":          metrics.LLMErrors.Load(),
		"video_uploads":       metrics.VideoUploads.Load(),
		"video_upload_errors": metrics.VideoUploadErrors.Load(),
		"visits":              metrics.Visits.Load(),
	}
}

// FormatMetrics returns metrics as a simple text format for the HTTP endpoint.
func FormatMetrics() string {
	m := GetMetrics()
	var sb strings.Builder
	keys := []string{
		"transcript_requests", "transcript_errors",
		"rules_pages",
		"llm_calls", "llm_errors",
		"video_uploads", "video_upload_errors",
		"visits",
	}
	for _, k := range keys {
		fmt.Fprintf(&sb, "%s %d\n", k, m[k])
	}
	return sb.String()
}

// Incrementors for sub-packages.
func IncrTranscriptRequests() { metrics.TranscriptRequests.Add(1) }
func IncrTranscriptErrors()   { metrics.TranscriptErrors.Add(1) }
func IncrLLMCalls()           { metrics.LLMCalls.Add(1) }
func IncrLLMErrors()          { metrics.LLMErrors.Add(1) }
func IncrVideoUploads()       { metrics.VideoUploads.Add(1) }
func IncrVideoUploadErrors()  { metrics.VideoUploadErrors.Add(1) }
func IncrVisits()             { metrics.Visits.Add(1) }

// AddRulesPages records how many PDF pages the rules extractor processed.
func AddRulesPages(n int) { metrics.RulesPages.Add(int64(n)) }
