package engine

import (
	"net/http"
	"time"

	"github.com/anatolykoptev/go-kit/llm"
)

// Config holds all engine configuration, injected from main.
type Config struct {
	LLMAPIKey          string
	LLMAPIKeyFallbacks []string
	LLMAPIBase         string
	LLMModel           string
	LLMTemperature     float64
	LLMMaxTokens       int

	// Native Gemini REST base (Files API + multimodal generateContent).
	// The chat path goes through the OpenAI-compatible LLMAPIBase instead.
	GeminiAPIBase string

	VideoPollInterval time.Duration // delay between Files API state polls
	VideoPollBudget   time.Duration // give up on PROCESSING after this long
	MaxVideoBytes     int64

	TranscriptLangs []string // preferred transcript languages, ranked
	FetchRate       float64  // transcript fetches per second (politeness)
	HistoryTurns    int      // prior chat turns folded into each prompt

	DataDir string // knowledge artifacts + session database

	HTTPClient *http.Client
	LLMClient  *llm.Client // nil = chat disabled
}

var cfg Config

// Cfg exposes the engine configuration for sub-packages (kb, coach, sources).
// Always points to the current cfg value.
var Cfg = &cfg

// Init initializes the engine with the given configuration.
func Init(c Config) {
	cfg = c
	Cfg = &cfg
}
