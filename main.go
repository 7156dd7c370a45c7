// go_coach — knowledge-grounded golf coaching MCP server.
//
// Exposes three MCP tools: coach_ask, swing_analysis, kb_status.
// Chat answers are grounded in the knowledge asset built by cmd/kbuild
// (YouTube transcripts + Pitch&Putt normativa); swing analysis uploads
// a video to the Gemini Files API and returns the model's report.
package main

import (
	"log/slog"
	"net/http"
	"path/filepath"
	"time"

	"github.com/anatolykoptev/go-kit/env"
	"github.com/anatolykoptev/go-kit/llm"
	"github.com/anatolykoptev/go-mcpserver"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/coachgolf/go_coach/internal/coach"
	"github.com/coachgolf/go_coach/internal/coachserver"
	"github.com/coachgolf/go_coach/internal/engine"
	"github.com/coachgolf/go_coach/internal/kb"
)

var (
	version = "dev"
	mcpPort = env.Str("MCP_PORT", "8893")
)

func main() {
	initEngine()

	dataDir := engine.Cfg.DataDir

	asset, err := kb.LoadAsset(dataDir)
	if err != nil {
		slog.Error("knowledge asset unreadable", slog.Any("error", err))
		return
	}
	if asset.Knowledge == "" {
		slog.Warn("no knowledge asset found, answering from general knowledge only",
			slog.String("dir", dataDir))
	} else {
		slog.Info("knowledge asset loaded",
			slog.Int("knowledge_chars", len(asset.Knowledge)))
	}

	store, err := coach.OpenStore(filepath.Join(dataDir, "coach.db"))
	if err != nil {
		slog.Error("session store init failed", slog.Any("error", err))
		return
	}
	defer store.Close()

	c := coach.New(asset, store)

	slog.Info("starting go_coach", slog.String("port", mcpPort))

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "go_coach",
		Version: version,
	}, nil)

	coachserver.RegisterTools(server, c, dataDir)
	slog.Info("tools registered", slog.Int("count", 3))

	if err := mcpserver.Run(server, mcpserver.Config{
		Name:         "go_coach",
		Version:      version,
		Port:         mcpPort,
		WriteTimeout: 600 * time.Second,
		Metrics:      engine.FormatMetrics,
	}); err != nil {
		slog.Error("server failed", slog.Any("error", err))
	}
}

func initEngine() {
	c := engine.Config{
		LLMAPIKey:          env.Str("LLM_API_KEY", ""),
		LLMAPIKeyFallbacks: env.List("LLM_API_KEY_FALLBACKS", ""),
		LLMAPIBase:         env.Str("LLM_API_BASE", "https://generativelanguage.googleapis.com/v1beta/openai"),
		LLMModel:           env.Str("LLM_MODEL", "gemini-2.5-flash"),
		LLMTemperature:     env.Float("LLM_TEMPERATURE", 0.4),
		LLMMaxTokens:       env.Int("LLM_MAX_TOKENS", 8192),

		GeminiAPIBase:     env.Str("GEMINI_API_BASE", "https://generativelanguage.googleapis.com"),
		VideoPollInterval: env.Duration("VIDEO_POLL_INTERVAL", 2*time.Second),
		VideoPollBudget:   env.Duration("VIDEO_POLL_BUDGET", 5*time.Minute),
		MaxVideoBytes:     int64(env.Int("MAX_VIDEO_MB", 200)) * 1024 * 1024,

		TranscriptLangs: env.List("TRANSCRIPT_LANGS", "es,ca,en"),
		FetchRate:       env.Float("TRANSCRIPT_FETCH_RATE", 1),
		HistoryTurns:    env.Int("CHAT_HISTORY_TURNS", 10),

		DataDir: env.Str("COACH_DATA_DIR", "."),

		HTTPClient: &http.Client{
			Timeout: 60 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     60 * time.Second,
			},
		},
	}

	if c.LLMAPIKey == "" {
		slog.Warn("LLM_API_KEY not set, chat and video analysis will fail")
	} else {
		c.LLMClient = llm.NewClient(c.LLMAPIBase, c.LLMAPIKey, c.LLMModel,
			llm.WithFallbackKeys(c.LLMAPIKeyFallbacks),
			llm.WithMaxTokens(c.LLMMaxTokens),
			llm.WithTemperature(c.LLMTemperature),
			llm.WithHTTPClient(&http.Client{Timeout: 120 * time.Second}),
		)
	}

	engine.Init(c)
}
