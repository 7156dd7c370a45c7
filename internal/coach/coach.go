// Package coach is the assistant runtime: chat grounded in the built
// knowledge asset, and swing video analysis through the Gemini Files
// API. The knowledge asset is loaded once at startup and treated as an
// opaque context string — never interpreted or executed.
package coach

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/coachgolf/go_coach/internal/engine"
	"github.com/coachgolf/go_coach/internal/kb"
)

// ErrQuotaExhausted marks an API quota failure (HTTP 429) so callers can
// show the "wait a few minutes" message instead of a generic error.
var ErrQuotaExhausted = errors.New("quota esgotada, espera uns minuts i torna-ho a intentar")

// knowledgeSeparator joins the persona instruction with the video corpus,
// same shape the original app fed the model.
const knowledgeSeparator = "\n\n---\nCONTINGUT DELS VIDEOS:\n"

// Answer is a completed chat turn.
type Answer struct {
	SessionID string `json:"session_id"`
	Text      string `json:"answer"`
	Lang      string `json:"lang,omitempty"` // detected question language hint, best-effort
}

// Coach answers technique and regulation questions against the knowledge
// asset and keeps per-session history in the store.
type Coach struct {
	asset kb.Asset
	store *Store
}

// New builds a Coach from a loaded knowledge asset. A zero asset is
// valid: the coach answers from general knowledge with no grounding.
func New(asset kb.Asset, store *Store) *Coach {
	return &Coach{asset: asset, store: store}
}

// HasKnowledge reports whether a knowledge base was loaded.
func (c *Coach) HasKnowledge() bool {
	return c.asset.Knowledge != ""
}

// systemPrompt combines the persona instruction with the knowledge text.
func (c *Coach) systemPrompt() string {
	instruction := c.asset.SystemInstruction
	if instruction == "" {
		instruction = kb.SystemInstruction
	}
	if c.asset.Knowledge == "" {
		return instruction
	}
	return instruction + knowledgeSeparator + c.asset.Knowledge
}

// Ask answers one question within a session. An empty sessionID starts a
// new session; new sessions count as visits.
func (c *Coach) Ask(ctx context.Context, sessionID, question string) (Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return Answer{}, errors.New("question is empty")
	}

	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	created, err := c.store.EnsureSession(sessionID)
	if err != nil {
		return Answer{}, err
	}
	if created {
		if err := c.store.RecordVisit(); err != nil {
			slog.Warn("visit not recorded", slog.Any("error", err))
		}
	}

	turns := engine.Cfg.HistoryTurns
	if turns <= 0 {
		turns = 10
	}
	history, err := c.store.RecentMessages(sessionID, turns*2)
	if err != nil {
		return Answer{}, err
	}

	lang := responseLangHint(question)
	prompt := buildPrompt(history, question, lang)

	answer, err := engine.CallLLM(ctx, c.systemPrompt(), prompt)
	if err != nil {
		if engine.IsQuotaErr(err) {
			return Answer{}, fmt.Errorf("%w: %v", ErrQuotaExhausted, err)
		}
		return Answer{}, fmt.Errorf("coach ask: %w", err)
	}

	// History writes are best-effort: a storage hiccup must not eat an
	// answer that was already generated.
	if err := c.store.AppendMessage(sessionID, "user", question); err != nil {
		slog.Warn("history write failed", slog.Any("error", err))
	}
	if err := c.store.AppendMessage(sessionID, "assistant", answer); err != nil {
		slog.Warn("history write failed", slog.Any("error", err))
	}

	return Answer{SessionID: sessionID, Text: answer, Lang: lang}, nil
}

// buildPrompt folds prior turns and the language hint into one prompt.
// The model sees the knowledge base through the system prompt; this is
// only the conversational surface.
func buildPrompt(history []Message, question, lang string) string {
	var sb strings.Builder
	for _, m := range history {
		switch m.Role {
		case "user":
			sb.WriteString("Usuari: ")
		case "assistant":
			sb.WriteString("Entrenador: ")
		default:
			continue
		}
		sb.WriteString(m.Content)
		sb.WriteString("\n")
	}
	if sb.Len() > 0 {
		sb.WriteString("\n")
	}
	sb.WriteString("Usuari: ")
	sb.WriteString(question)
	if lang != "" {
		sb.WriteString("\n\n(Respon en ")
		sb.WriteString(lang)
		sb.WriteString(".)")
	}
	return sb.String()
}
