package coachserver

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/coachgolf/go_coach/internal/coach"
)

type CoachAskInput struct {
	Question  string `json:"question" jsonschema:"Technique or rules question for the golf coach (e.g. com evito l'slice?)"`
	SessionID string `json:"session_id,omitempty" jsonschema:"Conversation id from a previous answer; omit to start a new conversation"`
}

type CoachAskOutput struct {
	Answer    string `json:"answer"`
	SessionID string `json:"session_id"`
	Lang      string `json:"lang,omitempty"`
}

func registerCoachAsk(server *mcp.Server, c *coach.Coach) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "coach_ask",
		Description: "Ask the golf coach a question about technique, swing, stance, grip, or Pitch&Putt rules. Answers are grounded in the coaching video transcripts and the normativa document; anything outside them is answered from general golf knowledge and flagged as such. Pass session_id back to continue a conversation.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, req *mcp.CallToolRequest, input CoachAskInput) (*mcp.CallToolResult, CoachAskOutput, error) {
		if input.Question == "" {
			return nil, CoachAskOutput{}, fmt.Errorf("question is required")
		}

		ans, err := c.Ask(ctx, input.SessionID, input.Question)
		if err != nil {
			slog.Warn("coach_ask error", slog.Any("error", err))
			return nil, CoachAskOutput{}, err
		}

		return nil, CoachAskOutput{
			Answer:    ans.Text,
			SessionID: ans.SessionID,
			Lang:      ans.Lang,
		}, nil
	})
}
