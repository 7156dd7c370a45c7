package coachserver

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/coachgolf/go_coach/internal/coach"
)

type SwingAnalysisInput struct {
	VideoPath string `json:"video_path" jsonschema:"Local path to a swing recording (mp4, mov, or avi)"`
	Prompt    string `json:"prompt,omitempty" jsonschema:"Extra instructions for the reviewer; defaults to the three-main-errors analysis"`
}

type SwingAnalysisOutput struct {
	Report string `json:"report"`
}

func registerSwingAnalysis(server *mcp.Server, c *coach.Coach) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "swing_analysis",
		Description: "Analyze a golf swing video. Uploads the recording for multimodal review (frame-by-frame grip, alignment, backswing and follow-through) and returns a coaching report. The remote copy is deleted after analysis. May take a minute on longer clips.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, input SwingAnalysisInput) (*mcp.CallToolResult, SwingAnalysisOutput, error) {
		if input.VideoPath == "" {
			return nil, SwingAnalysisOutput{}, fmt.Errorf("video_path is required")
		}

		report, err := c.AnalyzeSwing(ctx, input.VideoPath, input.Prompt)
		if err != nil {
			slog.Warn("swing_analysis error", slog.String("video", input.VideoPath), slog.Any("error", err))
			return nil, SwingAnalysisOutput{}, err
		}

		return nil, SwingAnalysisOutput{Report: report}, nil
	})
}
