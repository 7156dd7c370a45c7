package coachserver

import (
	"context"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/coachgolf/go_coach/internal/coach"
	"github.com/coachgolf/go_coach/internal/kb"
)

type KBStatusInput struct{}

type KBStatusOutput struct {
	Loaded         bool `json:"loaded"`
	KnowledgeChars int  `json:"knowledge_chars"`
	Videos         int  `json:"videos"`
	VideosOK       int  `json:"videos_ok"`
	VideosFailed   int  `json:"videos_failed"`
}

func registerKBStatus(server *mcp.Server, c *coach.Coach, dataDir string) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "kb_status",
		Description: "Report the state of the coach's knowledge base: whether an asset is loaded and, if the pipeline artifacts are present, how many video transcripts fetched successfully. Useful for checking whether kbuild needs a re-run.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, req *mcp.CallToolRequest, input KBStatusInput) (*mcp.CallToolResult, KBStatusOutput, error) {
		out := KBStatusOutput{Loaded: c.HasKnowledge()}

		asset, err := kb.LoadAsset(dataDir)
		if err != nil {
			slog.Warn("kb_status: asset unreadable", slog.Any("error", err))
		} else {
			out.KnowledgeChars = len(asset.Knowledge)
		}

		records, err := kb.LoadTranscripts(dataDir)
		if err == nil {
			out.Videos = len(records)
			out.VideosOK = kb.CountOK(records)
			out.VideosFailed = out.Videos - out.VideosOK
		}

		return nil, out, nil
	})
}
