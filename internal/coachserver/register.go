// Package coachserver registers the coach's MCP tools: coach_ask,
// swing_analysis, and kb_status.
package coachserver

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/coachgolf/go_coach/internal/coach"
)

// RegisterTools registers all coach tools on the given MCP server.
func RegisterTools(server *mcp.Server, c *coach.Coach, dataDir string) {
	registerCoachAsk(server, c)
	registerSwingAnalysis(server, c)
	registerKBStatus(server, c, dataDir)
}
