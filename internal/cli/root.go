// Package cli implements the kbuild pipeline commands: transcripts,
// rules, assemble, and all.
package cli

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/coachgolf/go_coach/internal/engine"
	"github.com/coachgolf/go_coach/internal/kb"
)

var (
	dataDir    string
	videosPath string
	langsFlag  string
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "kbuild",
	Short: "Build the coach's knowledge base",
	Long: "kbuild assembles the golf coach knowledge base: it fetches YouTube\n" +
		"transcripts for the coaching playlist, extracts the Pitch&Putt rules PDF,\n" +
		"and merges both into knowledge.json for the coach server.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		engine.Init(engine.Config{
			TranscriptLangs: splitLangs(langsFlag),
			FetchRate:       1,
			HTTPClient: &http.Client{
				Timeout: 15 * time.Second,
			},
		})
	},
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&dataDir, "dir", "d", ".", "Directory for pipeline artifacts (transcripts.json, rules.txt, knowledge.json)")
	RootCmd.PersistentFlags().StringVar(&videosPath, "videos", "", "JSON file with the ordered video list (default: built-in playlist)")
	RootCmd.PersistentFlags().StringVar(&langsFlag, "langs", strings.Join(kb.DefaultLangs, ","), "Ranked transcript language preference, comma-separated")
}

func splitLangs(s string) []string {
	var langs []string
	for _, l := range strings.Split(s, ",") {
		if l = strings.TrimSpace(l); l != "" {
			langs = append(langs, l)
		}
	}
	if len(langs) == 0 {
		return kb.DefaultLangs
	}
	return langs
}

// loadVideos returns the configured video list, built-in unless overridden.
func loadVideos() ([]kb.VideoSource, error) {
	if videosPath == "" {
		return kb.DefaultVideos, nil
	}
	return kb.LoadVideos(videosPath)
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
