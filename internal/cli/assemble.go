package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/coachgolf/go_coach/internal/kb"
)

var assembleCmd = &cobra.Command{
	Use:   "assemble",
	Short: "Merge transcripts and rules into knowledge.json",
	Long: "Builds the knowledge asset from the persisted transcripts and rules\n" +
		"artifacts: one section per fetched video in playlist order, then the\n" +
		"normativa section. The asset is plain JSON the coach server loads at startup.",
	Run: func(cmd *cobra.Command, args []string) {
		videos, err := loadVideos()
		if err != nil {
			exitErr("loading video list", err)
		}

		records, err := kb.LoadTranscripts(dataDir)
		if err != nil {
			exitErr("loading transcripts (run `kbuild transcripts` first)", err)
		}

		rules, err := kb.LoadRules(dataDir)
		if err != nil {
			exitErr("loading rules", err)
		}
		if rules == "" {
			slog.Warn("no rules artifact found, assembling without normativa section")
		}

		asset := kb.Assemble(videos, records, rules)
		if err := kb.SaveAsset(dataDir, asset); err != nil {
			exitErr("saving asset", err)
		}

		fmt.Printf("Done: %d videos in, %d ok, %d knowledge chars, saved to %s/%s\n",
			len(videos), kb.CountOK(records), len(asset.Knowledge), dataDir, kb.AssetFile)
	},
}

func init() {
	RootCmd.AddCommand(assembleCmd)
}
