package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/coachgolf/go_coach/internal/kb"
)

var transcriptsCmd = &cobra.Command{
	Use:   "transcripts",
	Short: "Fetch YouTube transcripts for the configured playlist",
	Long: "Fetches a transcript per configured video, preferring the ranked language\n" +
		"list. A video that fails is recorded with its error and skipped at assembly;\n" +
		"it never aborts the batch. Results go to transcripts.json.",
	Run: func(cmd *cobra.Command, args []string) {
		videos, err := loadVideos()
		if err != nil {
			exitErr("loading video list", err)
		}

		records := kb.FetchAll(cmd.Context(), videos, splitLangs(langsFlag))
		if err := kb.SaveTranscripts(dataDir, records); err != nil {
			exitErr("saving transcripts", err)
		}

		fmt.Printf("Done: %d/%d transcripts fetched, saved to %s/%s\n",
			kb.CountOK(records), len(videos), dataDir, kb.TranscriptsFile)
	},
}

func init() {
	RootCmd.AddCommand(transcriptsCmd)
}
