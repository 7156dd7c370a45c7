package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/coachgolf/go_coach/internal/kb"
)

var allPDF string

var allCmd = &cobra.Command{
	Use:   "all",
	Short: "Run the full pipeline: transcripts, rules, assemble",
	Run: func(cmd *cobra.Command, args []string) {
		videos, err := loadVideos()
		if err != nil {
			exitErr("loading video list", err)
		}

		records := kb.FetchAll(cmd.Context(), videos, splitLangs(langsFlag))
		if err := kb.SaveTranscripts(dataDir, records); err != nil {
			exitErr("saving transcripts", err)
		}

		rules, err := kb.ExtractRules(allPDF)
		if err != nil {
			exitErr("extracting rules", err)
		}
		if err := kb.SaveRules(dataDir, rules); err != nil {
			exitErr("saving rules", err)
		}

		asset := kb.Assemble(videos, records, rules)
		if err := kb.SaveAsset(dataDir, asset); err != nil {
			exitErr("saving asset", err)
		}

		fmt.Printf("Done: %d/%d transcripts, %d rules chars, %d knowledge chars, saved to %s/%s\n",
			kb.CountOK(records), len(videos), len(rules), len(asset.Knowledge), dataDir, kb.AssetFile)
	},
}

func init() {
	allCmd.Flags().StringVar(&allPDF, "pdf", "normativa_pp.pdf", "Path to the rules PDF")
	RootCmd.AddCommand(allCmd)
}
