package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/coachgolf/go_coach/internal/kb"
)

var rulesPDF string

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Extract the Pitch&Putt rules PDF into rules.txt",
	Long: "Extracts the normativa text page by page. A missing PDF is fatal here:\n" +
		"assembling a knowledge base without the rules section would silently ship\n" +
		"an incomplete asset.",
	Run: func(cmd *cobra.Command, args []string) {
		text, err := kb.ExtractRules(rulesPDF)
		if err != nil {
			if errors.Is(err, kb.ErrRulesNotFound) {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
				fmt.Fprintf(os.Stderr, "Copy the rules PDF next to kbuild or point --pdf at it.\n")
				os.Exit(1)
			}
			exitErr("extracting rules", err)
		}

		if err := kb.SaveRules(dataDir, text); err != nil {
			exitErr("saving rules", err)
		}

		fmt.Printf("Done: %d chars extracted from %s, saved to %s/%s\n",
			len(text), rulesPDF, dataDir, kb.RulesFile)
	},
}

func init() {
	rulesCmd.Flags().StringVar(&rulesPDF, "pdf", "normativa_pp.pdf", "Path to the rules PDF")
	RootCmd.AddCommand(rulesCmd)
}
