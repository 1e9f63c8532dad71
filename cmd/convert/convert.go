// Package convert implements the convert command, a debugging aid that turns
// markdown-ish text on stdin into the ADF JSON the tracker receives.
package convert

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/alan/jira-sync/internal/adf"
)

// NewConvertCmd creates and returns the convert command
func NewConvertCmd() *cobra.Command {
	var compact bool

	cobraCmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert markdown-ish text on stdin to an ADF document on stdout",
		Long: `Convert reads text from stdin and prints the Atlassian Document Format
JSON that the comment command would post. Useful for inspecting how headings,
bullet lists and emphasis come through.`,
		SilenceUsage: true,
		RunE: func(cobraCmd *cobra.Command, _ []string) error {
			return runConvert(cobraCmd.InOrStdin(), cobraCmd.OutOrStdout(), compact)
		},
	}

	cobraCmd.Flags().BoolVar(&compact, "compact", false, "Emit compact JSON instead of indented")

	return cobraCmd
}

func runConvert(in io.Reader, out io.Writer, compact bool) error {
	text, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	doc := adf.Convert(string(text))

	encoder := json.NewEncoder(out)
	if !compact {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}
	return nil
}
