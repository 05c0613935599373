package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/looksmaxxer/internal/ai"
	"github.com/kozaktomas/looksmaxxer/internal/config"
	"github.com/kozaktomas/looksmaxxer/internal/constants"
)

var colourCmd = &cobra.Command{
	Use:     "colour <colour>",
	Aliases: []string{"color"},
	Short:   "Run a seasonal colour analysis for a skin colour",
	Long: `Ask an AI provider for a seasonal colour analysis of a skin colour.
The colour is "r,g,b", "#rrggbb" or "rgb(r, g, b)".`,
	Example: `  looksmaxxer colour 200,150,120
  looksmaxxer colour "#c89678" --provider gemini --json`,
	Args: cobra.ExactArgs(1),
	RunE: runColour,
}

func init() {
	rootCmd.AddCommand(colourCmd)

	colourCmd.Flags().String("provider", constants.DefaultProvider, "AI provider: "+strings.Join(ai.Providers, ", "))
	colourCmd.Flags().Duration("timeout", 2*time.Minute, "Give up after this long")
	colourCmd.Flags().Bool("json", false, "Output as JSON")
}

// ColourResult is the colour command output.
type ColourResult struct {
	Colour   string             `json:"colour"`
	Provider string             `json:"provider"`
	Analysis *ai.ColourAnalysis `json:"analysis"`
	Usage    ai.Usage           `json:"usage"`
}

func runColour(cmd *cobra.Command, args []string) error {
	colour, err := ai.ParseRGB(args[0])
	if err != nil {
		return err
	}

	timeout, err := cmd.Flags().GetDuration("timeout")
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cfg := config.Load()
	provider, err := ai.NewProvider(ctx, cfg, mustGetString(cmd, "provider"))
	if err != nil {
		return err
	}

	analysis, err := provider.AnalyzeColour(ctx, colour)
	if err != nil {
		return fmt.Errorf("colour analysis: %w", err)
	}

	result := ColourResult{
		Colour:   colour.Hex(),
		Provider: provider.Name(),
		Analysis: analysis,
		Usage:    provider.GetUsage(),
	}

	out := cmd.OutOrStdout()
	if mustGetBool(cmd, "json") {
		return outputJSON(out, result)
	}

	fmt.Fprintf(out, "Colour:    %s (%s)\n", colour, result.Colour)
	fmt.Fprintf(out, "Undertone: %s\n", analysis.Undertone)
	fmt.Fprintf(out, "Season:    %s\n", analysis.Season)
	fmt.Fprintf(out, "Wear:      %s\n", strings.Join(analysis.Palette, ", "))
	if len(analysis.Avoid) > 0 {
		fmt.Fprintf(out, "Avoid:     %s\n", strings.Join(analysis.Avoid, ", "))
	}
	if analysis.Summary != "" {
		fmt.Fprintf(out, "\n%s\n", analysis.Summary)
	}
	fmt.Fprintf(out, "\n%s: %d input / %d output tokens, $%.4f\n",
		result.Provider, result.Usage.InputTokens, result.Usage.OutputTokens, result.Usage.TotalCost)
	return nil
}
