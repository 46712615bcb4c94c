package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"taskflow/internal/adapter/http/mapper"
)

var parseCmd = &cobra.Command{
	Use:   "parse <text>",
	Short: "Extract a single task from natural language",
	Example: `  taskflow parse "Call Rajeev tomorrow 5pm about the launch, urgent"
  taskflow parse --reference 2026-10-19T09:30:00Z "Send the report by Friday"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().String("reference", "", "Reference time for relative dates (RFC 3339, default now)")
}

func runParse(cmd *cobra.Command, args []string) error {
	text := strings.TrimSpace(strings.Join(args, " "))
	if text == "" {
		return fmt.Errorf("input is required")
	}

	reference := time.Now()
	if value, _ := cmd.Flags().GetString("reference"); value != "" {
		parsed, err := time.Parse(time.RFC3339, value)
		if err != nil {
			return fmt.Errorf("invalid --reference: %w", err)
		}
		reference = parsed
	}

	parser, err := newParser(cmd.Context(), loadConfig())
	if err != nil {
		return err
	}

	candidate, err := parser.ParseOne(cmd.Context(), text, reference)
	if err != nil {
		return fmt.Errorf("parse task: %w", err)
	}
	return writeJSON(cmd.OutOrStdout(), mapper.ToTaskCandidate(candidate))
}

func writeJSON(w io.Writer, value any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}
