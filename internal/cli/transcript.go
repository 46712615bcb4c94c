package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	dbadapter "taskflow/internal/adapter/db"
	"taskflow/internal/adapter/http/mapper"
	appservice "taskflow/internal/app/service"
	"taskflow/internal/core/domain"
)

var transcriptCmd = &cobra.Command{
	Use:   "transcript",
	Short: "Extract every task from a meeting transcript",
	Long: `Reads a transcript from --file or standard input and prints the tasks it
mentions. With --commit the tasks are stored in one transaction.`,
	Args: cobra.NoArgs,
	RunE: runTranscript,
}

func init() {
	transcriptCmd.Flags().StringP("file", "f", "", "Transcript file (default stdin)")
	transcriptCmd.Flags().Bool("commit", false, "Store the extracted tasks")
}

func runTranscript(cmd *cobra.Command, _ []string) error {
	path, _ := cmd.Flags().GetString("file")
	commit, _ := cmd.Flags().GetBool("commit")

	transcript, err := readTranscript(cmd.InOrStdin(), path)
	if err != nil {
		return err
	}
	if strings.TrimSpace(transcript) == "" {
		return fmt.Errorf("transcript is required")
	}

	cfg := loadConfig()
	parser, err := newParser(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	candidates, err := parser.ParseMany(cmd.Context(), transcript)
	if err != nil {
		return fmt.Errorf("process transcript: %w", err)
	}

	if !commit {
		return writeJSON(cmd.OutOrStdout(), mapper.ToTaskCandidates(candidates))
	}
	if len(candidates) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no tasks found, nothing stored")
		return nil
	}

	inputs := make([]domain.CreateTaskInput, 0, len(candidates))
	for _, candidate := range candidates {
		inputs = append(inputs, domain.CreateInputFromCandidate(candidate))
	}

	return withDB(cfg, func(db *sqlx.DB) error {
		service := appservice.NewTaskService(dbadapter.NewTaskRepository(db))
		tasks, err := service.CreateTasks(cmd.Context(), inputs)
		if err != nil {
			return fmt.Errorf("store tasks: %w", err)
		}
		return writeJSON(cmd.OutOrStdout(), mapper.ToTaskItems(tasks))
	})
}

func readTranscript(stdin io.Reader, path string) (string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read transcript: %w", err)
	}
	return string(data), nil
}
