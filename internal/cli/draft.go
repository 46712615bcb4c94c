package cli

import (
	"bufio"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"taskflow/internal/adapter/http/mapper"
	"taskflow/internal/app/preview"
	"taskflow/internal/core/domain"
)

const draftField = "draft"

var draftCmd = &cobra.Command{
	Use:   "draft",
	Short: "Preview parsed tasks while typing",
	Long: `Each line read from standard input replaces the current draft. Once the
draft has been quiet for the debounce delay it is parsed and the preview is
printed. Short drafts clear the preview.`,
	Args: cobra.NoArgs,
	RunE: runDraft,
}

func runDraft(cmd *cobra.Command, _ []string) error {
	cfg := loadConfig()
	parser, err := newParser(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	out := &lockedWriter{w: cmd.OutOrStdout()}
	delivered := make(chan preview.Preview, 16)
	scheduler := preview.NewScheduler(parser, func(p preview.Preview) {
		printPreview(out, p)
		select {
		case delivered <- p:
		default:
		}
	}, preview.Options{
		Wait:      cfg.PreviewDebounce,
		MinLength: cfg.PreviewMinLength,
	})
	defer scheduler.Close()

	var last string
	scanner := bufio.NewScanner(cmd.InOrStdin())
	for scanner.Scan() {
		last = scanner.Text()
		drain(delivered)
		scheduler.Update(draftField, last)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read draft: %w", err)
	}
	if last == "" {
		return nil
	}

	// Wait for the preview of the final draft before exiting.
	timeout := time.NewTimer(cfg.PreviewDebounce + cfg.LLM.Timeout + time.Second)
	defer timeout.Stop()
	for {
		select {
		case p := <-delivered:
			if p.Text == last {
				return nil
			}
		case <-timeout.C:
			return fmt.Errorf("timed out waiting for the draft preview")
		case <-cmd.Context().Done():
			return cmd.Context().Err()
		}
	}
}

func printPreview(out io.Writer, p preview.Preview) {
	switch {
	case p.Err != nil:
		fmt.Fprintf(out, "preview failed (%s): %v\n", domain.KindOf(p.Err), p.Err)
	case p.Candidate == nil:
		fmt.Fprintln(out, "preview cleared")
	default:
		_ = writeJSON(out, mapper.ToTaskCandidate(*p.Candidate))
	}
}

func drain(ch <-chan preview.Preview) {
	for {
		select {
		case <-ch:
		default:
			return
		}
	}
}

type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
