package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"connector-selector/pkg/decision"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive selection session",
	Long: `Describe the connector you need in your own words, then answer the follow-up
questions. Type "restart" to begin a new selection and "quit" to leave.`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func runChat(cmd *cobra.Command, args []string) error {
	c, err := newContainer()
	if err != nil {
		return err
	}
	defer c.Close(context.Background())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := c.AuditService.Consume(ctx); err != nil {
		c.Logger.Warn("CLI", "Audit consumer not started", map[string]interface{}{"error": err.Error()})
	}

	sessionID, err := c.Advisor.BeginSession(ctx)
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer c.Advisor.EndSession(sessionID)

	out := cmd.OutOrStdout()
	color.Cyan("Describe the connector you need (session %s).", sessionID)
	fmt.Fprintln(out, `Type "restart" to start over or "quit" to leave.`)

	scanner := bufio.NewScanner(cmd.InOrStdin())
	opening := true
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			break
		}
		text := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(text) {
		case "":
			continue
		case "quit", "exit":
			return nil
		}

		var outcome decision.Outcome
		if opening {
			outcome, err = c.Advisor.SubmitOpeningMessage(ctx, sessionID, text)
		} else {
			outcome, err = c.Advisor.SubmitAnswer(ctx, sessionID, text)
		}
		if err != nil {
			return err
		}
		renderOutcome(out, outcome)
		opening = outcome.Terminal()
		if opening {
			color.Cyan("\nDescribe your next connector, or type quit.")
		}
	}
	return scanner.Err()
}

func renderOutcome(w io.Writer, o decision.Outcome) {
	if o.Restarted {
		color.Cyan("Starting a new selection.")
	}

	switch o.Kind {
	case decision.KindContinue:
		color.Yellow("%s", o.Question.Prompt)
		if o.Clarification != "" && o.Clarification != o.Question.Prompt {
			fmt.Fprintf(w, "  (%s)\n", o.Clarification)
		}
	case decision.KindCommit:
		color.Green("Recommended family: %s (%.0f%% match)", o.CandidateID, o.Score)
		for _, c := range o.Caveats {
			color.Yellow("  ! %s", c.Message)
		}
		if o.ConfiguratorURL != "" {
			fmt.Fprintf(w, "Configure it at %s\n", o.ConfiguratorURL)
		}
	case decision.KindEscalate:
		color.Red("No family fits well enough: %s", o.Reason)
		if o.ContactURL != "" {
			fmt.Fprintf(w, "Our engineers can help at %s\n", o.ContactURL)
		}
	}

	if verbose || o.Kind == decision.KindEscalate {
		renderScores(w, o.Scores)
	}
}

func renderScores(w io.Writer, scores map[string]float64) {
	ids := make([]string, 0, len(scores))
	for id := range scores {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if scores[ids[i]] != scores[ids[j]] {
			return scores[ids[i]] > scores[ids[j]]
		}
		return ids[i] < ids[j]
	})

	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("%s %.0f", id, scores[id])
	}
	fmt.Fprintln(w, color.HiBlackString("  scores: %s", strings.Join(parts, ", ")))
}
