package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"connector-selector/pkg/ledger"
	"connector-selector/pkg/scoring"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	scoreAnswers []string
	scoreJSON    bool
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score the catalog against a set of answers",
	Long: `Score every candidate family against answers given on the command line.

Example:
  advisor score -a connection=pcb-to-cable -a pitch=2 -a housing=metal:0.8 -a awg=24`,
	Args: cobra.NoArgs,
	RunE: runScore,
}

func init() {
	scoreCmd.Flags().StringArrayVarP(&scoreAnswers, "answer", "a", nil, "attribute=value[:confidence], repeatable")
	scoreCmd.Flags().BoolVar(&scoreJSON, "json", false, "Print the full score breakdown as JSON")
}

func runScore(cmd *cobra.Command, args []string) error {
	c, err := newContainer()
	if err != nil {
		return err
	}
	defer c.Close(context.Background())

	l := ledger.New(c.Questions, c.Logger)
	for _, raw := range scoreAnswers {
		a, err := parseAnswerFlag(raw)
		if err != nil {
			return err
		}
		l.Record(a.Attribute, l.Normalize(a.Attribute, a.Raw), a.Confidence)
		l.InferAndPropagate(a.Attribute)
	}
	l.ApplyApplicability()

	answers := l.Answers()
	board := c.Scorer.ScoreAll(c.Catalog, answers)
	ranked := board.Ranked()

	out := cmd.OutOrStdout()
	if scoreJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(ranked)
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tID\tSCORE\tRAW\tNOTES")
	for i, r := range ranked {
		notes := strings.Join(r.Critical, "; ")
		if r.Disqualified {
			notes = "disqualified"
		}
		fmt.Fprintf(tw, "%d\t%s\t%.1f\t%.1f\t%s\n", i+1, r.CandidateID, r.Score, r.Raw, notes)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(ranked) == 0 {
		return nil
	}
	leader, _ := c.Catalog.Lookup(ranked[0].CandidateID)
	for _, cv := range scoring.Caveats(leader, answers) {
		color.Yellow("  ! %s", cv.Message)
	}
	return nil
}
