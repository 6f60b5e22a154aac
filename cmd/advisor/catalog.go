package main

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List candidate families and questions",
	Args:  cobra.NoArgs,
	RunE:  runCatalog,
}

func runCatalog(cmd *cobra.Command, args []string) error {
	c, err := newContainer()
	if err != nil {
		return err
	}
	defer c.Close(context.Background())

	out := cmd.OutOrStdout()

	color.Cyan("Candidates (%d)", c.Catalog.Len())
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tFAMILY\tPITCH\tHOUSING\tLOCATION\tPINS\tCURRENT\tTEMP")
	for _, cand := range c.Catalog.Candidates() {
		fmt.Fprintf(tw, "%s\t%s\t%gmm\t%s\t%s\t%d\t%gA\t%g..%g°C\n",
			cand.ID, cand.Family, cand.PitchSize, cand.HousingMaterial, cand.Location,
			cand.MaxPins, cand.MaxCurrent, cand.TempRange.Min, cand.TempRange.Max)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(out)
	color.Cyan("Questions (%d)", c.Questions.Len())
	tw = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tATTRIBUTE\tWEIGHT\tSKIPPED FOR")
	for _, q := range c.Questions.Ordered() {
		fmt.Fprintf(tw, "%d\t%s\t%g\t%s\n", q.Order, q.Attribute, q.Weight, strings.Join(q.NotApplicableFor, ", "))
	}
	return tw.Flush()
}
