package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"connector-selector/internal/pkg/logger"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	auditLevel   string
	auditSession string
	auditLimit   int
	auditOffset  int
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Read the session audit log, newest first",
	Args:  cobra.NoArgs,
	RunE:  runAudit,
}

func init() {
	auditCmd.Flags().StringVar(&auditLevel, "level", "", "Only entries of this level (INFO, WARN, ERROR)")
	auditCmd.Flags().StringVar(&auditSession, "session", "", "Only entries of this session")
	auditCmd.Flags().IntVar(&auditLimit, "limit", 20, "Maximum number of entries")
	auditCmd.Flags().IntVar(&auditOffset, "offset", 0, "Entries to skip")
}

func runAudit(cmd *cobra.Command, args []string) error {
	c, err := newContainer()
	if err != nil {
		return err
	}
	defer c.Close(context.Background())

	var entries []logger.LogEntry
	if auditSession != "" {
		entries, err = c.AuditLogger.GetSessionLogs(auditSession, auditLimit)
	} else {
		entries, err = c.AuditLogger.GetLogs(strings.ToUpper(auditLevel), auditLimit, auditOffset)
	}
	if err != nil {
		return fmt.Errorf("failed to read audit log: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(entries) == 0 {
		fmt.Fprintln(out, "No audit entries found.")
		return nil
	}
	for _, e := range entries {
		details, _ := json.Marshal(e.Details)
		fmt.Fprintf(out, "%s %s %s %s %s\n",
			e.Timestamp, levelColor(e.Level), e.Message, color.HiBlackString("%s", e.SessionID), details)
	}
	return nil
}

func levelColor(level string) string {
	switch level {
	case "ERROR":
		return color.RedString("%s", level)
	case "WARN":
		return color.YellowString("%s", level)
	default:
		return color.GreenString("%s", level)
	}
}
