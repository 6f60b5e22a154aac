package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"connector-selector/internal/config"
	"connector-selector/internal/pkg/logger"
	"connector-selector/pkg/events"

	pktNats "connector-selector/pkg/nats"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	watchSubject string
	watchDurable string
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow escalated sessions published on NATS",
	Long: `Consume terminal session events from the EVENTS stream and print them. By
default only escalations are shown; use --subject events.> for every event.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchSubject, "subject", pktNats.Subject(events.TypeSessionEscalated), "NATS subject to follow")
	watchCmd.Flags().StringVar(&watchDurable, "durable", "escalation-desk", "Durable consumer name")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	if cfg.App.NatsURL == "" {
		return errors.New("NATS_URL is not set")
	}

	log := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	defer func() { _ = log.Sync() }()

	sub, err := pktNats.NewSubscriber(cfg.App.NatsURL, log)
	if err != nil {
		return err
	}
	defer sub.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	cc, err := sub.Subscribe(ctx, watchSubject, watchDurable, func(_ context.Context, e events.Event) error {
		data := e.Payload()
		switch e.EventType() {
		case events.TypeSessionEscalated:
			color.Red("%s escalated session %v: %v", e.Timestamp().Format("15:04:05"), data["session_id"], data["reason"])
			fmt.Fprintf(out, "  answers: %v\n  scores:  %v\n", data["answers"], data["scores"])
		case events.TypeSessionCommitted:
			color.Green("%s session %v committed to %v", e.Timestamp().Format("15:04:05"), data["session_id"], data["candidate_id"])
		default:
			fmt.Fprintf(out, "%s %s %v\n", e.Timestamp().Format("15:04:05"), e.EventType(), data)
		}
		return nil
	})
	if err != nil {
		return err
	}
	defer cc.Stop()

	color.Cyan("Watching %s (Ctrl+C to stop)", watchSubject)
	<-ctx.Done()
	return nil
}
