package main

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"note-service-be/pkg/events"
	pktNats "note-service-be/pkg/nats"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	natsURL string
	durable string
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Tail note events forwarded to NATS JetStream",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		sub, err := pktNats.NewSubscriber(natsURL)
		if err != nil {
			return err
		}
		defer sub.Close()

		out := cmd.OutOrStdout()
		err = sub.Subscribe(ctx, pktNats.Subject(">"), durable, func(_ context.Context, evt events.Event) error {
			printEvent(out, evt)
			return nil
		})
		if err != nil {
			return err
		}

		color.New(color.FgCyan).Fprintf(out, "Listening on %s (Ctrl+C to stop)\n", pktNats.Subject(">"))
		<-ctx.Done()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.Flags().StringVar(&natsURL, "nats-url", "nats://localhost:4222", "NATS server URL")
	eventsCmd.Flags().StringVar(&durable, "durable", "", "Durable consumer name (empty for an ephemeral tail)")
}

func printEvent(w io.Writer, evt events.Event) {
	typeColor := color.New(color.FgGreen)
	switch evt.EventType() {
	case events.NoteUpdated:
		typeColor = color.New(color.FgYellow)
	case events.NoteDeleted:
		typeColor = color.New(color.FgRed)
	}

	payload := evt.Payload()
	fmt.Fprintf(w, "%s ", evt.Timestamp().UTC().Format(time.RFC3339))
	typeColor.Fprintf(w, "%-12s", evt.EventType())
	fmt.Fprintf(w, " %v", payload["note_id"])
	if title, ok := payload["title"]; ok {
		fmt.Fprintf(w, " %q", title)
	}
	fmt.Fprintln(w)
}
