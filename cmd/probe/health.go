package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"note-service-be/pkg/health"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var errUnhealthy = errors.New("service is unhealthy")

var healthCmd = &cobra.Command{
	Use:           "health",
	Short:         "Call GET /health and exit 1 unless the service is healthy",
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		report, err := fetchReport(ctx, http.DefaultClient, baseURL)
		if err != nil {
			color.New(color.FgRed).Fprintf(cmd.ErrOrStderr(), "health check failed: %v\n", err)
			return err
		}

		printReport(cmd.OutOrStdout(), report)
		if !report.Healthy() {
			return errUnhealthy
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}

// fetchReport accepts both 200 and 500: the body is a report either way.
func fetchReport(ctx context.Context, client *http.Client, base string) (*health.Report, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(base, "/")+"/health", nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusInternalServerError {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	var report health.Report
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		return nil, fmt.Errorf("decode report: %w", err)
	}
	return &report, nil
}

func printReport(w io.Writer, r *health.Report) {
	status := color.New(color.FgGreen, color.Bold)
	if !r.Healthy() {
		status = color.New(color.FgRed, color.Bold)
	}
	status.Fprintf(w, "%s\n", strings.ToUpper(r.Status))

	fmt.Fprintf(w, "  %s\n", r.Message)
	fmt.Fprintf(w, "  database: %s (%s)\n", r.Database.State, r.Database.Driver)
	fmt.Fprintf(w, "  uptime:   %s\n", r.Uptime)
	fmt.Fprintf(w, "  rss:      %s\n", r.MemoryUsage.RSS)
	fmt.Fprintf(w, "  heapUsed: %s\n", r.MemoryUsage.HeapUsed)

	if r.ActionableMessage != "" {
		color.New(color.FgYellow).Fprintf(w, "  %s\n", r.ActionableMessage)
	}
}
