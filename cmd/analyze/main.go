package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/ahmed5145/chessmate-prod-sub002/internal/analysis"
	"github.com/ahmed5145/chessmate-prod-sub002/internal/shared/config"
	"github.com/ahmed5145/chessmate-prod-sub002/internal/shared/telemetry"
)

func main() {
	cfg := config.Load()

	gameID := flag.String("game", "", "Game ID to analyze")
	baseURL := flag.String("base-url", cfg.APIBaseURL, "Analysis backend base URL")
	cookie := flag.String("cookie", "", "Cookie header to send with requests (optional)")
	interval := flag.Duration("interval", cfg.PollInterval, "Poll interval")
	maxAttempts := flag.Int("max-attempts", cfg.PollMaxAttempts, "Maximum status polls")
	outPath := flag.String("out", "", "Path to write the analysis JSON (defaults to stdout)")
	flag.Parse()

	// Keep stdout for the analysis payload.
	restore := telemetry.SetSink(os.Stderr)
	defer restore()

	if strings.TrimSpace(*gameID) == "" {
		exitErr("game id is required")
	}

	client, err := analysis.NewClient(*baseURL, cfg.APITimeout)
	if err != nil {
		exitErr(err.Error())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if strings.TrimSpace(*cookie) != "" {
		ctx = analysis.WithCookieHeader(ctx, *cookie)
	}

	start, err := client.AnalyzeGame(ctx, *gameID)
	if err != nil {
		exitErr(fmt.Sprintf("start analysis: %v", err))
	}
	fmt.Fprintf(os.Stderr, "analysis %s for game %s, task %s\n", start.Status, *gameID, start.TaskID)

	res, err := analysis.WaitForCompletion(ctx, client, start.TaskID, analysis.PollConfig{
		Interval:    *interval,
		MaxAttempts: *maxAttempts,
	})
	if err != nil {
		exitErr(fmt.Sprintf("wait for completion: %v", err))
	}
	fmt.Fprintf(os.Stderr, "task %s finished with status %s\n", start.TaskID, res.Status)

	payload, err := client.FetchAnalysis(ctx, *gameID)
	if err != nil {
		exitErr(fmt.Sprintf("fetch analysis: %v", err))
	}

	pretty, err := json.MarshalIndent(json.RawMessage(payload), "", "  ")
	if err != nil {
		pretty = payload
	}

	if strings.TrimSpace(*outPath) == "" {
		fmt.Println(string(pretty))
		return
	}
	if err := os.WriteFile(*outPath, append(pretty, '\n'), 0o644); err != nil {
		exitErr(fmt.Sprintf("write output: %v", err))
	}
	fmt.Fprintf(os.Stderr, "wrote %s\n", *outPath)
}

func exitErr(msg string) {
	_, _ = fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}
