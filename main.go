package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/tolgaer/punchwatch/internal/clock"
	"github.com/tolgaer/punchwatch/internal/engine"
	"github.com/tolgaer/punchwatch/internal/notify"
	"github.com/tolgaer/punchwatch/internal/source"
	"github.com/tolgaer/punchwatch/internal/store"
	"github.com/tolgaer/punchwatch/internal/tui"
)

const version = "0.2.0"

var (
	flagFile string
	flagDB   string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "punchwatch",
		Short:        "Live workday progress from a plain-text timesheet",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI()
		},
	}

	root.PersistentFlags().StringVarP(&flagFile, "file", "f", "", "timesheet file to watch (default $PUNCHWATCH_FILE or ~/timesheet.txt)")
	root.PersistentFlags().StringVar(&flagDB, "db", "", "database path (default ~/.config/punchwatch/punchwatch.db)")

	root.AddCommand(&cobra.Command{
		Use:   "watch",
		Short: "Run headless: print summaries and fire alerts without the TUI",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch()
		},
	})
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("punchwatch " + version)
		},
	})

	return root
}

// wiring holds everything both run modes share.
type wiring struct {
	store *store.Store
	cell  *engine.SummaryCell
	src   *source.File
	clk   clock.Clock
	pipe  *engine.Pipeline
	log   *slog.Logger
}

func buildWiring() (*wiring, error) {
	dbPath := flagDB
	if dbPath == "" {
		var err error
		dbPath, err = store.DefaultDBPath()
		if err != nil {
			return nil, fmt.Errorf("resolve db path: %w", err)
		}
	}

	sheetPath := flagFile
	if sheetPath == "" {
		sheetPath = os.Getenv("PUNCHWATCH_FILE")
	}
	if sheetPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("finding home directory: %w", err)
		}
		sheetPath = filepath.Join(home, "timesheet.txt")
	}

	log := newLogger(filepath.Join(filepath.Dir(dbPath), "punchwatch.log"))

	s, err := store.New(dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	clk := clock.System{}
	cell := engine.NewSummaryCell()
	src := source.NewFile(sheetPath, log)
	notifier := notify.NewDesktop(s, log)
	gate := engine.NewAlertGate(s, notifier, clk, log)
	pipe := engine.NewPipeline(src, cell, gate, clk, s.LoadConfig, log)

	return &wiring{store: s, cell: cell, src: src, clk: clk, pipe: pipe, log: log}, nil
}

func (w *wiring) close() {
	w.pipe.Stop()
	w.store.Close()
}

func newLogger(path string) *slog.Logger {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o640)
	if err != nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(f, nil))
}

func runTUI() error {
	w, err := buildWiring()
	if err != nil {
		return err
	}
	defer w.close()

	if err := w.pipe.Start(); err != nil {
		return fmt.Errorf("starting pipeline: %w", err)
	}

	app := tui.NewApp(w.store, w.cell, w.src, w.clk)
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func runWatch() error {
	w, err := buildWiring()
	if err != nil {
		return err
	}
	defer w.close()

	if err := w.pipe.Start(); err != nil {
		return fmt.Errorf("starting pipeline: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	printSummary(w)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			printSummary(w)
		}
	}
}

func printSummary(w *wiring) {
	s, ok := w.cell.Load()
	if !ok {
		fmt.Println("waiting for timesheet…")
		return
	}
	now := w.clk.Now()
	totals := s.Totals(now, w.store.LoadConfig())
	status := "out"
	if s.Live() {
		status = "in"
	}
	fmt.Printf("%s  total %dh %02dm  break %dh %02dm  left %dh %02dm  [%s]\n",
		now.Format("15:04"),
		totals.TotalMinutes/60, totals.TotalMinutes%60,
		totals.BreakMinutes/60, totals.BreakMinutes%60,
		totals.RemainingMinutes/60, totals.RemainingMinutes%60,
		status,
	)
}
