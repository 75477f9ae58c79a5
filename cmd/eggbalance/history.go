package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/egg-balance/internal/platform/tui"
	"github.com/vovakirdan/egg-balance/internal/storage"
)

var (
	flagHistoryPlain bool
	flagHistoryLimit int
	flagHistoryClear bool
)

var historyCmd = &cobra.Command{
	Use:   "history [mode]",
	Short: "Browse recorded sessions",
	Long: `Show recorded sessions and per-mode statistics.

Without --plain an interactive table opens; tab switches between modes.

Examples:
  eggbalance history
  eggbalance history hard --plain
  eggbalance history normal --clear`,
	Args: cobra.MaximumNArgs(1),
	Run:  runHistory,
}

func init() {
	historyCmd.Flags().BoolVar(&flagHistoryPlain, "plain", false, "Print instead of opening the interactive table")
	historyCmd.Flags().IntVar(&flagHistoryLimit, "limit", 10, "Number of sessions to print")
	historyCmd.Flags().BoolVar(&flagHistoryClear, "clear", false, "Delete the recorded sessions of the mode (all modes when omitted)")
}

func runHistory(_ *cobra.Command, args []string) {
	mode := ""
	if len(args) == 1 {
		mode = args[0]
		if mode != "normal" && mode != "hard" {
			fmt.Fprintf(os.Stderr, "Error: unknown mode %q (want normal or hard)\n", mode)
			os.Exit(1)
		}
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening session database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagHistoryClear {
		if err := store.ClearSessions(mode); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("History cleared.")
		return
	}

	if !flagHistoryPlain && term.IsTerminal(int(os.Stdout.Fd())) {
		width, height := 80, 24
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width, height = w, h
		}
		if err := tui.RunHistory(store, width, height); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	printHistory(store, mode)
}

func printHistory(store *storage.Store, mode string) {
	sessions, err := store.RecentSessions(mode, flagHistoryLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving sessions: %v\n", err)
		os.Exit(1)
	}

	if len(sessions) == 0 {
		fmt.Println("No sessions recorded yet.")
		fmt.Println()
		fmt.Println("Play 'eggbalance play' to record the first one!")
		return
	}

	fmt.Printf("  %-6s  %-7s  %-8s  %-9s  %-7s  %s\n", "ID", "Mode", "Outcome", "Survived", "Left", "Date")
	fmt.Printf("  %-6s  %-7s  %-8s  %-9s  %-7s  %s\n", "--", "----", "-------", "--------", "----", "----")
	for _, s := range sessions {
		fmt.Printf("  %-6d  %-7s  %-8s  %-9s  %-7s  %s\n",
			s.ID, s.Mode, s.Outcome,
			fmt.Sprintf("%.1fs", s.Elapsed),
			fmt.Sprintf("%.1fs", s.TimeRemaining),
			s.CreatedAt.Format("2006-01-02 15:04"),
		)
	}

	modes := []string{"normal", "hard"}
	if mode != "" {
		modes = []string{mode}
	}
	fmt.Println()
	for _, m := range modes {
		stats, err := store.ModeStats(m)
		if err != nil || stats.Sessions == 0 {
			continue
		}
		fmt.Printf("%s: %d sessions, %d won (%.0f%%), best %.1fs\n",
			m, stats.Sessions, stats.Wins, stats.WinRate()*100, stats.BestTime)
	}
}
