package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/egg-balance/internal/balance"
	"github.com/vovakirdan/egg-balance/internal/core"
	"github.com/vovakirdan/egg-balance/internal/mic"
	"github.com/vovakirdan/egg-balance/internal/platform/tui"
	"github.com/vovakirdan/egg-balance/internal/storage"
)

var (
	flagHard    bool
	flagMicWAV  string
	flagTrack   string
	flagLogFile string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in this terminal",
	Long: `Start the game in this terminal.

Controls:
  Left/A, Right/D  - Choose the side to blow from
  Space/Up/W       - Blow
  Mouse click      - Choose the side under the pointer
  H                - Toggle hard mode (menu)
  Enter            - Start / Retry / Play Again
  B/Esc            - Back to the menu
  Q/Ctrl+C         - Quit

A recorded breath can stand in for a microphone: every tick reads one
window of the WAV file and blows when it is louder than input.mic_threshold.

In hard mode the session can be tied to a music track: --track sets the
time limit to the track length minus profiles.hard.track_outro.

Examples:
  eggbalance play
  eggbalance play --hard
  eggbalance play --mic-wav ./breath.wav
  eggbalance play --hard --track ./song.wav`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().BoolVar(&flagHard, "hard", false, "Start with hard mode selected")
	playCmd.Flags().StringVar(&flagMicWAV, "mic-wav", "", "WAV file replayed as microphone input")
	playCmd.Flags().StringVar(&flagTrack, "track", "", "WAV file whose length sets the hard-mode time limit")
	playCmd.Flags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file (the game owns the terminal)")
}

func runPlay(_ *cobra.Command, _ []string) {
	eggCfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var logOut io.Writer = io.Discard
	if flagLogFile != "" {
		f, ferr := os.OpenFile(flagLogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if ferr != nil {
			fmt.Fprintf(os.Stderr, "Error opening log file: %v\n", ferr)
			os.Exit(1)
		}
		defer f.Close()
		logOut = f
	}
	logger := newLogger(logOut, "play")

	if flagTrack != "" {
		track, terr := mic.Open(flagTrack, flagFPS)
		if terr != nil {
			fmt.Fprintf(os.Stderr, "Error reading track: %v\n", terr)
			os.Exit(1)
		}
		eggCfg.ApplyTrackDuration(track.Duration().Seconds())
		//nolint:errcheck // Only the length was needed
		track.Close()
		if _, perr := eggCfg.Profile(balance.ModeHard); perr != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", perr)
			os.Exit(1)
		}
	}

	var source mic.Source = mic.Silent{}
	if flagMicWAV != "" {
		wavSrc, merr := mic.Open(flagMicWAV, flagFPS)
		if merr != nil {
			fmt.Fprintf(os.Stderr, "Error opening mic track: %v\n", merr)
			os.Exit(1)
		}
		defer wavSrc.Close()
		source = wavSrc
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open session database: %v\n", err)
		store = nil // Continue without history
	} else {
		defer store.Close()
	}

	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	mode := balance.ModeNormal
	if flagHard {
		mode = balance.ModeHard
	}

	opts := tui.Options{
		Egg: eggCfg,
		Runtime: core.RuntimeConfig{
			ScreenW:  width,
			ScreenH:  height,
			TickRate: flagFPS,
			Seed:     flagSeed,
		},
		Mode:   mode,
		Mic:    source,
		Store:  store,
		Player: playerName(),
		Logger: logger,
	}

	if err := tui.Run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
		os.Exit(1)
	}
}

func playerName() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "local"
}
