package main

import (
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/egg-balance/internal/balance"
	"github.com/vovakirdan/egg-balance/internal/config"
	"github.com/vovakirdan/egg-balance/internal/core"
	"github.com/vovakirdan/egg-balance/internal/mic"
	"github.com/vovakirdan/egg-balance/internal/storage"
)

var (
	flagSimHard     bool
	flagSimPolicy   string
	flagSimDeadband float64
	flagSimFrames   int
	flagSimEvery    int
	flagSimMicWAV   string
	flagSimSave     bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a headless session with an autopilot",
	Long: `Run one session without a terminal UI and print its outcome.

Policies:
  corrective - blow against the lean whenever |tilt| > deadband
  idle       - never touch the controls
  mic        - blow through the microphone (replayed from --mic-wav, or a
               constant loud breath) while tapping the side to blow from

Examples:
  eggbalance simulate
  eggbalance simulate --policy idle --seed 7
  eggbalance simulate --hard --policy corrective --every 600
  eggbalance simulate --policy mic --mic-wav ./breath.wav --save`,
	Args: cobra.NoArgs,
	Run:  runSimulate,
}

func init() {
	simulateCmd.Flags().BoolVar(&flagSimHard, "hard", false, "Use the hard profile")
	simulateCmd.Flags().StringVar(&flagSimPolicy, "policy", "corrective", "Autopilot policy: corrective, idle, mic")
	simulateCmd.Flags().Float64Var(&flagSimDeadband, "deadband", 0, "Tilt the autopilot tolerates before blowing")
	simulateCmd.Flags().IntVar(&flagSimFrames, "max-frames", 0, "Frame cap (0 = time limit plus a margin)")
	simulateCmd.Flags().IntVar(&flagSimEvery, "every", 0, "Print the tilt every N frames (0 = off)")
	simulateCmd.Flags().StringVar(&flagSimMicWAV, "mic-wav", "", "WAV file replayed by the mic policy")
	simulateCmd.Flags().BoolVar(&flagSimSave, "save", false, "Record the outcome in the session database")
}

// simOptions is one headless run.
type simOptions struct {
	Egg      config.EggConfig
	Mode     balance.Mode
	Policy   string
	Deadband float64
	Frames   int
	Every    int
	Seed     int64
	TickRate int
	Mic      mic.Source
}

// simReport is the outcome of simulate.
type simReport struct {
	Result  balance.RunResult
	Done    bool
	Mode    balance.Mode
	Elapsed float64
}

func runSimulate(_ *cobra.Command, _ []string) {
	logger := newLogger(os.Stderr, "simulate")

	eggCfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	opts := simOptions{
		Egg:      eggCfg,
		Mode:     balance.ModeNormal,
		Policy:   flagSimPolicy,
		Deadband: flagSimDeadband,
		Frames:   flagSimFrames,
		Every:    flagSimEvery,
		Seed:     flagSeed,
		TickRate: flagFPS,
	}
	if flagSimHard {
		opts.Mode = balance.ModeHard
	}
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}
	if flagSimMicWAV != "" {
		src, merr := mic.Open(flagSimMicWAV, flagFPS)
		if merr != nil {
			fmt.Fprintf(os.Stderr, "Error opening mic track: %v\n", merr)
			os.Exit(1)
		}
		defer src.Close()
		opts.Mic = src
	}

	logger.Debug("starting run", "mode", opts.Mode, "policy", opts.Policy, "seed", opts.Seed)

	rep, err := simulate(os.Stdout, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if flagSimSave && rep.Done {
		store, serr := storage.Open(flagDBPath)
		if serr != nil {
			logger.Error("cannot open session database", "err", serr)
			os.Exit(1)
		}
		defer store.Close()

		_, serr = store.SaveSession(storage.SessionRecord{
			Mode:          rep.Mode.String(),
			Outcome:       rep.Result.Event.Kind.String(),
			TimeRemaining: rep.Result.Event.TimeRemaining,
			Elapsed:       rep.Elapsed,
			Player:        "autopilot:" + opts.Policy,
		})
		if serr != nil {
			logger.Error("cannot save session", "err", serr)
			os.Exit(1)
		}
		logger.Info("session saved", "db", flagDBPath)
	}
}

// simulate runs one session and writes a report to w.
func simulate(w io.Writer, opts simOptions) (simReport, error) {
	policy, err := pickPolicy(opts)
	if err != nil {
		return simReport{}, err
	}

	profile, err := opts.Egg.Profile(opts.Mode)
	if err != nil {
		return simReport{}, err
	}

	rc := core.RuntimeConfig{TickRate: opts.TickRate, Seed: opts.Seed}
	sim := balance.NewSimulator(opts.Seed, opts.Egg.BalanceEffects())
	driver := balance.NewDriver(sim, balance.NewAggregator(opts.Egg.MicThreshold()), opts.Egg.ProfileSource(), rc.Dt())
	if err := driver.Machine().SetMode(opts.Mode); err != nil {
		return simReport{}, err
	}

	frames := opts.Frames
	if frames <= 0 {
		// Enough for the whole clock plus the longest possible fall.
		frames = int(math.Ceil(profile.TimeLimit/rc.Dt())) + 600
	}

	res, done, err := balance.Run(driver, policy, frames)
	if err != nil {
		return simReport{}, err
	}
	rep := simReport{Result: res, Done: done, Mode: opts.Mode, Elapsed: res.Final.Elapsed}

	if opts.Every > 0 {
		for i := opts.Every - 1; i < len(res.Timeline); i += opts.Every {
			fmt.Fprintf(w, "frame %6d  tilt %+.5f\n", i+1, res.Timeline[i])
		}
	}

	fmt.Fprintf(w, "mode:     %s\n", opts.Mode)
	fmt.Fprintf(w, "policy:   %s\n", opts.Policy)
	fmt.Fprintf(w, "seed:     %d\n", opts.Seed)
	if done {
		fmt.Fprintf(w, "outcome:  %s\n", res.Event.Kind)
		fmt.Fprintf(w, "left:     %.2fs\n", res.Event.TimeRemaining)
	} else {
		fmt.Fprintf(w, "outcome:  none after %d frames\n", frames)
	}
	fmt.Fprintf(w, "frames:   %d\n", res.Frames)
	fmt.Fprintf(w, "elapsed:  %.2fs\n", rep.Elapsed)
	fmt.Fprintf(w, "max tilt: %.5f\n", res.MaxTilt)

	return rep, nil
}

func pickPolicy(opts simOptions) (balance.Policy, error) {
	switch opts.Policy {
	case "corrective":
		return balance.Corrective(opts.Deadband), nil
	case "idle":
		return balance.Idle, nil
	case "mic":
		if opts.Mic == nil {
			return balance.MicBreath(opts.Deadband, 1), nil
		}
		return micPolicy(opts.Mic, opts.Deadband), nil
	default:
		return nil, fmt.Errorf("unknown policy %q (want corrective, idle or mic)", opts.Policy)
	}
}

// micPolicy taps the side to blow from and takes its breath from src.
// The source is read every frame so the track stays in sync with the clock.
func micPolicy(src mic.Source, deadband float64) balance.Policy {
	return func(st balance.State) balance.Controls {
		level := src.Level()
		if math.Abs(st.Tilt) <= deadband {
			return balance.Controls{}
		}
		side := balance.SideFor(-st.Tilt)
		return balance.Controls{Mic: level, Touch: &side}
	}
}
