package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/egg-balance/internal/balance"
	"github.com/vovakirdan/egg-balance/internal/config"
	"github.com/vovakirdan/egg-balance/internal/core"
	"github.com/vovakirdan/egg-balance/internal/mic"
	"github.com/vovakirdan/egg-balance/internal/storage"
)

// Options configures a shell Model. Zero values fall back to defaults.
type Options struct {
	Egg     config.EggConfig
	Runtime core.RuntimeConfig
	Mode    balance.Mode
	Mic     mic.Source
	Store   *storage.Store
	Player  string
	Logger  *log.Logger
}

// Model is the Bubble Tea model running the simulator.
type Model struct {
	driver *balance.Driver
	keys   *KeyMapper
	hold   *HoldTracker
	mic    mic.Source
	store  *storage.Store
	logger *log.Logger
	screen *core.Screen
	config core.RuntimeConfig
	player string

	frame    balance.Frame
	touch    *balance.Side
	last     *balance.Event
	elapsed  float64 // survival time of the last finished session
	best     float64
	errText  string
	quitting bool
}

// NewModel creates the shell model.
func NewModel(opts Options) Model {
	cfg := opts.Runtime
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = 60
	}
	if opts.Egg == (config.EggConfig{}) {
		opts.Egg = config.DefaultEggConfig()
	}
	if opts.Mic == nil {
		opts.Mic = mic.Silent{}
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Player == "" {
		opts.Player = "local"
	}

	sim := balance.NewSimulator(cfg.Seed, opts.Egg.BalanceEffects())
	agg := balance.NewAggregator(opts.Egg.MicThreshold())
	driver := balance.NewDriver(sim, agg, opts.Egg.ProfileSource(), cfg.Dt())
	//nolint:errcheck // A fresh machine is in MENU, where the mode can always change
	driver.Machine().SetMode(opts.Mode)

	m := Model{
		driver: driver,
		keys:   NewKeyMapper(),
		hold:   NewHoldTracker(opts.Egg.Input.KeyHoldTicks),
		mic:    opts.Mic,
		store:  opts.Store,
		logger: opts.Logger,
		screen: core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		config: cfg,
		player: opts.Player,
		frame:  balance.Frame{Scene: balance.RestingScene(balance.SideLeft)},
	}
	m.best = m.loadBest()
	return m
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		return m, nil

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	action, isQuit := m.keys.MapKey(msg)
	if isQuit {
		m.quitting = true
		return m, tea.Quit
	}

	machine := m.driver.Machine()
	switch action {
	case core.ActionLeft:
		m.hold.Drop(core.ActionRight)
		m.hold.Press(action)
	case core.ActionRight:
		m.hold.Drop(core.ActionLeft)
		m.hold.Press(action)
	case core.ActionBlow:
		m.hold.Press(action)

	case core.ActionConfirm:
		var err error
		switch machine.Phase() {
		case balance.PhaseMenu:
			err = machine.Start()
		case balance.PhaseGameOver, balance.PhaseVictory:
			err = machine.Retry()
		default:
			return m, nil
		}
		if err != nil {
			m.logger.Warn("cannot start session", "phase", machine.Phase(), "err", err)
			return m, nil
		}
		m.beginSession()

	case core.ActionToggleHard:
		if machine.Phase() != balance.PhaseMenu {
			return m, nil
		}
		next := balance.ModeHard
		if machine.Mode() == balance.ModeHard {
			next = balance.ModeNormal
		}
		if err := machine.SetMode(next); err == nil {
			m.best = m.loadBest()
		}

	case core.ActionBack:
		machine.Back()
		m.hold.Release()
	}

	return m, nil
}

// handleMouse treats a click on either half of the screen as a tap on that side.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}
	side := balance.SideRight
	if msg.X < m.screen.Width()/2 {
		side = balance.SideLeft
	}
	m.touch = &side
	return m, nil
}

// handleTick samples the controls and advances the simulator one frame.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	held := m.hold.Frame()
	c := balance.Controls{
		Left:  held.Has(core.ActionLeft),
		Right: held.Has(core.ActionRight),
		Blow:  held.Has(core.ActionBlow),
		Touch: m.touch,
	}
	// The breath track only advances while a session runs.
	if m.driver.Phase() == balance.PhasePlaying {
		c.Mic = m.mic.Level()
	}

	frame, err := m.driver.Tick(c)
	m.frame = frame
	if err != nil {
		m.logger.Error("session aborted", "mode", m.driver.Machine().Mode(), "err", err)
		m.errText = err.Error()
	}
	if frame.Event != nil {
		m.finish(*frame.Event)
	}

	m.hold.Advance()
	m.touch = nil

	return m, tickCmd(m.config.TickRate)
}

// beginSession prepares shell state for a new session.
func (m *Model) beginSession() {
	m.hold.Release()
	m.touch = nil
	m.last = nil
	m.errText = ""

	if r, ok := m.mic.(interface{ Rewind() error }); ok {
		if err := r.Rewind(); err != nil {
			m.logger.Warn("cannot rewind mic track", "err", err)
		}
	}
}

// finish records a terminal event once.
func (m *Model) finish(ev balance.Event) {
	mode := m.driver.Machine().Mode()
	m.last = &ev
	m.elapsed = m.driver.State().Elapsed
	if m.elapsed > m.best {
		m.best = m.elapsed
	}

	m.logger.Info("session finished",
		"mode", mode,
		"outcome", ev.Kind,
		"elapsed", fmt.Sprintf("%.2f", m.elapsed),
		"remaining", fmt.Sprintf("%.2f", ev.TimeRemaining),
	)

	if m.store == nil {
		return
	}
	_, err := m.store.SaveSession(storage.SessionRecord{
		Mode:          mode.String(),
		Outcome:       ev.Kind.String(),
		TimeRemaining: ev.TimeRemaining,
		Elapsed:       m.elapsed,
		Player:        m.player,
	})
	if err != nil {
		m.logger.Warn("cannot save session", "err", err)
	}
}

func (m Model) loadBest() float64 {
	if m.store == nil {
		return 0
	}
	best, err := m.store.BestTime(m.driver.Machine().Mode().String())
	if err != nil {
		m.logger.Warn("cannot load best time", "err", err)
		return 0
	}
	return best
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	m.draw()

	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	dir := filepath.Join(home, ".eggbalance", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	filename := fmt.Sprintf("egg_%s.txt", time.Now().Format("20060102_150405"))
	//nolint:errcheck // Best-effort save, session continues regardless
	os.WriteFile(filepath.Join(dir, filename), []byte(m.screen.String()), 0o600)
}

func (m Model) draw() {
	DrawScene(m.screen, m.frame.Scene)
	DrawOverlay(m.screen, OverlayInfo{
		Phase:    m.driver.Phase(),
		Mode:     m.driver.Machine().Mode(),
		Last:     m.last,
		Elapsed:  m.elapsed,
		BestTime: m.best,
		MicLive:  m.micLive(),
		Err:      m.errText,
	})
}

func (m Model) micLive() bool {
	_, silent := m.mic.(mic.Silent)
	return !silent
}

// Phase returns the current shell phase.
func (m Model) Phase() balance.Phase {
	return m.driver.Phase()
}

// Frame returns the last simulated frame.
func (m Model) Frame() balance.Frame {
	return m.frame
}

// Last returns the outcome of the last finished session, if any.
func (m Model) Last() *balance.Event {
	return m.last
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	m.draw()
	return RenderScreen(m.screen)
}

// Run starts the Bubble Tea program with the given options.
func Run(opts Options) error {
	p := tea.NewProgram(
		NewModel(opts),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	_, err := p.Run()
	return err
}
