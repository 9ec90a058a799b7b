// Command voxelsim runs the entity simulation headless. Input commands are
// read one per line from stdin; the frame loop runs until SIGINT or SIGTERM.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/Graylog2/go-gelf/gelf"

	"github.com/voxelrealm/simcore/internal/api"
	"github.com/voxelrealm/simcore/internal/behavior"
	"github.com/voxelrealm/simcore/internal/combat"
	"github.com/voxelrealm/simcore/internal/config"
	"github.com/voxelrealm/simcore/internal/dice"
	"github.com/voxelrealm/simcore/internal/director"
	"github.com/voxelrealm/simcore/internal/dispatcher"
	"github.com/voxelrealm/simcore/internal/influx"
	"github.com/voxelrealm/simcore/internal/logging"
	"github.com/voxelrealm/simcore/internal/monitor"
	intOtel "github.com/voxelrealm/simcore/internal/otel"
	"github.com/voxelrealm/simcore/internal/projectile"
	"github.com/voxelrealm/simcore/internal/scheduler"
	"github.com/voxelrealm/simcore/internal/session"
	"github.com/voxelrealm/simcore/internal/sink"
	"github.com/voxelrealm/simcore/internal/storage"
	"github.com/voxelrealm/simcore/internal/terrain"
	"github.com/voxelrealm/simcore/internal/tuning"
	"github.com/voxelrealm/simcore/internal/worker"
	"github.com/voxelrealm/simcore/internal/world"
	"github.com/voxelrealm/simcore/pkg/core"
)

// BuildDate can be set at build time via ldflags
var (
	CurrentVersion string = "0.1.0"
	BuildDate      string = "unknown"
)

const appName = "voxelsim"

// host owns every long-lived component of the process.
type host struct {
	configDir string
	logLevel  string
	started   time.Time

	slog    *logging.SlogManager
	logger  *slog.Logger
	file    *os.File
	gelf    *gelf.Writer
	otel    *intOtel.Provider
	influx  *influx.Manager
	backend storage.Backend

	sim      config.SimConfig
	tune     tuning.Tuning
	heights  terrain.Flat
	sessions *session.Context
	store    *world.Store
	spawner  *world.Spawner
	sched    *scheduler.Registry
	director *director.Director
	workers  *worker.Manager
	monitor  *monitor.Service
	dispatch *dispatcher.Dispatcher
	rand     dice.Source

	cancel context.CancelFunc
}

func main() {
	configDir := flag.String("config", ".", "directory containing "+config.FileName)
	load := flag.String("load", "", `session id or save path to resume, "latest" for the newest save`)
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	h := &host{configDir: *configDir, started: time.Now(), cancel: cancel}
	if err := h.run(ctx, *load); err != nil {
		fmt.Fprintln(os.Stderr, "voxelsim:", err)
		os.Exit(1)
	}
}

func (h *host) run(ctx context.Context, load string) error {
	h.sessions = session.NewContext()
	h.setupLogging(ctx)
	defer h.closeLogging()

	if err := h.setupWorld(); err != nil {
		return err
	}
	if err := h.initStorage(); err != nil {
		return err
	}
	h.setupInflux(ctx)

	if err := h.setupWorkers(); err != nil {
		return err
	}

	if err := h.openSession(load); err != nil {
		h.shutdown()
		return err
	}

	go h.readCommands(ctx, os.Stdin, os.Stdout)
	h.loop(ctx)
	h.shutdown()
	return nil
}

// setupLogging loads config, opens the session log file and builds the
// slog pipeline with optional GELF and OpenTelemetry outputs.
func (h *host) setupLogging(ctx context.Context) {
	h.slog = logging.NewSlogManager()
	h.logger = h.slog.Logger()

	if err := config.Load(h.configDir); err != nil {
		h.logger.Warn("Failed to load config, using defaults!", "error", err)
	}
	h.logLevel = config.GetString("logLevel")
	h.sim = config.GetSimConfig()

	logsDir := config.GetString("logsDir")
	file, err := logging.OpenLogFile(logsDir, appName, h.started)
	if err != nil {
		h.logger.Error("Failed to open log file, logging to stdout", "error", err)
	} else {
		h.file = file
	}

	opts := logging.Options{
		Level: h.logLevel,
		Context: logging.SessionAttrs(h.sessions, func() uint64 {
			if h.store == nil {
				return 0
			}
			return h.store.Tick()
		}),
	}
	if h.file != nil {
		opts.File = h.file
	}

	if gc := config.GetGraylogConfig(); gc.Enabled {
		w, err := logging.NewGELFWriter(gc.Address, appName)
		if err != nil {
			h.logger.Error("Failed to set up Graylog output", "error", err)
		} else {
			h.gelf = w
			opts.GELF = w
		}
	}

	otelCfg := config.GetOTelConfig()
	if otelCfg.Enabled {
		var logWriter io.Writer
		if h.file != nil {
			logWriter = h.file
		}
		p, err := intOtel.New(ctx, intOtel.Config{
			Enabled:      true,
			ServiceName:  otelCfg.ServiceName,
			WorldName:    h.sim.WorldName,
			BatchTimeout: otelCfg.BatchTimeout,
			LogWriter:    logWriter,
			Endpoint:     otelCfg.Endpoint,
			Insecure:     otelCfg.Insecure,
		})
		if err != nil {
			h.logger.Error("Failed to initialize OTel provider", "error", err)
		} else {
			h.otel = p
			opts.Provider = p.LoggerProvider()
		}
	}

	h.slog.Setup(opts)
	h.logger = h.slog.Logger()
	h.logger.Info("Starting up", "version", CurrentVersion, "build", BuildDate)
}

// logFile is where zerolog components write.
func (h *host) logFile() io.Writer {
	if h.file == nil {
		return os.Stderr
	}
	return h.file
}

func (h *host) setupWorld() error {
	h.tune = tuning.Default()
	if path := config.GetString("tuningFile"); path != "" {
		t, err := tuning.Load(path)
		if err != nil {
			return fmt.Errorf("failed to load tuning: %w", err)
		}
		h.tune = t
		h.logger.Info("Loaded tuning", "path", path)
	}
	if h.sim.MaxCharacters > 0 {
		h.tune.World.MaxCharacters = h.sim.MaxCharacters
	}
	if h.sim.MaxProjectiles > 0 {
		h.tune.World.MaxProjectiles = h.sim.MaxProjectiles
	}
	if h.sim.MaxDroppedItems > 0 {
		h.tune.World.MaxDroppedItems = h.sim.MaxDroppedItems
	}

	h.heights = terrain.Flat{Level: h.sim.GroundLevel}
	h.store = world.NewStore(h.tune.World, newPlayer(h.heights))
	h.spawner = world.NewSpawner(h.store, h.heights)
	h.sched = scheduler.New(time.Now)
	return nil
}

func newPlayer(heights terrain.Heightmap) core.Player {
	return core.Player{
		Position: terrain.SurfaceAt(heights, 0, 0),
		HP:       100,
		MaxHP:    100,
		Inventory: []core.InventoryItem{
			{Type: core.ItemWeapon, Count: 1},
			{Type: core.ItemBow, Count: 1},
			{Type: core.ItemArrow, Count: 32},
		},
		Stats: core.DefaultPlayerStats(),
	}
}

func (h *host) setupInflux(ctx context.Context) {
	cfg := config.GetInfluxConfig()
	if !cfg.Enabled {
		return
	}
	m := influx.NewManager(cfg, logging.NewZerolog(h.logFile(), h.logLevel, "influx"),
		filepath.Join(config.GetString("logsDir"), "influx_backup.lp.gz"))
	if err := m.Connect(ctx); err != nil {
		h.logger.Error("InfluxDB unavailable, tick stats stay local", "error", err)
		return
	}
	h.influx = m
}

// setupWorkers wires combat, the director and the command handlers.
func (h *host) setupWorkers() error {
	notes := sink.Log{Logger: h.logger.With("sink", "ui")}
	tally := &sink.Tally{Logger: h.logger}
	recorder := sink.NewRecorder(4096)

	seed := h.sim.Seed
	if seed == 0 {
		seed = h.started.UnixNano()
		h.sim.Seed = seed
	}
	h.rand = dice.New(seed)

	resolver := combat.NewResolver(h.tune, combat.Dependencies{
		State:    h.store,
		Session:  h.sessions,
		Notifier: notes,
		Sounds:   notes,
		Progress: tally,
		Events:   recorder,
		Rand:     h.rand,
		Clock:    time.Now,
	})

	d, err := director.New(director.Config{AIInterval: h.sim.AIInterval, Tuning: h.tune}, director.Dependencies{
		Store:       h.store,
		Spawner:     h.spawner,
		Behavior:    behavior.NewDispatcher(h.tune.AI),
		Projectiles: projectile.NewIntegrator(h.tune.Projectiles, projectile.Dependencies{Notifier: notes, Sounds: notes}),
		Combat:      resolver,
		Session:     h.sessions,
		Blocks:      h.heights,
		Heights:     h.heights,
		Notifier:    notes,
		Sounds:      notes,
		Events:      recorder,
		Rand:        h.rand,
		Logger:      h.logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create director: %w", err)
	}
	h.director = d

	h.dispatch, err = dispatcher.New(logging.NewDispatcherLogger(
		logging.NewZerolog(h.logFile(), h.logLevel, "dispatcher"),
		logging.WithSession(func() string { return h.sessions.Current().ID }),
		logging.WithSampledCommands(20, time.Second, ":ATTACK:", ":SLOT:"),
	))
	if err != nil {
		return fmt.Errorf("failed to create dispatcher: %w", err)
	}

	h.workers = worker.NewManager(worker.Dependencies{
		Store:      h.store,
		Spawner:    h.spawner,
		Resolver:   resolver,
		Director:   d,
		Recorder:   recorder,
		Session:    h.sessions,
		Scheduler:  h.sched,
		Heights:    h.heights,
		Notifier:   notes,
		Rand:       h.rand,
		LogManager: h.slog,
		Version:    CurrentVersion,
		OnReset: func(core.Session) {
			tally.Reset()
			h.armTimers()
		},
	}, h.backend)
	h.workers.RegisterHandlers(h.dispatch)
	h.registerLifecycleHandlers(h.dispatch)

	var points monitor.PointWriter
	if h.influx != nil {
		points = h.influx
	}
	h.monitor = monitor.NewService(monitor.Dependencies{
		Store:      h.store,
		Session:    h.sessions,
		Timer:      d,
		Backend:    h.backend,
		Influx:     points,
		LogManager: h.slog,
		StatusPath: filepath.Join(config.GetString("logsDir"), "status.json"),
	})
	return nil
}

func (h *host) registerLifecycleHandlers(d *dispatcher.Dispatcher) {
	d.Register(":VERSION:", func(dispatcher.Event) (any, error) {
		return []string{CurrentVersion, BuildDate}, nil
	})

	d.Register(":STATUS:", func(dispatcher.Event) (any, error) {
		return h.monitor.Sample(time.Now()), nil
	})

	d.Register(":QUIT:", func(dispatcher.Event) (any, error) {
		h.logger.Info("Quit requested")
		h.cancel()
		return "ok", nil
	})
}

// openSession resumes a save when load is set, otherwise starts fresh.
func (h *host) openSession(load string) error {
	if load != "" {
		ref := load
		if ref == "latest" {
			ref = ""
		}
		if _, err := h.workers.LoadWorld(ref, time.Now()); err != nil {
			return fmt.Errorf("failed to load %q: %w", load, err)
		}
		return nil
	}

	if _, err := h.workers.StartSession(h.sim.WorldName, h.sim.Seed, parseDifficulty(h.sim.Difficulty)); err != nil {
		return err
	}
	h.armTimers()
	return nil
}

func parseDifficulty(s string) core.Difficulty {
	switch d := core.Difficulty(strings.ToLower(s)); d {
	case core.DifficultyNormal, core.DifficultyUnderworld:
		return d
	default:
		return core.DifficultyNormal
	}
}

// armTimers schedules the periodic host tasks. Reset and load cancel every
// task, so this runs again afterwards.
func (h *host) armTimers() {
	if h.sim.AutoSpawnInterval > 0 {
		h.sched.Every("autospawn", h.sim.AutoSpawnInterval, func(time.Time) {
			if n := h.spawner.AutoSpawn(h.rand, h.sim.AutoSpawnCount); n > 0 {
				h.logger.Debug("Auto-spawned characters", "count", n)
			}
		})
	}
	if h.sim.AutosaveInterval > 0 {
		h.sched.Every("autosave", h.sim.AutosaveInterval, func(time.Time) {
			h.dispatchInternal(":SAVE:")
		})
	}
	if h.sim.MonitorInterval > 0 {
		h.sched.Every("monitor", h.sim.MonitorInterval, func(now time.Time) {
			h.monitor.Report(now)
		})
	}
	h.sched.Every("flush", time.Second, func(time.Time) {
		h.dispatchInternal(":FLUSH:")
	})
}

func (h *host) dispatchInternal(command string) {
	if _, err := h.dispatch.Dispatch(dispatcher.Event{Command: command}); err != nil && !errors.Is(err, dispatcher.ErrQueueFull) {
		h.logger.Error("Internal command failed", "command", command, "error", err)
	}
}

// loop runs frames at the configured rate until ctx is done.
func (h *host) loop(ctx context.Context) {
	rate := h.sim.FrameRate
	if rate <= 0 {
		rate = 20
	}
	ticker := time.NewTicker(time.Second / time.Duration(rate))
	defer ticker.Stop()

	h.logger.Info("Frame loop running", "frameRate", rate)
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			h.frame(now)
		}
	}
}

func (h *host) frame(now time.Time) {
	h.workers.Apply(now)
	h.sched.Poll(now)
	h.director.Frame(now)
}

// shutdown saves, ends the session and releases every resource in reverse
// order of setup.
func (h *host) shutdown() {
	h.logger.Info("Shutting down")

	h.workers.Apply(time.Now())
	if _, err := h.workers.SaveWorld(time.Now()); err != nil && !errors.Is(err, worker.ErrNoSession) {
		h.logger.Error("Final save failed", "error", err)
	}
	if err := h.workers.EndSession(); err != nil {
		h.logger.Error("Failed to end session", "error", err)
	}
	h.sched.CancelAll()
	h.dispatch.Close()

	if err := h.backend.Close(); err != nil {
		h.logger.Error("Failed to close storage backend", "error", err)
	}
	h.upload()

	if h.influx != nil {
		if err := h.influx.Close(); err != nil {
			h.logger.Error("Failed to close InfluxDB", "error", err)
		}
	}
}

// upload sends the session export to the archive server when the backend
// produced one and an API key is configured.
func (h *host) upload() {
	u, ok := h.backend.(storage.Uploadable)
	if !ok || u.ExportedFilePath() == "" {
		return
	}
	apiCfg := config.GetAPIConfig()
	if apiCfg.APIKey == "" {
		h.logger.Info("Session export kept locally", "path", u.ExportedFilePath())
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	client := api.New(apiCfg.ServerURL, apiCfg.APIKey)
	if err := client.Healthcheck(ctx); err != nil {
		h.logger.Warn("Archive server unreachable, export kept locally", "path", u.ExportedFilePath(), "error", err)
		return
	}
	meta := u.ExportMetadata()
	if err := client.Upload(ctx, u.ExportedFilePath(), meta); err != nil {
		h.logger.Error("Failed to upload session export", "session", meta.SessionID, "error", err)
		return
	}
	h.logger.Info("Session export uploaded", "path", u.ExportedFilePath(), "session", meta.SessionID, "kills", meta.Kills)
}

func (h *host) closeLogging() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := h.slog.Flush(ctx); err != nil {
		h.logger.Warn("Failed to flush logs", "error", err)
	}
	if h.otel != nil {
		if err := h.otel.Shutdown(ctx); err != nil {
			fmt.Fprintln(os.Stderr, "otel shutdown:", err)
		}
	}
	if h.gelf != nil {
		_ = h.gelf.Close()
	}
	if h.file != nil {
		_ = h.file.Close()
	}
}
