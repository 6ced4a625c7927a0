package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"stepscope/internal/logging"
	"stepscope/internal/render"
	"stepscope/internal/session"
	"stepscope/internal/store"
)

func main() {
	flags := pflag.NewFlagSet("stepscope", pflag.ExitOnError)
	configFile := flags.String("config", "", "config file (default $HOME/.stepscope/stepscope.yaml)")
	flags.String("log-level", "info", "log level: trace, debug, info, warn, error, off")
	flags.String("shapes", "current", "shape tag table: current, legacy")
	exportPath := flags.String("export", "", "render one step to this PNG and exit")
	exportStep := flags.Int("step", -1, "step to render with --export (default: first collision)")
	exportDir := flags.String("export-collisions", "", "render every collision step into this directory and exit")
	flags.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: stepscope [flags] [trace-file]\n\n")
		flags.PrintDefaults()
	}
	flags.Parse(os.Args[1:])

	cfg, err := loadConfig(*configFile, flags)
	if err != nil {
		log.Fatal(err)
	}

	logger, logCloser, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Fatal(err)
	}
	defer logCloser.Close()

	sc, err := cfg.Session()
	if err != nil {
		log.Fatal(err)
	}

	marks, closeStore := openStore(cfg, logger)
	defer closeStore()

	traceFile := flags.Arg(0)
	if *exportPath != "" || *exportDir != "" {
		sess := session.New(sc, float64(cfg.ExportWidth), float64(cfg.ExportHeight), marks, logger)
		if err := runHeadless(cfg, sess, traceFile, *exportPath, *exportStep, *exportDir); err != nil {
			logger.Error().Err(err).Msg("Export failed")
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	sess := session.New(sc, 0, 0, marks, logger)
	p := tea.NewProgram(
		newModel(cfg, sess, logger, traceFile),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	if _, err := p.Run(); err != nil {
		log.Fatal(err)
	}
}

// openStore opens the bookmark database. Failures are logged and the viewer
// runs without bookmarks.
func openStore(cfg *Config, logger zerolog.Logger) (session.Bookmarks, func()) {
	if !cfg.StoreEnabled {
		return nil, func() {}
	}
	st, err := store.Open(cfg.StorePath, logger)
	if err != nil {
		logger.Warn().Err(err).Str("path", cfg.StorePath).Msg("Bookmarks disabled")
		return nil, func() {}
	}
	return st, func() {
		if err := st.Close(); err != nil {
			logger.Warn().Err(err).Msg("Failed to close bookmark store")
		}
	}
}

func newModel(cfg *Config, sess *session.Session, logger zerolog.Logger, initialFile string) model {
	input := textinput.New()
	input.Prompt = ""
	input.CharLimit = 4096

	keys := defaultKeyMap()
	keys.setBookmarks(sess.BookmarksEnabled())

	return model{
		mode:              ModeNormal,
		session:           sess,
		renderer:          render.New(),
		config:            cfg,
		log:               logger,
		keys:              keys,
		helpModel:         help.New(),
		input:             input,
		selectedFileIndex: -1,
		initialFile:       initialFile,
		loading:           initialFile,
	}
}

// runHeadless renders without a terminal: one step to exportPath, and every
// collision step into exportDir.
func runHeadless(cfg *Config, sess *session.Session, traceFile, exportPath string, step int, exportDir string) error {
	if traceFile == "" {
		return errors.New("a trace file is required for export")
	}
	tr, err := session.ReadTrace(traceFile, sess.Tags())
	if err != nil {
		return err
	}
	if err := sess.Install(traceFile, tr); err != nil {
		return err
	}

	w, h, ss := cfg.ExportWidth, cfg.ExportHeight, cfg.Supersample

	if exportPath != "" {
		if step >= 0 {
			sess.Seek(step)
		}
		if _, err := runExport([]exportJob{{path: exportPath, frame: sess.Frame(true)}}, w, h, ss); err != nil {
			return err
		}
		fmt.Printf("Exported step %d to %s\n", sess.Index(), exportPath)
	}

	if exportDir != "" {
		dirCfg := *cfg
		dirCfg.ExportDir = exportDir
		jobs := collisionJobs(&dirCfg, traceFile, tr.Collisions, sess.FramesAt(tr.Collisions, true))
		n, err := runExport(jobs, w, h, ss)
		if err != nil {
			return err
		}
		fmt.Printf("Exported %d collision steps to %s\n", n, exportDir)
	}
	return nil
}
