// Package cli wires configuration, logging and storage together and exposes
// them as the todo command tree. Running todo without a subcommand starts
// the terminal UI.
package cli

import (
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/tgienger/todo/internal/attach"
	"github.com/tgienger/todo/internal/config"
	"github.com/tgienger/todo/internal/db"
	"github.com/tgienger/todo/internal/logger"
	"github.com/tgienger/todo/internal/memstore"
	"github.com/tgienger/todo/internal/models"
	"github.com/tgienger/todo/internal/ui"
)

// BuildInfo is set via ldflags in main
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

func (b BuildInfo) String() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", b.Version, b.Commit, b.Date)
}

// Store is everything the commands need from a task store
type Store interface {
	ui.Store
	GetTask(id int64) (*models.Task, error)
	AddTagsToTask(taskID int64, names []string) error
	ClearTagsForTask(taskID int64) error
	DeleteTag(id int64) error
}

// env carries flag values and the resources opened for a single run
type env struct {
	stdout io.Writer
	stderr io.Writer

	cfgFile   string
	dbPath    string
	attachDir string
	logLevel  string
	memory    bool

	cfg    *config.Config
	store  Store
	attach *attach.Resolver
	close  func() error
}

// open loads configuration and opens the log file, the store and the
// attachment directory
func (e *env) open() error {
	cfg, err := config.Load(e.cfgFile, config.Overrides{
		DBPath:         e.dbPath,
		AttachmentsDir: e.attachDir,
		LogLevel:       e.logLevel,
	})
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	e.cfg = cfg

	if err := logger.Init(cfg.Logging.Path, cfg.Logging.Level); err != nil {
		return err
	}
	if cfg.File != "" {
		logger.Debug("using config file %s", cfg.File)
	}

	if e.memory {
		logger.Info("using in-memory store")
		e.store = memstore.New()
		e.close = func() error { return nil }
	} else {
		database, err := db.Open(cfg.Database.Path)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		e.store = database
		e.close = database.Close
	}

	resolver, err := attach.New(cfg.Attachments.Dir)
	if err != nil {
		return err
	}
	e.attach = resolver
	return nil
}

func (e *env) shutdown() error {
	defer logger.Close()
	if e.close == nil {
		return nil
	}
	err := e.close()
	e.close = nil
	return err
}

// newRootCmd builds the command tree writing to stdout and stderr. The
// returned env must be shut down once the command has run.
func newRootCmd(stdout, stderr io.Writer, info BuildInfo) (*cobra.Command, *env) {
	e := &env{stdout: stdout, stderr: stderr}

	cmd := &cobra.Command{
		Use:   "todo",
		Short: "A terminal to-do list with deadlines, tags and image attachments",
		Long: `todo keeps tasks with deadlines, tags and optional image attachments in a
local SQLite database. Run it without arguments for the interactive UI, or use
the subcommands for scripting.`,
		Version: info.String(),
		Args:    cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" || cmd.Name() == "help" ||
				cmd.Name() == cobra.ShellCompRequestCmd ||
				cmd.Name() == cobra.ShellCompNoDescRequestCmd {
				return nil
			}
			return e.open()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			app := ui.NewApp(e.store, e.attach, e.cfg.UI.RefreshInterval)
			p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("error running application: %w", err)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	cmd.PersistentFlags().StringVar(&e.cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/todo/config.yaml or ./config.yaml)")
	cmd.PersistentFlags().StringVar(&e.dbPath, "db", "", "path to SQLite database file (overrides config/default)")
	cmd.PersistentFlags().StringVar(&e.attachDir, "attachments", "", "directory for image attachments (overrides config/default)")
	cmd.PersistentFlags().StringVar(&e.logLevel, "log-level", "", "log level: DEBUG, INFO, WARN, ERROR (overrides config/default)")
	cmd.PersistentFlags().BoolVar(&e.memory, "memory", false, "keep tasks in memory only; nothing is saved")

	cmd.AddCommand(
		newAddCmd(e),
		newEditCmd(e),
		newListCmd(e),
		newShowCmd(e),
		newDoneCmd(e),
		newUndoneCmd(e),
		newRmCmd(e),
		newClearCompletedCmd(e),
		newTagsCmd(e),
		newExportCmd(e),
		newVersionCmd(e, info),
	)
	return cmd, e
}

// Execute runs the command tree and returns the process exit code
func Execute(stdout, stderr io.Writer, info BuildInfo) int {
	cmd, e := newRootCmd(stdout, stderr, info)
	err := cmd.Execute()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		logger.Error("%v", err)
	}
	if cerr := e.shutdown(); cerr != nil && err == nil {
		fmt.Fprintf(stderr, "Error: %v\n", cerr)
		return 1
	}
	if err != nil {
		return 1
	}
	return 0
}
