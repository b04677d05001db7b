// Command treeview turns flat records that point at their parent into a
// collapsible tree and shows it in the terminal, dumps it, exports it or
// reports on how it was built.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vanderheijden86/treeview/pkg/config"
	"github.com/vanderheijden86/treeview/pkg/loader"
	"github.com/vanderheijden86/treeview/pkg/state"
	"github.com/vanderheijden86/treeview/pkg/tree"
)

var version = "dev"

func main() {
	if err := newRootCmd(defaultOptions()).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "treeview: %v\n", err)
		os.Exit(1)
	}
}

// options holds the global flags.
type options struct {
	inputFormat string
	table       string
	fields      tree.FieldNames
	label       []string
	indent      int
	configPath  string
	logLevel    string
	watch       bool
	debounce    time.Duration
	statePath   string
	noState     bool

	isTerminal func() bool
}

func defaultOptions() *options {
	return &options{
		inputFormat: string(loader.FormatAuto),
		table:       loader.DefaultTable,
		logLevel:    "warn",
		isTerminal: func() bool {
			return term.IsTerminal(int(os.Stdout.Fd()))
		},
	}
}

func newRootCmd(opts *options) *cobra.Command {
	root := &cobra.Command{
		Use:   "treeview [FILE...]",
		Short: "Browse flat parent-linked records as a tree",
		Long: `treeview reads records from JSON, JSON Lines, YAML or SQLite files.
Each record names its own id and, optionally, the id of its parent. Records
are attached under their parents in input order; records whose parent never
appears are dropped.`,
		Version:       version,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runView(cmd, opts, args)
		},
	}

	f := root.PersistentFlags()
	f.StringVar(&opts.inputFormat, "input-format", opts.inputFormat, "input format: auto, json, jsonl, yaml, sqlite")
	f.StringVar(&opts.table, "table", opts.table, "SQLite table to read")
	f.StringVar(&opts.fields.ID, "id-field", "", "field holding the node id (default \"id\")")
	f.StringVar(&opts.fields.ParentID, "parent-field", "", "field holding the parent id (default \"id_parent\")")
	f.StringVar(&opts.fields.IsGroup, "group-field", "", "field flagging a group (default \"is_group\")")
	f.StringVar(&opts.fields.Expanded, "expanded-field", "", "field flagging an expanded group (default \"expanded\")")
	f.StringVar(&opts.fields.Children, "children-field", "", "reserved children field name (default \"TreeViewChildren\")")
	f.StringSliceVar(&opts.label, "label", nil, "fields shown for each node (default name)")
	f.IntVar(&opts.indent, "indent", 0, "columns per tree level")
	f.StringVar(&opts.configPath, "config", "", "config file (default: nearest .treeview/config.yaml)")
	f.StringVar(&opts.logLevel, "log-level", opts.logLevel, "log level: debug, info, warn, error")
	f.BoolVar(&opts.watch, "watch", false, "rebuild when an input file changes")
	f.DurationVar(&opts.debounce, "debounce", 0, "quiet period before a rebuild")
	f.StringVar(&opts.statePath, "state", "", "expansion state file")
	f.BoolVar(&opts.noState, "no-state", false, "do not read or write expansion state")

	root.AddCommand(
		newViewCmd(opts),
		newDumpCmd(opts),
		newExportCmd(opts),
		newStatsCmd(opts),
		newInitCmd(opts),
	)
	return root
}

// session is everything a command needs after flags and config are
// resolved.
type session struct {
	cfg       *config.Config
	root      string // project root, owner of .treeview
	files     []string
	logger    *slog.Logger
	builder   *tree.Builder
	statePath string // empty when state is disabled
	loadOpts  loader.Options
}

func newSession(cmd *cobra.Command, opts *options, files []string, logOut io.Writer) (*session, error) {
	logger, err := newLogger(logOut, opts.logLevel)
	if err != nil {
		return nil, err
	}

	cfg, root, err := loadConfig(opts.configPath)
	if err != nil {
		return nil, err
	}
	if err := applyFlags(cmd, opts, cfg); err != nil {
		return nil, err
	}

	format := loader.Format(opts.inputFormat)
	if !format.IsValid() {
		return nil, fmt.Errorf("invalid --input-format %q", opts.inputFormat)
	}

	s := &session{
		cfg:   cfg,
		root:  root,
		files: files,
		loadOpts: loader.Options{
			Format: format,
			Table:  opts.table,
		},
	}
	if err := s.setLogger(logger); err != nil {
		return nil, err
	}
	switch {
	case opts.noState:
	case opts.statePath != "":
		s.statePath = opts.statePath
	default:
		s.statePath = cfg.StatePath(root)
	}
	return s, nil
}

func newLogger(w io.Writer, levelName string) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(levelName)); err != nil {
		return nil, fmt.Errorf("invalid --log-level %q", levelName)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), nil
}

func (s *session) setLogger(logger *slog.Logger) error {
	builder, err := tree.NewBuilder(tree.WithFieldNames(s.cfg.Fields), tree.WithLogger(logger))
	if err != nil {
		return err
	}
	s.logger = logger
	s.builder = builder
	s.loadOpts.Logger = logger
	return nil
}

// setLogOutput redirects logging, used once the viewer owns the terminal.
func (s *session) setLogOutput(w io.Writer, levelName string) error {
	logger, err := newLogger(w, levelName)
	if err != nil {
		return err
	}
	return s.setLogger(logger)
}

// loadConfig reads an explicit config file, or the nearest one above the
// working directory.
func loadConfig(path string) (*config.Config, string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, "", err
	}
	if path != "" {
		cfg, err := config.Load(path)
		if err != nil {
			return nil, "", err
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, "", err
		}
		return cfg, config.ProjectRoot(filepath.Dir(abs)), nil
	}
	cfg, root, err := config.LoadFrom(wd)
	if err != nil {
		return nil, "", err
	}
	if root == "" {
		root = wd
	}
	return cfg, root, nil
}

// applyFlags lets explicitly set flags override the config file.
func applyFlags(cmd *cobra.Command, opts *options, cfg *config.Config) error {
	flags := cmd.Flags()
	set := func(name string, dst *string, v string) {
		if flags.Changed(name) {
			*dst = v
		}
	}
	set("id-field", &cfg.Fields.ID, opts.fields.ID)
	set("parent-field", &cfg.Fields.ParentID, opts.fields.ParentID)
	set("group-field", &cfg.Fields.IsGroup, opts.fields.IsGroup)
	set("expanded-field", &cfg.Fields.Expanded, opts.fields.Expanded)
	set("children-field", &cfg.Fields.Children, opts.fields.Children)
	cfg.Fields = cfg.Fields.WithDefaults()

	if flags.Changed("label") {
		cfg.Label = opts.label
	}
	if flags.Changed("indent") {
		cfg.Indent = opts.indent
	}
	if flags.Changed("watch") {
		cfg.Watch = opts.watch
	}
	if flags.Changed("debounce") {
		cfg.Debounce = config.Duration(opts.debounce)
	}
	return cfg.Validate()
}

// build loads every input file and builds the forest.
func (s *session) build(ctx context.Context) (*tree.Forest, *tree.Report, error) {
	records, err := loader.LoadAll(ctx, s.files, s.loadOpts)
	if err != nil {
		return nil, nil, err
	}
	forest, report, err := s.builder.BuildReport(records)
	if err != nil {
		return nil, nil, err
	}
	if n := len(report.Dropped); n > 0 {
		s.logger.Info("some records could not be attached", "dropped", n, "attached", report.Attached)
	}
	return forest, report, nil
}

// restoreState applies saved expansion so non-interactive output matches
// what the viewer last showed.
func (s *session) restoreState(forest *tree.Forest) {
	if s.statePath == "" {
		return
	}
	state.Load(s.statePath, s.logger).Apply(forest)
}

// ensureIgnored keeps .treeview out of git when state is written inside a
// repository.
func (s *session) ensureIgnored() {
	if s.statePath == "" || !strings.HasPrefix(s.statePath, filepath.Join(s.root, config.Dir)) {
		return
	}
	if _, err := os.Stat(filepath.Join(s.root, ".git")); err != nil {
		return
	}
	if err := state.EnsureIgnored(s.root); err != nil {
		s.logger.Warn("failed to update .gitignore", "err", err)
	}
}

// openLog returns the file the viewer logs to while it owns the terminal.
func (s *session) openLog() (io.WriteCloser, error) {
	dir := filepath.Join(s.root, config.Dir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(filepath.Join(dir, "treeview.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
}

var errNoInput = errors.New("no input files")
