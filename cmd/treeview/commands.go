package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/vanderheijden86/treeview/pkg/export"
	"github.com/vanderheijden86/treeview/pkg/tree"
	"github.com/vanderheijden86/treeview/pkg/ui"
	"github.com/vanderheijden86/treeview/pkg/watcher"
)

func newViewCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "view FILE...",
		Short: "Browse the tree interactively",
		Long:  "Browse the tree interactively. When stdout is not a terminal the flat serialization is printed instead.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runView(cmd, opts, args)
		},
	}
}

func runView(cmd *cobra.Command, opts *options, args []string) error {
	if len(args) == 0 {
		return errNoInput
	}
	if !opts.isTerminal() {
		return runDump(cmd, opts, args, false)
	}

	s, err := newSession(cmd, opts, args, io.Discard)
	if err != nil {
		return err
	}
	if logFile, err := s.openLog(); err == nil {
		defer logFile.Close()
		if err := s.setLogOutput(logFile, opts.logLevel); err != nil {
			return err
		}
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	forest, _, err := s.build(ctx)
	if err != nil {
		return err
	}
	s.ensureIgnored()

	model := ui.New(forest, ui.Options{
		Title:      strings.Join(baseNames(args), ", "),
		FieldNames: s.cfg.Fields,
		Label:      s.cfg.Label,
		Indent:     s.cfg.Indent,
		StatePath:  s.statePath,
		Logger:     s.logger,
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())

	if s.cfg.Watch {
		w, err := watcher.New(args, func() {
			forest, report, err := s.build(ctx)
			p.Send(ui.ReloadMsg{Forest: forest, Report: report, Err: err})
		}, watcher.WithDebounce(time.Duration(s.cfg.Debounce)), watcher.WithLogger(s.logger))
		if err != nil {
			return err
		}
		defer w.Close()
		go func() {
			_ = w.Run(ctx)
		}()
	}

	_, err = p.Run()
	return err
}

func newDumpCmd(opts *options) *cobra.Command {
	var pretty bool
	cmd := &cobra.Command{
		Use:   "dump FILE...",
		Short: "Print the tree as a flat depth-first JSON array",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(cmd, opts, args, pretty)
		},
	}
	cmd.Flags().BoolVar(&pretty, "pretty", false, "indent the output")
	return cmd
}

func runDump(cmd *cobra.Command, opts *options, args []string, pretty bool) error {
	s, err := newSession(cmd, opts, args, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	forest, _, err := s.build(cmd.Context())
	if err != nil {
		return err
	}
	s.restoreState(forest)

	out := cmd.OutOrStdout()
	if !pretty {
		if _, err := forest.WriteTo(out); err != nil {
			return err
		}
		_, err = fmt.Fprintln(out)
		return err
	}

	data, err := forest.MarshalJSON()
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return err
	}
	buf.WriteByte('\n')
	_, err = buf.WriteTo(out)
	return err
}

func newExportCmd(opts *options) *cobra.Command {
	var (
		format  string
		output  string
		title   string
		visible bool
		render  bool
	)
	cmd := &cobra.Command{
		Use:   "export FILE...",
		Short: "Export the tree as Markdown, SVG or PNG",
		Long: `Export the tree as a Markdown outline, an SVG drawing or a PNG image.
SVG and PNG draw the rows the viewer would show, using the saved expansion state.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, opts, args, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			forest, _, err := s.build(cmd.Context())
			if err != nil {
				return err
			}
			s.restoreState(forest)

			if format == "" {
				format = formatFromPath(output)
			}
			exportOpts := export.Options{Title: title, Label: s.cfg.Label, VisibleOnly: visible}

			var w io.Writer = cmd.OutOrStdout()
			if output != "" && output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}

			switch format {
			case "md", "markdown":
				md := export.Markdown(forest, exportOpts)
				if render {
					if md, err = export.RenderMarkdown(md, 100, ""); err != nil {
						return err
					}
				}
				_, err = io.WriteString(w, md)
			case "svg":
				err = export.SVG(w, forest, exportOpts)
			case "png":
				err = export.PNG(w, forest, exportOpts)
			default:
				return fmt.Errorf("unknown export format %q (want md, svg or png)", format)
			}
			if err != nil {
				return err
			}
			if output != "" && output != "-" {
				s.logger.Info("exported", "format", format, "path", output)
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&format, "format", "", "md, svg or png (default from -o extension, else md)")
	f.StringVarP(&output, "output", "o", "", "output file (default stdout)")
	f.StringVar(&title, "title", "", "title above the outline")
	f.BoolVar(&visible, "visible", false, "Markdown: only rows the viewer would show")
	f.BoolVar(&render, "render", false, "Markdown: render for the terminal")
	return cmd
}

func formatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".svg":
		return "svg"
	case ".png":
		return "png"
	default:
		return "md"
	}
}

// Stats is the output of the stats command.
type Stats struct {
	Input    int       `json:"input"`
	Skipped  int       `json:"skipped"`
	Attached int       `json:"attached"`
	Dropped  int       `json:"dropped"`
	Passes   int       `json:"passes"`
	Roots    int       `json:"roots"`
	Groups   int       `json:"groups"`
	MaxDepth int       `json:"max_depth"`
	Visible  int       `json:"visible"`
	Orphans  []int64   `json:"orphans"`
	Cycles   [][]int64 `json:"cycles"`
}

func newStatsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "stats FILE...",
		Short: "Report how the records were assembled, as JSON",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, opts, args, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			forest, report, err := s.build(cmd.Context())
			if err != nil {
				return err
			}
			s.restoreState(forest)

			stats := collectStats(forest, report, s.builder.FieldNames())
			data, err := json.MarshalIndent(stats, "", "  ")
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return err
		},
	}
}

func collectStats(forest *tree.Forest, report *tree.Report, names tree.FieldNames) Stats {
	st := Stats{
		Input:    report.Input,
		Skipped:  report.Skipped,
		Attached: report.Attached,
		Dropped:  len(report.Dropped),
		Passes:   report.Passes,
		Roots:    forest.Len(),
		Visible:  forest.VisibleCount(),
		Orphans:  []int64{},
		Cycles:   [][]int64{},
	}
	forest.Walk(func(n *tree.Node) bool {
		if n.IsGroup() {
			st.Groups++
		}
		if n.Level() > st.MaxDepth {
			st.MaxDepth = n.Level()
		}
		return true
	})

	diag := tree.Diagnose(report.Dropped, names)
	for _, rec := range diag.Orphans {
		st.Orphans = append(st.Orphans, recordID(rec, names))
	}
	for _, cycle := range diag.Cycles {
		ids := make([]int64, 0, len(cycle))
		for _, rec := range cycle {
			ids = append(ids, recordID(rec, names))
		}
		st.Cycles = append(st.Cycles, ids)
	}
	return st
}

func recordID(rec *tree.Record, names tree.FieldNames) int64 {
	v, ok := rec.Get(names.ID)
	if !ok {
		return tree.BadID
	}
	id, err := tree.ParseID(v)
	if err != nil {
		return tree.BadID
	}
	return id
}

func baseNames(paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = filepath.Base(p)
	}
	return out
}
