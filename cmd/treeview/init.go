package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/vanderheijden86/treeview/pkg/config"
	"github.com/vanderheijden86/treeview/pkg/state"
)

func newInitCmd(opts *options) *cobra.Command {
	var (
		yes   bool
		force bool
	)
	cmd := &cobra.Command{
		Use:   "init [DIR]",
		Short: "Write a .treeview/config.yaml for a project",
		Long: `Write a .treeview/config.yaml describing which record fields hold the
id, parent, group and expanded flags. Without --yes the values are asked for
interactively, starting from the defaults.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			dir, err := filepath.Abs(dir)
			if err != nil {
				return err
			}
			path := filepath.Join(dir, config.Dir, config.FileName)
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}

			cfg := config.Default()
			if !yes {
				form, finish := configForm(&cfg)
				form = form.
					WithAccessible(!opts.isTerminal()).
					WithInput(cmd.InOrStdin()).
					WithOutput(cmd.OutOrStdout())
				if err := form.RunWithContext(cmd.Context()); err != nil {
					if errors.Is(err, huh.ErrUserAborted) {
						return errors.New("init cancelled")
					}
					return err
				}
				finish()
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := config.Save(path, &cfg); err != nil {
				return err
			}
			if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
				if err := state.EnsureIgnored(dir); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "write the defaults without asking")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config")
	return cmd
}

// configForm asks for each setting, pre-filled from cfg. The returned
// func copies the comma separated label answer back into cfg.
func configForm(cfg *config.Config) (*huh.Form, func()) {
	label := strings.Join(cfg.Label, ",")
	fieldName := func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New("field name is required")
		}
		return nil
	}
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Id field").Value(&cfg.Fields.ID).Validate(fieldName),
			huh.NewInput().Title("Parent id field").Value(&cfg.Fields.ParentID).Validate(fieldName),
			huh.NewInput().Title("Group flag field").Value(&cfg.Fields.IsGroup).Validate(fieldName),
			huh.NewInput().Title("Expanded flag field").Value(&cfg.Fields.Expanded).Validate(fieldName),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Label fields").
				Description("Comma separated, shown for each node").
				Value(&label),
			huh.NewConfirm().Title("Watch input files?").Value(&cfg.Watch),
		),
	)
	return form, func() {
		var fields []string
		for _, f := range strings.Split(label, ",") {
			if f = strings.TrimSpace(f); f != "" {
				fields = append(fields, f)
			}
		}
		if len(fields) > 0 {
			cfg.Label = fields
		}
	}
}
