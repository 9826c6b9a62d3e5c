package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vanderheijden86/scanview/pkg/config"
	"github.com/vanderheijden86/scanview/pkg/debug"
)

func (a *app) configPath() string {
	if a.cfgFile != "" {
		return a.cfgFile
	}
	return config.ConfigPath()
}

func newConfigCmd(a *app) *cobra.Command {
	var pathOnly bool
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			path := a.configPath()
			if pathOnly {
				fmt.Fprintln(w, path)
				return nil
			}
			state := "not found, using defaults"
			if _, err := os.Stat(path); err == nil {
				state = "loaded"
			}
			fmt.Fprintf(w, "config: %s (%s)\n", path, state)
			fmt.Fprintf(w, "source: %s\n", a.sourceSpec())

			_, err := fmt.Fprintln(w, debug.Pretty(a.cfg, w == os.Stdout))
			return err
		},
	}
	cmd.Flags().BoolVar(&pathOnly, "path", false, "only print the config file path")
	cmd.AddCommand(newConfigInitCmd(a))
	return cmd
}

func newConfigInitCmd(a *app) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.configPath()
			if path == "" {
				return errors.New("cannot determine config directory")
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := config.SaveTo(config.DefaultConfig(), path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}
