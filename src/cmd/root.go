// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2021-Present The Zarf Authors

// Package cmd contains the CLI commands for azd-hooks.
package cmd

import (
	"context"
	"errors"
	"log/slog"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/azd-bigbang/service-hooks/src/config"
	"github.com/azd-bigbang/service-hooks/src/config/lang"
	herrors "github.com/azd-bigbang/service-hooks/src/pkg/errors"
	"github.com/azd-bigbang/service-hooks/src/pkg/logger"
)

type rootOptions struct {
	logLevel   string
	logFormat  string
	noColor    bool
	projectDir string
}

// NewRootCommand returns the azd-hooks command tree.
func NewRootCommand() *cobra.Command {
	o := &rootOptions{}
	v := getViper()

	cmd := &cobra.Command{
		Use:               "azd-hooks COMMAND",
		Short:             lang.RootCmdShort,
		Long:              lang.RootCmdLong,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: o.preRun,
	}

	v.SetDefault(VLogLevel, "info")
	v.SetDefault(VLogFormat, string(logger.FormatConsole))
	v.SetDefault(VNoColor, false)
	v.SetDefault(VProjectDir, ".")

	cmd.PersistentFlags().StringVarP(&o.logLevel, "log-level", "l", v.GetString(VLogLevel), lang.RootCmdFlagLogLevel)
	cmd.PersistentFlags().StringVar(&o.logFormat, "log-format", v.GetString(VLogFormat), lang.RootCmdFlagLogFormat)
	cmd.PersistentFlags().BoolVar(&o.noColor, "no-color", v.GetBool(VNoColor), lang.RootCmdFlagNoColor)
	cmd.PersistentFlags().StringVarP(&o.projectDir, "project-dir", "C", v.GetString(VProjectDir), lang.RootCmdFlagProject)

	cmd.AddCommand(newPreprovisionCommand(o))
	cmd.AddCommand(newPostdeployCommand(o))
	cmd.AddCommand(newRenderCommand())
	cmd.AddCommand(newVersionCommand())

	return cmd
}

func (o *rootOptions) preRun(cmd *cobra.Command, _ []string) error {
	config.NoColor = o.noColor
	if o.noColor {
		pterm.DisableColor()
	}
	l, err := setupLogger(o.logLevel, o.logFormat, !o.noColor)
	if err != nil {
		return err
	}
	ctx := logger.WithContext(cmd.Context(), l)
	cmd.SetContext(ctx)
	printViperConfigUsed(ctx)
	return nil
}

// setupLogger builds the CLI logger and makes it the process default.
func setupLogger(level, format string, color bool) (*slog.Logger, error) {
	lvl, err := logger.ParseLevel(level)
	if err != nil {
		return nil, herrors.Wrap(herrors.ErrCodeConfiguration, lang.RootCmdErrInvalidLogLevel, err)
	}
	cfg := logger.Config{
		Level:       lvl,
		Format:      logger.Format(format),
		Destination: logger.DestinationDefault,
		Color:       logger.Color(color),
	}
	l, err := logger.New(cfg)
	if err != nil {
		return nil, herrors.Wrap(herrors.ErrCodeConfiguration, "unable to set up logging", err)
	}
	slog.SetDefault(l)
	l.Debug("logger successfully initialized", "cfg", cfg)
	return l, nil
}

// Execute runs the CLI and returns the process exit status.
func Execute(ctx context.Context) int {
	err := NewRootCommand().ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	pterm.Error.Println(err.Error())
	return exitCode(err)
}

// exitCode maps an error to the process exit status.
func exitCode(err error) int {
	if errors.Is(err, context.Canceled) {
		return 130
	}
	switch herrors.CodeOf(err) {
	case herrors.ErrCodeConfiguration:
		return 2
	case herrors.ErrCodeUnauthorized:
		return 3
	case herrors.ErrCodeNotFound:
		return 4
	default:
		return 1
	}
}
