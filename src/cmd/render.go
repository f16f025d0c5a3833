// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2021-Present The Zarf Authors

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/azd-bigbang/service-hooks/src/config"
	"github.com/azd-bigbang/service-hooks/src/config/lang"
	"github.com/azd-bigbang/service-hooks/src/internal/render"
	"github.com/azd-bigbang/service-hooks/src/pkg/variables"
)

type renderOptions struct {
	kustomization string
	service       string
}

func newRenderCommand() *cobra.Command {
	o := &renderOptions{}

	cmd := &cobra.Command{
		Use:   "render DIR",
		Short: lang.CmdRenderShort,
		Args:  cobra.ExactArgs(1),
		RunE:  o.run,
	}

	cmd.Flags().StringVar(&o.kustomization, "kustomization", "", lang.CmdRenderFlagKustomization)
	cmd.Flags().StringVar(&o.service, "service", "", lang.CmdRenderFlagService)

	return cmd
}

func (o *renderOptions) run(cmd *cobra.Command, args []string) error {
	if o.kustomization != "" && o.service == "" {
		return fmt.Errorf("--service is required with --kustomization")
	}
	env := variables.FromOS().Without(config.EnvGitHubToken)
	if o.service != "" {
		env = env.With(config.EnvServiceName, o.service)
	}
	res, err := render.New(args[0], o.kustomization, o.service).Render(cmd.Context(), env)
	if err != nil {
		return err
	}
	for _, p := range res.Rendered {
		fmt.Fprintln(OutputWriter, p)
	}
	return nil
}
