// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2021-Present The Zarf Authors

package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/Masterminds/semver/v3"
	goyaml "github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/azd-bigbang/service-hooks/src/config"
	"github.com/azd-bigbang/service-hooks/src/config/lang"
)

type versionOptions struct {
	outputFormat string
}

func newVersionCommand() *cobra.Command {
	o := &versionOptions{}

	cmd := &cobra.Command{
		Use:     "version",
		Aliases: []string{"v"},
		Short:   lang.CmdVersionShort,
		Args:    cobra.NoArgs,
		RunE:    o.run,
	}

	cmd.Flags().StringVarP(&o.outputFormat, "output", "o", "", "Output format (yaml|json)")

	return cmd
}

func (o *versionOptions) run(_ *cobra.Command, _ []string) error {
	if o.outputFormat == "" {
		fmt.Fprintln(OutputWriter, config.CLIVersion)
		return nil
	}

	output, err := versionInfo()
	if err != nil {
		return err
	}

	switch o.outputFormat {
	case "yaml":
		b, err := goyaml.Marshal(output)
		if err != nil {
			return fmt.Errorf("could not marshal yaml output: %w", err)
		}
		fmt.Fprintln(OutputWriter, string(b))
	case "json":
		b, err := json.Marshal(output)
		if err != nil {
			return fmt.Errorf("could not marshal json output: %w", err)
		}
		fmt.Fprintln(OutputWriter, string(b))
	default:
		return fmt.Errorf("unsupported output format %q", o.outputFormat)
	}
	return nil
}

func versionInfo() (map[string]any, error) {
	output := map[string]any{"version": config.CLIVersion}

	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return nil, errors.New("failed to get build info")
	}
	depMap := map[string]string{}
	for _, dep := range buildInfo.Deps {
		if dep.Replace != nil {
			depMap[dep.Path] = fmt.Sprintf("%s -> %s %s", dep.Version, dep.Replace.Path, dep.Replace.Version)
		} else {
			depMap[dep.Path] = dep.Version
		}
	}
	output["dependencies"] = depMap

	buildMap := map[string]any{
		"platform":  runtime.GOOS + "/" + runtime.GOARCH,
		"goVersion": runtime.Version(),
	}
	ver, err := semver.NewVersion(config.CLIVersion)
	if err != nil && !errors.Is(err, semver.ErrInvalidSemVer) {
		return nil, fmt.Errorf("could not parse CLI version %s: %w", config.CLIVersion, err)
	}
	if ver != nil {
		buildMap["major"] = ver.Major()
		buildMap["minor"] = ver.Minor()
		buildMap["patch"] = ver.Patch()
		buildMap["prerelease"] = ver.Prerelease()
	}
	output["build"] = buildMap
	return output, nil
}
