// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2021-Present The Zarf Authors

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/azd-bigbang/service-hooks/src/config"
	"github.com/azd-bigbang/service-hooks/src/config/lang"
	"github.com/azd-bigbang/service-hooks/src/internal/git"
	"github.com/azd-bigbang/service-hooks/src/pkg/azd"
	"github.com/azd-bigbang/service-hooks/src/pkg/cluster"
	"github.com/azd-bigbang/service-hooks/src/pkg/deploy"
	"github.com/azd-bigbang/service-hooks/src/pkg/logger"
)

type postdeployOptions struct {
	root            *rootOptions
	manifest        string
	continueOnError bool
	verify          bool
	retries         uint
	host            string
	authorName      string
	authorEmail     string
}

func newPostdeployCommand(root *rootOptions) *cobra.Command {
	o := &postdeployOptions{root: root}
	v := getViper()

	cmd := &cobra.Command{
		Use:   "postdeploy",
		Short: lang.CmdPostdeployShort,
		Args:  cobra.NoArgs,
		RunE:  o.run,
	}

	v.SetDefault(VPostdeployManifest, config.DeploymentManifest)
	v.SetDefault(VPostdeployRetries, 3)
	v.SetDefault(VGitOpsHost, config.DefaultGitOpsHost)
	v.SetDefault(VGitOpsAuthorName, config.DefaultAuthorName)
	v.SetDefault(VGitOpsAuthorEmail, config.DefaultAuthorEmail)

	cmd.Flags().StringVar(&o.manifest, "manifest", v.GetString(VPostdeployManifest), lang.CmdPostdeployFlagManifest)
	cmd.Flags().BoolVar(&o.continueOnError, "continue-on-error", v.GetBool(VPostdeployContinueOnError), lang.CmdPostdeployFlagContinueOnError)
	cmd.Flags().BoolVar(&o.verify, "verify", v.GetBool(VPostdeployVerify), lang.CmdPostdeployFlagVerify)
	cmd.Flags().UintVar(&o.retries, "retries", v.GetUint(VPostdeployRetries), lang.CmdPostdeployFlagRetries)

	o.host = v.GetString(VGitOpsHost)
	o.authorName = v.GetString(VGitOpsAuthorName)
	o.authorEmail = v.GetString(VGitOpsAuthorEmail)

	return cmd
}

func (o *postdeployOptions) run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	l := logger.From(ctx)

	store := azd.NewStore(o.root.projectDir)
	if err := store.Load(ctx); err != nil {
		return err
	}

	var directory cluster.Directory
	az, err := cluster.NewDefaultAzure()
	if err != nil {
		l.Warn("azure credentials unavailable, the gitops access token is read from "+config.EnvGitHubToken, "error", err)
	} else {
		directory = az
	}

	report, err := deploy.New(o.deployOptions(), directory).Run(ctx, store.Environment())
	if len(report.Services) > 0 {
		printReport(report)
	}
	return err
}

func (o *postdeployOptions) deployOptions() deploy.Options {
	return deploy.Options{
		ProjectDir:      o.root.projectDir,
		Manifest:        o.manifest,
		ContinueOnError: o.continueOnError,
		Verify:          o.verify,
		Git: git.Options{
			Host:        o.host,
			AuthorName:  o.authorName,
			AuthorEmail: o.authorEmail,
			Attempts:    o.retries,
		},
	}
}
