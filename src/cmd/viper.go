// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2021-Present The Zarf Authors

package cmd

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/azd-bigbang/service-hooks/src/config/lang"
	"github.com/azd-bigbang/service-hooks/src/pkg/logger"
)

// Constants for use when loading configurations from viper config files
const (

	// Root config keys

	VLogLevel   = "log_level"
	VLogFormat  = "log_format"
	VNoColor    = "no_color"
	VProjectDir = "project_dir"

	// Postdeploy config keys

	VPostdeployManifest        = "postdeploy.manifest"
	VPostdeployContinueOnError = "postdeploy.continue_on_error"
	VPostdeployVerify          = "postdeploy.verify"
	VPostdeployRetries         = "postdeploy.retries"

	// GitOps config keys

	VGitOpsHost        = "gitops.host"
	VGitOpsAuthorName  = "gitops.author_name"
	VGitOpsAuthorEmail = "gitops.author_email"
)

var (
	// Viper instance used by commands
	v *viper.Viper

	// Viper configuration error
	vConfigError error
)

// getViper initializes the viper singleton for the CLI
func getViper() *viper.Viper {
	// Already initialized by some other command
	if v != nil {
		return v
	}
	v, vConfigError = newViper(os.Getenv("AZD_HOOKS_CONFIG"))
	return v
}

func newViper(cfgFile string) (*viper.Viper, error) {
	nv := viper.New()

	if cfgFile != "" {
		nv.SetConfigFile(cfgFile)
	} else {
		// Search config paths in the current directory and $HOME/.azd-hooks.
		nv.AddConfigPath(".")
		nv.AddConfigPath("$HOME/.azd-hooks")
		nv.SetConfigName("azd-hooks-config")
	}

	// E.g. AZD_HOOKS_LOG_LEVEL=debug
	nv.SetEnvPrefix("azd_hooks")
	nv.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	nv.AutomaticEnv()

	// Optional, so ignore errors
	return nv, nv.ReadInConfig()
}

func printViperConfigUsed(ctx context.Context) {
	if v == nil {
		return
	}
	l := logger.From(ctx)
	if vConfigError != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(vConfigError, &notFound) {
			l.Warn(lang.CmdViperErrLoadingConfigFile, "error", vConfigError)
		}
		return
	}
	l.Info(lang.CmdViperInfoUsingConfigFile, "path", v.ConfigFileUsed())
}
