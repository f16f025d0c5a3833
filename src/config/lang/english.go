//go:build !alt_language

// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2021-Present The Zarf Authors

// Package lang contains the language strings for english used by the azd hooks
// Alternative languages can be created by duplicating this file and changing the build tag to "//go:build alt_language && <language>"
package lang

// All language strings should be in the form of a constant
// The constants should be grouped by the top level package they are used in (or common)
// The format should be <PackageName><Err/Debug/Info><ShortDescription>
// Include sprintf formatting directives in the string if needed
const (
	ErrUnmarshal = "failed to unmarshal file: %w"
)

// azd-hooks root command
const (
	RootCmdShort = "Deployment lifecycle hooks for azd GitOps environments"
	RootCmdLong  = "Hooks run by the Azure Developer CLI to select a target cluster, fetch the GitOps access token and publish rendered Kubernetes manifests to a GitOps repository."

	RootCmdFlagLogLevel  = "Log level when running the hooks. Valid options are: debug, info, warn, error"
	RootCmdFlagLogFormat = "Select a logging format. Defaults to 'console'. Valid options are: 'console', 'json', 'dev', 'none'."
	RootCmdFlagNoColor   = "Disable colors in output"
	RootCmdFlagProject   = "Root directory of the azd project (the directory containing azure.yaml and .azure)"

	RootCmdErrInvalidLogLevel = "Invalid log level. Valid options are: debug, info, warn, error."
)

// azd-hooks preprovision
const (
	CmdPreprovisionShort = "Select the target AKS cluster and record its settings in the azd environment"

	CmdPreprovisionErrAzureDir       = "the .azure folder in %s does not exist, run 'azd init' to set up your environment"
	CmdPreprovisionErrNoSubscription = "no active subscription found, run 'az login' to log in to Azure"
	CmdPreprovisionErrNoClusters     = "no AKS clusters found, create an AKS cluster and set the %s tag"
	CmdPreprovisionErrNoRegistry     = "no container registry found, create a container registry and set the %s tag"
	CmdPreprovisionErrNoKeyVault     = "no key vault found for environment %q, create a key vault and set the %s tag"
	CmdPreprovisionPromptTitle       = "Select a Big Bang cluster for your deployment environment"
)

// azd-hooks postdeploy
const (
	CmdPostdeployShort = "Render service manifests and publish them to the GitOps repository"

	CmdPostdeployFlagManifest        = "Path of the deployment manifest, relative to the project directory"
	CmdPostdeployFlagContinueOnError = "Keep deploying the remaining services when one service fails and report a summary at the end"
	CmdPostdeployFlagVerify          = "Build the environment kustomization before each push to catch broken manifests"
	CmdPostdeployFlagRetries         = "Number of attempts for cloning the GitOps repository"

	CmdPostdeployErrManifest   = "the deployment manifest %s does not exist, run 'azd init'"
	CmdPostdeployErrNoToken    = "no GitOps access token found, store it as the %s secret in the environment key vault or set %s"
	CmdPostdeployErrImageTag   = "%s must be in the form name:tag, got %q"
	CmdPostdeployErrNoServices = "no services found in deployment manifest %s"
	CmdPostdeployErrNoProject  = "project directory path not found for service %s, add a project property to the service"
	CmdPostdeployErrFailed     = "%d of %d services failed to deploy"
)

// azd-hooks render
const (
	CmdRenderShort             = "Render the templates of a single manifest directory with the current environment"
	CmdRenderFlagKustomization = "Kustomization file to register the service in"
	CmdRenderFlagService       = "Service name used for SERVICE_NAME and the kustomization resource entry"
)

// azd-hooks version
const (
	CmdVersionShort = "Shows the version of the running azd-hooks binary"
)

// Viper
const (
	CmdViperErrLoadingConfigFile = "failed to load config file"
	CmdViperInfoUsingConfigFile  = "using config file"
)
