// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2021-Present The Zarf Authors

// Package exec provides a wrapper around the os/exec package
package exec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/azd-bigbang/service-hooks/src/pkg/logger"
)

// Config is a struct for configuring CmdWithContext.
type Config struct {
	Dir string
	Env []string
	// Redact lists argument values that are masked wherever the command line is shown.
	Redact []string
}

// Runner runs a command and returns its stdout and stderr.
type Runner func(ctx context.Context, config Config, command string, args ...string) (string, string, error)

// ExitError is returned when a command ran but exited nonzero. It carries the trimmed stderr.
type ExitError struct {
	Command string
	Stderr  string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("%s failed: %v", e.Command, e.Err)
	}
	return fmt.Sprintf("%s failed: %v: %s", e.Command, e.Err, e.Stderr)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// CommandLine renders command and args for display with every redacted value masked.
func CommandLine(config Config, command string, args ...string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, command)
	for _, a := range args {
		for _, r := range config.Redact {
			if r != "" {
				a = strings.ReplaceAll(a, r, logger.Sanitized)
			}
		}
		parts = append(parts, a)
	}
	return strings.Join(parts, " ")
}

// CmdWithContext runs command to completion and returns its buffered stdout and stderr.
// The command line is logged at debug level with redacted arguments masked.
func CmdWithContext(ctx context.Context, config Config, command string, args ...string) (string, string, error) {
	if command == "" {
		return "", "", errors.New("command is required")
	}
	l := logger.From(ctx)
	line := CommandLine(config, command, args...)

	cmd := exec.CommandContext(ctx, command, args...)
	cmd.Dir = config.Dir
	cmd.Env = append(os.Environ(), config.Env...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	l.Debug("running command", "command", line, "dir", config.Dir)
	start := time.Now()
	if err := cmd.Run(); err != nil {
		return stdout.String(), stderr.String(), &ExitError{
			Command: line,
			Stderr:  strings.TrimSpace(stderr.String()),
			Err:     err,
		}
	}
	l.Debug("command finished", "command", line, "duration", time.Since(start))
	return stdout.String(), stderr.String(), nil
}
