// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2021-Present The Zarf Authors

package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/pterm/pterm"

	"github.com/azd-bigbang/service-hooks/src/config"
	"github.com/azd-bigbang/service-hooks/src/pkg/deploy"
)

// OutputWriter provides a writer to stdout for user-focused output
var OutputWriter io.Writer = os.Stdout

// printReport prints the outcome of every attempted service as a table.
func printReport(report deploy.Report) {
	data := pterm.TableData{{"Service", "Status", "Phase", "Files", "Duration"}}
	for _, s := range report.Services {
		status := colorWrap("deployed", color.FgGreen)
		switch {
		case s.Err != nil:
			status = colorWrap("failed", color.FgRed)
		case !s.Pushed:
			status = colorWrap("unchanged", color.FgYellow)
		}
		data = append(data, []string{
			s.Name,
			status,
			string(s.Phase),
			fmt.Sprint(s.Files),
			s.Duration.Round(time.Millisecond).String(),
		})
	}

	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return
	}
	fmt.Fprintln(OutputWriter, table)
	for _, s := range report.Services {
		if s.Err != nil {
			fmt.Fprintf(OutputWriter, "%s: %v\n", s.Name, s.Err)
		}
	}
}

func colorWrap(str string, attr color.Attribute) string {
	if config.NoColor || str == "" {
		return str
	}
	return fmt.Sprintf("\x1b[%dm%s\x1b[0m", attr, str)
}
