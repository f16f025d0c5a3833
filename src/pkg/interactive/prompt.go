// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2021-Present The Zarf Authors

// Package interactive contains functions for interacting with the user via STDIN.
package interactive

import (
	"github.com/AlecAivazis/survey/v2"
)

// PromptSelect asks the user to pick one of options and returns the chosen index.
func PromptSelect(title string, options []string) (int, error) {
	var idx int
	prompt := &survey.Select{
		Message: title,
		Options: options,
	}
	if err := survey.AskOne(prompt, &idx); err != nil {
		return 0, err
	}
	return idx, nil
}
