// Copyright (c) 2025 Apply Task
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package logging provides utilities for secure logging and error presentation.
// It includes functions for masking sensitive information in log messages and
// formatting errors for user-friendly display while protecting credentials and secrets.
//
// The package helps ensure that sensitive data like tokens and API keys are not
// accidentally exposed in logs or error messages shown to users, including the
// backend launch environment echoed back in process failures.
package logging

import (
	"regexp"
)

var (
	reToken   = regexp.MustCompile(`(?i)(token=|bearer\s+)([A-Za-z0-9._-]+)`)
	reAPIKey  = regexp.MustCompile(`(?i)(apikey=|api_key=)([^\s;]+)`)
	rePasswd  = regexp.MustCompile(`(?i)(password=)([^\s;]+)`)
	reAuthHdr = regexp.MustCompile(`(?i)(authorization:\s*)(\S+)`)
	// Secret env vars that may leak via backend launch errors.
	reSecretEnv = regexp.MustCompile(`(?i)((?:APPLY_TASK_TOKEN|OPENAI_API_KEY|ANTHROPIC_API_KEY)=)(\S+)`)
)

// Mask replaces sensitive values in the input string with "*".
func Mask(s string) string {
	out := s
	out = reToken.ReplaceAllString(out, "$1***")
	out = reAPIKey.ReplaceAllString(out, "$1***")
	out = rePasswd.ReplaceAllString(out, "$1***")
	out = reAuthHdr.ReplaceAllString(out, "$1***")
	out = reSecretEnv.ReplaceAllString(out, "$1***")
	return out
}
