// Package main is the entry point for the Apply Task bridge CLI.
// It routes front-end intents to the task-management backend over an MCP bridge.
package main

import (
	"github.com/AmirTlinov/apply-task/cmd"
)

// main is the entry point for the taskbridge CLI application.
// It initializes and executes the command-line interface.
func main() {
	cmd.Execute()
}
