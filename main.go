// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package main is the entry point for the mg CLI application.
// It signs a single user in against the auth service and keeps the session locally.
package main

import (
	"mg/cli/cmd"
)

// main is the entry point for the mg CLI application.
func main() {
	cmd.Execute()
}
