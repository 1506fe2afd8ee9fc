package main

import (
	"os"

	"github.com/crucial707/catalog/cmd/cli/auth"
	"github.com/crucial707/catalog/cmd/cli/resources"
	"github.com/crucial707/catalog/cmd/cli/root"
)

func main() {
	rootCmd := root.GetRoot()
	auth.InitAuth(rootCmd)
	resources.InitResources(rootCmd)

	// Cobra already printed the error.
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
