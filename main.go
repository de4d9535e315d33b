// main is the entrypoint for the repoaudit CLI.
package main

import (
	"github.com/huangsam/repoaudit/cmd"
	"github.com/huangsam/repoaudit/internal/contract"
)

func main() {
	if err := cmd.Execute(); err != nil {
		contract.LogFatal("Command failed", err)
	}
}
