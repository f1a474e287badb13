// Command raggrep is the CLI entry point; all behavior lives in
// internal/cli.
package main

import "github.com/conradkoh/raggrep/internal/cli"

func main() {
	cli.Execute()
}
