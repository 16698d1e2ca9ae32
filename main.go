package main

import "github.com/agentic-research/microcopy/cmd"

func main() {
	cmd.Execute()
}
