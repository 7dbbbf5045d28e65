package main

import (
	"github.com/soontechgroup/ai-agents-sub001/cmd/aiagents/cmd"
)

func main() {
	cmd.Execute()
}
