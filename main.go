package main

import "github.com/openclaw/agentboard/commands"

func main() {
	commands.Execute()
}
