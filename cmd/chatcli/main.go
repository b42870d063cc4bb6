package main

import "github.com/Tyrowin/gochat-bot/cmd/chatcli/command"

func main() {
	command.Execute()
}
