package main

import "github.com/IchaiWiz/chat-gpt-insight/cmd"

func main() {
	cmd.Execute()
}
