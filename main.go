package main

import "github.com/KaramelBytes/cupscope-cli/cmd"

func main() {
	cmd.Execute()
}
