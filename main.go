package main

import "github.com/timvw/tmux-marks/cmd"

func main() {
	cmd.Execute()
}
