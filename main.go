package main

import "seat-reserve-cli/cmd"

func main() {
	cmd.Execute()
}
