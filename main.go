package main

import "github.com/kozaktomas/looksmaxxer/cmd"

func main() {
	cmd.Execute()
}
