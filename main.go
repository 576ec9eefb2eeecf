package main

import "github.com/chukul/tclctl/cmd"

func main() {
	cmd.Execute()
}
