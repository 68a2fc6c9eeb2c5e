package main

import "github.com/mcoot/playtracker/internal/cli"

func main() {
	cli.Execute()
}
