package main

import (
	"github.com/ssargent/streamspill/cmd/streamspill/cmd"
)

func main() {
	cmd.Execute()
}
