package main

import (
	"os"

	"github.com/pacmon-ci/pacmon/cmd"
)

// main function remains to call Execute.
func main() {
	cmd.Execute(os.Args[1:])
}
