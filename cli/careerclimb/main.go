// Command careerclimb is the CareerClimb command line client.
package main

import (
	"os"

	"github.com/careerclimb/careerclimb/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
