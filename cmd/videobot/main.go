// Command videobot is the C8 CLI runtime. It carries no logic of its
// own: all flag parsing, source selection and pipeline wiring live in
// the root package's Run, so that a bot's main package has nothing
// left to get wrong.
package main

import (
	"os"

	videobot "github.com/framegrid/videobot"
)

func main() {
	os.Exit(videobot.Run(os.Args[1:]))
}
