// Breathe is a terminal breathing and mindfulness companion.
package main

import (
	"os"

	"github.com/stillpoint/breathe/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
