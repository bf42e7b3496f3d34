package main

import (
	"os"

	"github.com/erdmap/erdmap/internal/cli/commands"
)

func main() {
	os.Exit(commands.Execute())
}
