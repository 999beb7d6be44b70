package main

import (
	"os"

	"github.com/MightyChubz/tag-parser/cmd/tagctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
