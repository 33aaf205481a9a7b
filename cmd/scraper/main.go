package main

import (
	"os"

	"github.com/user/leadgen-service/cmd/scraper/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
