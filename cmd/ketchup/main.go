package main

import (
	"os"

	"github.com/terraincognita07/ketchup/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
