package main

import (
	"context"
	"os"

	"github.com/auralynx/auralynx/internal/cli"
)

func main() {
	os.Exit(cli.Execute(context.Background(), cli.NewParseCmd()))
}
