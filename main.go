package main

import (
	"context"
	"os"

	"github.com/danielhkuo/crossword/cli"
)

func main() {
	os.Exit(cli.Execute(context.Background(), os.Args[1:]))
}
