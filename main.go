package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"scipic/internal/cliapp"
)

func main() {
	var cli cliapp.CLI
	parser := kong.Must(&cli,
		kong.Name("scipic"),
		kong.Description("Decode and encode Sierra SCI0 picture resources."),
		kong.UsageOnError(),
	)

	kctx, err := parser.Parse(os.Args[1:])
	if err != nil {
		slog.Error("invalid arguments", "error", err)
		os.Exit(1)
	}

	if err := kctx.Run(); err != nil {
		slog.Error(kctx.Command(), "error", err)
		os.Exit(1)
	}
}
