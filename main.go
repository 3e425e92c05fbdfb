package main

import (
	"log/slog"
	"os"

	"palgen/gen"
	"palgen/parallel"

	"github.com/alecthomas/kong"
)

var cli struct {
	Generate gen.CLICmd `cmd:"" default:"withargs" help:"Generate palettes from a build file"`
	Workers  int        `help:"Number of parallel workers, 0 for one per CPU" default:"0"`
	Verbose  bool       `help:"Enable debug logging" default:"false"`
}

func main() {
	kctx := kong.Parse(&cli,
		kong.Name("palgen"),
		kong.Description("Assembles fixed-size color palettes for indexed images."),
		kong.UsageOnError(),
	)

	if cli.Verbose {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	pool := parallel.Start(cli.Workers)
	if err := kctx.Run(pool.Do, pool.Wait); err != nil {
		slog.Error("failed", "error", err)
		os.Exit(1)
	}
}
