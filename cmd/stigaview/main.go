package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/stigaview/stigaview/cmd/stigaview/commands"
	ferrors "github.com/stigaview/stigaview/internal/foundation/errors"
	"github.com/stigaview/stigaview/internal/version"
)

func main() {
	var cli commands.CLI
	parser, err := kong.New(&cli,
		kong.Name("stigaview"),
		kong.Description("Render DISA STIG benchmark documents into a static site."),
		kong.Vars{"version": version.String()},
	)
	if err != nil {
		panic(err)
	}

	kctx, err := parser.Parse(os.Args[1:])
	if err != nil {
		ferrors.NewCLIErrorAdapter(false, nil).HandleError(commands.UsageError(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = kctx.Run(&commands.Global{Context: ctx, Stdout: os.Stdout}, &cli)
	stop()

	ferrors.NewCLIErrorAdapter(cli.Verbose(), slog.Default()).HandleError(err)
}
