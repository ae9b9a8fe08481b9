package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/dn-m/documentarian/cmd/documentarian/commands"
	derrors "github.com/dn-m/documentarian/internal/errors"
	"github.com/dn-m/documentarian/internal/version"
)

func main() {
	cli := &commands.CLI{}
	parser := kong.Parse(cli,
		kong.Name("documentarian"),
		kong.Description("Generate Swift package documentation with SourceKitten and jazzy and publish it to a GitHub Pages site."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := parser.Run(&commands.Global{Ctx: ctx, Stdout: os.Stdout}, cli)
	stop()

	os.Exit(derrors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).Report(err))
}
