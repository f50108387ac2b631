// Command callanalyzer serves the call analysis API or analyzes a single
// recording from the command line.
//
//	callanalyzer serve   [-config path]
//	callanalyzer analyze (-file path | -url url) [-key k] [-provider name] [-model m]
//	callanalyzer version
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	apperrors "github.com/kbukum/callanalyzer/errors"
	"github.com/kbukum/callanalyzer/version"
)

const usage = `usage: callanalyzer <command> [flags]

commands:
  serve     run the HTTP API (default)
  analyze   transcribe and analyze one recording, print the result as JSON
  version   print build information
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run dispatches a subcommand and maps its outcome to an exit code:
// 0 success, 1 runtime failure, 2 usage error.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := "serve"
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		cmd, args = args[0], args[1:]
	}

	var err error
	switch cmd {
	case "serve":
		err = serveCommand(ctx, args, stderr)
	case "analyze":
		err = analyzeCommand(ctx, args, stdout, stderr)
	case "version":
		fmt.Fprintln(stdout, version.Get().String())
	case "help":
		fmt.Fprint(stdout, usage)
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n%s", cmd, usage)
		return 2
	}

	switch {
	case err == nil:
		return 0
	case errors.Is(err, flag.ErrHelp), errors.Is(err, errUsage):
		return 2
	default:
		fmt.Fprintf(stderr, "[error] %s\n", describeError(err))
		return 1
	}
}

var errUsage = errors.New("usage")

func usageError(err error) error { return errors.Join(errUsage, err) }

func describeError(err error) string {
	if appErr, ok := apperrors.AsAppError(err); ok {
		return fmt.Sprintf("%s: %s", appErr.Code, appErr.Message)
	}
	return err.Error()
}

func serveCommand(ctx context.Context, args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var configPath string
	fs.StringVar(&configPath, "config", os.Getenv("CALLANALYZER_CONFIG"), "path to config.yml")
	if err := fs.Parse(args); err != nil {
		return usageError(err)
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	app, err := newServer(cfg)
	if err != nil {
		return err
	}
	return app.Run(ctx)
}
