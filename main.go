// pricefeed runs the price feed execution routine: it fetches the price for a
// feed identifier through the data proxy and reports the fixed-point result.
//
// Usage:
//
//	pricefeed execute --input bitcoin
//	echo -n bitcoin | pricefeed execute
//	pricefeed batch bitcoin ethereum doge
package main

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/jasperdg/bsc-seedify-pm/internal/config"
	"github.com/jasperdg/bsc-seedify-pm/internal/coordinator"
	"github.com/jasperdg/bsc-seedify-pm/internal/execution"
	"github.com/jasperdg/bsc-seedify-pm/internal/fetcher"
	"github.com/jasperdg/bsc-seedify-pm/internal/logger"
	"github.com/jasperdg/bsc-seedify-pm/internal/process"
	"github.com/jasperdg/bsc-seedify-pm/internal/ratelimit"
)

const (
	exitReportedError = 1
	exitFailure       = 2
)

var version = "dev"

func main() {
	// Cancel in-flight fetches on interrupt
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	os.Exit(run(ctx, os.Args, os.Stdin, os.Stdout, os.Stderr))
}

// run executes the CLI and returns the process exit code
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	app := newApp(stdin, stdout, stderr)

	if err := app.RunContext(ctx, args); err != nil {
		var exitErr cli.ExitCoder
		if errors.As(err, &exitErr) {
			if msg := exitErr.Error(); msg != "" {
				fmt.Fprintln(stderr, msg)
			}
			return exitErr.ExitCode()
		}
		fmt.Fprintf(stderr, "pricefeed: %v\n", err)
		return exitFailure
	}
	return 0
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *cli.App {
	var cfg *config.Config

	return &cli.App{
		Name:      "pricefeed",
		Usage:     "Fetch a price feed through the data proxy and report it as a fixed-point u128",
		Version:   version,
		Reader:    stdin,
		Writer:    stdout,
		ErrWriter: stderr,

		// Exit codes are handled by run
		ExitErrHandler: func(*cli.Context, error) {},

		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "Path to a YAML config file",
				EnvVars: []string{"PRICEFEED_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (debug, info, warn, error)",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "Log format (text, json)",
			},
		},

		Before: func(c *cli.Context) error {
			loaded, err := config.Load(c.String("config"))
			if err != nil {
				return cli.Exit(fmt.Sprintf("failed to load configuration: %v", err), exitFailure)
			}
			if c.IsSet("log-level") {
				loaded.Logging.Level = c.String("log-level")
			}
			if c.IsSet("log-format") {
				loaded.Logging.Format = c.String("log-format")
			}

			logger.Configure(logrus.StandardLogger(), loaded.Logging, stderr)
			cfg = loaded
			return nil
		},

		Commands: []*cli.Command{
			{
				Name:  "execute",
				Usage: "Run the routine once for a single feed identifier",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "input",
						Usage: "Feed identifier (read from stdin when omitted)",
					},
					&cli.StringFlag{
						Name:  "input-hex",
						Usage: "Raw input bytes, hex encoded",
					},
					&cli.StringFlag{
						Name:  "encoding",
						Usage: "Success output encoding (hex, raw)",
					},
				},
				Action: func(c *cli.Context) error {
					input, err := readInput(c, stdin)
					if err != nil {
						return cli.Exit(err.Error(), exitFailure)
					}

					encoding := cfg.Output.Encoding
					if c.IsSet("encoding") {
						encoding = c.String("encoding")
					}

					f := newFetcher(cfg)
					defer f.Close()

					proc := process.NewStdProcess(input, stdout, process.Encoding(encoding))
					if err := execution.Execute(c.Context, proc, f, execution.Options{BaseURL: cfg.Proxy.BaseURL}); err != nil {
						return cli.Exit(fmt.Sprintf("execution failed: %v", err), exitFailure)
					}
					if code := proc.ExitCode(); code != 0 {
						return cli.Exit("", code)
					}
					return nil
				},
			},
			{
				Name:      "batch",
				Usage:     "Run the routine concurrently for several feed identifiers",
				ArgsUsage: "FEED [FEED...]",
				Action: func(c *cli.Context) error {
					f := newFetcher(cfg)
					defer f.Close()

					coord := coordinator.New(f, execution.Options{BaseURL: cfg.Proxy.BaseURL})
					outcomes, err := coord.Run(c.Context, c.Args().Slice())
					if err != nil {
						return cli.Exit(err.Error(), exitFailure)
					}
					if err := coordinator.Write(stdout, outcomes); err != nil {
						return cli.Exit(err.Error(), exitFailure)
					}

					code := 0
					for _, o := range outcomes {
						switch {
						case o.Err != nil:
							code = exitFailure
						case o.Status != process.StatusSucceeded && code == 0:
							code = exitReportedError
						}
					}
					if code != 0 {
						return cli.Exit("", code)
					}
					return nil
				},
			},
		},
	}
}

func newFetcher(cfg *config.Config) *fetcher.ProxyFetcher {
	return fetcher.NewProxyFetcher(fetcher.ClientOptions{
		Timeout:          cfg.Proxy.Timeout,
		RetryCount:       cfg.Proxy.RetryCount,
		RetryWaitTime:    cfg.Proxy.RetryWait,
		RetryMaxWaitTime: cfg.Proxy.RetryMaxWait,
	}, ratelimit.New(cfg.Proxy.RateLimit, cfg.Proxy.RateBurst))
}

// readInput returns the routine input from --input-hex, --input or stdin, in
// that order. A single trailing newline from stdin is dropped.
func readInput(c *cli.Context, stdin io.Reader) ([]byte, error) {
	if c.IsSet("input-hex") {
		b, err := hex.DecodeString(c.String("input-hex"))
		if err != nil {
			return nil, fmt.Errorf("invalid --input-hex: %w", err)
		}
		return b, nil
	}
	if c.IsSet("input") {
		return []byte(c.String("input")), nil
	}

	b, err := io.ReadAll(stdin)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	b = bytes.TrimSuffix(b, []byte("\n"))
	b = bytes.TrimSuffix(b, []byte("\r"))
	return b, nil
}
