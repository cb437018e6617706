// Command saxlint checks that XML documents are well-formed.
package main

import (
	"fmt"
	"io"
	"os"
	"time"

	sax "github.com/meiqinyan/SimpleSaxParser"
	"github.com/meiqinyan/SimpleSaxParser/xml"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

// newLogger sets up the logging system, tests replace it.
var newLogger = func(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

type options struct {
	limit  int
	enc    sax.Encoding
	events bool
	echo   bool
	trace  bool
}

func newOptions(c *cli.Context) (options, error) {
	cfg := config{}
	if c.IsSet("config") {
		var err error
		if cfg, err = loadConfig(c.String("config")); err != nil {
			return options{}, err
		}
	}
	if c.IsSet("limit") {
		cfg.Limit = c.Int("limit")
	}
	if c.IsSet("encoding") {
		cfg.Encoding = c.String("encoding")
	}
	if c.IsSet("events") {
		cfg.Events = c.Bool("events")
	}
	if c.IsSet("echo") {
		cfg.Echo = c.Bool("echo")
	}

	enc, err := parseEncoding(cfg.Encoding)
	if err != nil {
		return options{}, err
	}
	return options{
		limit:  cfg.Limit,
		enc:    enc,
		events: cfg.Events,
		echo:   cfg.Echo,
		trace:  c.Bool("trace"),
	}, nil
}

// lint is the main entry point of the program
func lint(c *cli.Context) error {
	opts, err := newOptions(c)
	if err != nil {
		return err
	}

	z, err := newLogger(c.Bool("debug") || opts.trace)
	if err != nil {
		return errors.Wrap(err, "setup logger")
	}
	log := z.Sugar()
	defer log.Sync()

	p := xml.NewParser()
	p.SetLimit(opts.limit)

	names := c.Args().Slice()
	if len(names) == 0 {
		names = []string{"-"}
	}
	for _, name := range names {
		if err := lintFile(c, p, opts, log, name); err != nil {
			return err
		}
	}
	return nil
}

func lintFile(c *cli.Context, p *xml.Parser, opts options, log *zap.SugaredLogger, name string) error {
	var r io.Reader = c.App.Reader
	if name != "-" {
		f, err := os.Open(name)
		if err != nil {
			return errors.Wrapf(err, "open %s", name)
		}
		defer f.Close()
		r = f
	} else if r == nil {
		r = os.Stdin
	}

	var handlers multiHandler
	var printer *eventPrinter
	if opts.events {
		printer = &eventPrinter{w: c.App.Writer}
		handlers = append(handlers, printer)
	}
	if opts.echo {
		handlers = append(handlers, newEchoWriter(c.App.Writer))
	}
	if opts.trace {
		handlers = append(handlers, newTraceHandler(log.With("file", name)))
	}
	var h xml.Handler = xml.NopHandler{}
	if len(handlers) > 0 {
		h = handlers
	}

	start := time.Now()
	err := p.Parse(r, h, opts.enc)
	if printer != nil {
		if err := printer.flush(); err != nil {
			return errors.Wrap(err, "write events")
		}
	}

	var serr *sax.Error
	if errors.As(err, &serr) && serr.Code != sax.ErrInputData {
		log.Debugw("malformed", "file", name, "code", int(serr.Code), "elapsed", time.Since(start))
		fmt.Fprintf(c.App.ErrWriter, "%s:%d:%d: %s\n", name, serr.Line, serr.Column, message(serr))
		return cli.Exit("", 1)
	} else if err != nil {
		return errors.Wrapf(err, "parse %s", name)
	}
	log.Debugw("well-formed", "file", name, "elapsed", time.Since(start))
	return nil
}

// message returns the error message without the position.
func message(e *sax.Error) string {
	if e.Context != "" {
		return e.Code.String() + ": " + e.Context
	}
	return e.Code.String()
}

func newApp() *cli.App {
	return &cli.App{
		Name:      "saxlint",
		Usage:     "check that XML documents are well-formed",
		UsageText: "saxlint [options] [FILE...] (reads standard input without files)",
		Action:    lint,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"l"},
				Usage:   "maximum length in bytes of texts and attribute values, 0 means no limit",
			},
			&cli.StringFlag{
				Name:    "encoding",
				Aliases: []string{"e"},
				Usage:   "encoding of input without byte order mark: auto, legacy or utf-8",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "read settings from YAML `FILE`",
			},
			&cli.BoolFlag{
				Name:  "events",
				Usage: "print the parse events",
			},
			&cli.BoolFlag{
				Name:  "echo",
				Usage: "write the parsed document back as XML",
			},
			&cli.BoolFlag{
				Name:  "trace",
				Usage: "log every parse event",
			},
			&cli.BoolFlag{
				Name:    "debug",
				Aliases: []string{"d"},
				Usage:   "run in debug mode",
			},
		},
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "saxlint:", err)
		os.Exit(2)
	}
}
