package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/felixge/tracegraph/pkg/config"
	"github.com/felixge/tracegraph/pkg/events"
	"github.com/felixge/tracegraph/pkg/goload"
	"github.com/felixge/tracegraph/pkg/graph"
	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"
	"github.com/sirupsen/logrus"
)

// main is the entry point for the tracegraph command line tool.
func main() {
	if err := realMain(context.Background(), os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
}

// realMain is a helper function for main that returns an error.
func realMain(ctx context.Context, args []string) error {
	root := &rootConfig{log: logrus.New()}
	fs := flag.NewFlagSet("tracegraph", flag.ContinueOnError)
	root.register(fs)

	cmd := &ffcli.Command{
		Name:       "tracegraph",
		ShortUsage: "tracegraph [flags] <subcommand> [flags] <trace> [args...]",
		ShortHelp:  "Renders Go execution traces as timelines of job chains.",
		FlagSet:    fs,
		Options: append(ffOptions(),
			ff.WithConfigFileFlag("config"),
			ff.WithConfigFileParser(ff.PlainParser),
		),
		Subcommands: []*ffcli.Command{
			rowsCommand(root),
			renderCommand(root),
			hoverCommand(root),
			eventsCommand(root),
			chainsCommand(root),
			plotCommand(root),
			pprofCommand(root),
		},
	}
	cmd.Exec = func(context.Context, []string) error {
		fmt.Fprintln(os.Stderr, ffcli.DefaultUsageFunc(cmd))
		return flag.ErrHelp
	}
	if err := cmd.Parse(args); err != nil {
		return err
	}
	root.log.SetOutput(os.Stderr)
	root.log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	if root.verbose {
		root.log.SetLevel(logrus.DebugLevel)
	}
	return cmd.Run(ctx)
}

// ffOptions are the parse options of every command. Flags can be set with
// TRACEGRAPH_<FLAG> environment variables.
func ffOptions() []ff.Option {
	return []ff.Option{ff.WithEnvVarPrefix("TRACEGRAPH")}
}

// rootConfig holds the flags shared by all subcommands.
type rootConfig struct {
	verbose   bool
	config    string
	view      string
	skipStd   bool
	commRows  bool
	anonymize bool

	log *logrus.Logger
}

func (c *rootConfig) register(fs *flag.FlagSet) {
	fs.BoolVar(&c.verbose, "v", false, "log debug messages")
	fs.StringVar(&c.config, "config", "", "read flags from this file")
	fs.StringVar(&c.view, "view", "", "apply this view file (rows, plots, toggles, bookmarks)")
	fs.BoolVar(&c.skipStd, "skip-std", false, "hide goroutines started by the standard library")
	fs.BoolVar(&c.commRows, "comm-rows", false, "add a row for every goroutine")
	fs.BoolVar(&c.anonymize, "anonymize", false, "obfuscate non standard library function names")
}

// load reads the trace at path and returns a view of it.
func (c *rootConfig) load(path string) (*graph.View, error) {
	// Open the input file
	inFile, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer inFile.Close()

	recs, err := goload.Read(inFile, c.log)
	if err != nil {
		return nil, fmt.Errorf("failed to read trace: %w", err)
	}
	store, rows, err := goload.Build(recs, goload.Options{
		SkipStd:   c.skipStd,
		Anonymize: c.anonymize,
		CommRows:  c.commRows,
	}, c.log)
	if err != nil {
		return nil, err
	}

	v := graph.NewView(store, events.NewFieldFilter(store))
	v.Rows = rows
	if c.view != "" {
		vc, err := config.Load(c.view)
		if err != nil {
			return nil, err
		}
		if err := vc.Apply(v, c.log); err != nil {
			return nil, fmt.Errorf("%s: %w", c.view, err)
		}
	}
	c.log.WithFields(logrus.Fields{"events": store.Len(), "rows": len(v.Rows)}).Debug("loaded trace")
	return v, nil
}

// checkArgs returns an error if args doesn't have n elements.
func checkArgs(args []string, n int) error {
	if len(args) != n {
		return fmt.Errorf("expected %d argument(s), got %d", n, len(args))
	}
	return nil
}
