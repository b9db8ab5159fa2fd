package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/felixge/tracegraph/pkg/pprof"
	"github.com/peterbourgon/ff/v3/ffcli"
)

func pprofCommand(root *rootConfig) *ffcli.Command {
	var (
		opt pprof.Options
		row string
	)
	fs := flag.NewFlagSet("tracegraph pprof", flag.ContinueOnError)
	fs.BoolVar(&opt.ByFunc, "by-func", false, "merge goroutines started by the same function")
	fs.StringVar(&row, "row", "goroutines", "timeline row whose chains are profiled")
	return &ffcli.Command{
		Name:       "pprof",
		ShortUsage: "tracegraph pprof [flags] <trace> <output.pprof>",
		ShortHelp:  "Writes the job chain stage times of a row as a pprof profile.",
		FlagSet:    fs,
		Options:    ffOptions(),
		Exec: func(_ context.Context, args []string) error {
			return PPROF(root, row, args, opt)
		},
	}
}

func PPROF(root *rootConfig, row string, args []string, opt pprof.Options) error {
	// Check the number of arguments
	if err := checkArgs(args, 2); err != nil {
		return err
	}

	v, err := root.load(args[0])
	if err != nil {
		return err
	}
	locs, _, ok := v.Store.RowLocs(row)
	if !ok {
		return fmt.Errorf("unknown row: %q", row)
	}

	// Open the output file
	outFile, err := os.Create(args[1])
	if err != nil {
		return fmt.Errorf("failed to open output file: %w", err)
	}
	defer outFile.Close()

	// Convert the chains to pprof
	if err := pprof.Convert(v.Store, locs, outFile, opt); err != nil {
		return err
	}
	return outFile.Close()
}
