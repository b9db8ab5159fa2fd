package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/felixge/tracegraph/pkg/events"
	"github.com/felixge/tracegraph/pkg/print"
	"github.com/peterbourgon/ff/v3/ffcli"
)

func eventsCommand(root *rootConfig) *ffcli.Command {
	var minMs, maxMs float64
	filter := print.DefaultEventFilter()
	fs := flag.NewFlagSet("tracegraph events", flag.ContinueOnError)
	fs.Float64Var(&minMs, "min", 0, "only events at or after this time in ms after the first event")
	fs.Float64Var(&maxMs, "max", -1, "only events at or before this time in ms after the first event, -1 for no limit")
	fs.StringVar(&filter.Row, "row", "", "only events of this row")
	fs.StringVar(&filter.Comm, "comm", "", "only events of this comm")
	fs.BoolVar(&filter.Verbose, "verbose", false, "print the payload fields of every event")
	return &ffcli.Command{
		Name:       "events",
		ShortUsage: "tracegraph events [flags] <trace>",
		ShortHelp:  "Prints the events of a trace.",
		FlagSet:    fs,
		Options:    ffOptions(),
		Exec: func(_ context.Context, args []string) error {
			return PrintEvents(root, args, minMs, maxMs, filter)
		},
	}
}

func PrintEvents(root *rootConfig, args []string, minMs, maxMs float64, filter print.EventFilter) error {
	// Check the number of arguments
	if err := checkArgs(args, 1); err != nil {
		return err
	}

	v, err := root.load(args[0])
	if err != nil {
		return err
	}
	first := v.Store.FirstTs()
	filter.MinTs = first + msToNs(minMs)
	if maxMs >= 0 {
		filter.MaxTs = first + msToNs(maxMs)
	}

	// Print all events to stdout
	stdout := bufio.NewWriter(os.Stdout)
	defer stdout.Flush()
	return print.Events(v.Store, stdout, filter)
}

func chainsCommand(root *rootConfig) *ffcli.Command {
	var ids string
	fs := flag.NewFlagSet("tracegraph chains", flag.ContinueOnError)
	fs.StringVar(&ids, "ids", "", "comma separated completion event ids, all chains if empty")
	return &ffcli.Command{
		Name:       "chains",
		ShortUsage: "tracegraph chains [flags] <trace>",
		ShortHelp:  "Prints the stages of the job chains of a trace.",
		FlagSet:    fs,
		Options:    ffOptions(),
		Exec: func(_ context.Context, args []string) error {
			filter, err := parseChainFilter(ids)
			if err != nil {
				return err
			}
			return PrintChains(root, args, filter)
		},
	}
}

func parseChainFilter(ids string) (print.ChainFilter, error) {
	filter := print.DefaultChainFilter()
	if ids == "" {
		return filter, nil
	}
	for _, s := range strings.Split(ids, ",") {
		id, err := strconv.ParseUint(strings.TrimSpace(s), 10, 32)
		if err != nil {
			return filter, fmt.Errorf("bad event id: %w", err)
		}
		filter.IDs = append(filter.IDs, events.ID(id))
	}
	return filter, nil
}

func PrintChains(root *rootConfig, args []string, filter print.ChainFilter) error {
	// Check the number of arguments
	if err := checkArgs(args, 1); err != nil {
		return err
	}

	v, err := root.load(args[0])
	if err != nil {
		return err
	}

	// Print all chains to stdout
	stdout := bufio.NewWriter(os.Stdout)
	defer stdout.Flush()
	return print.Chains(v.Store, stdout, filter)
}
