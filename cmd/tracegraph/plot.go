package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/felixge/tracegraph/pkg/goload"
	"github.com/felixge/tracegraph/pkg/graph"
	"github.com/felixge/tracegraph/pkg/plot"
	"github.com/felixge/tracegraph/pkg/timeaxis"
	"github.com/olekukonko/tablewriter"
	"github.com/peterbourgon/ff/v3/ffcli"
)

func plotCommand(root *rootConfig) *ffcli.Command {
	var def graph.PlotDef
	fs := flag.NewFlagSet("tracegraph plot", flag.ContinueOnError)
	fs.StringVar(&def.Name, "name", "", "plot name")
	fs.StringVar(&def.Filter, "filter", "", "filter expression selecting the events, e.g. '$category = frame'")
	fs.StringVar(&def.Scan, "scan", "", `scan pattern like "val=%f" or "$duration"; suggests plots if empty`)
	return &ffcli.Command{
		Name:       "plot",
		ShortUsage: "tracegraph plot [flags] <trace>",
		ShortHelp:  "Prints the samples of a plot, or suggests plots from the print events.",
		FlagSet:    fs,
		Options:    ffOptions(),
		Exec: func(_ context.Context, args []string) error {
			return PlotCommand(root, def, args)
		},
	}
}

func PlotCommand(root *rootConfig, def graph.PlotDef, args []string) error {
	// Check the number of arguments
	if err := checkArgs(args, 1); err != nil {
		return err
	}

	v, err := root.load(args[0])
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(os.Stdout)
	if def.Scan == "" {
		table.SetHeader([]string{"Name", "Filter", "Scan", "Samples"})
		table.AppendBulk(suggestions(v))
		table.Render()
		return nil
	}

	if def.Name == "" {
		def.Name = def.Scan
	}
	series, err := v.Plots.Define(def)
	if err != nil {
		return err
	}
	table.SetHeader([]string{"Time (ms)", "Event", "Value"})
	for _, s := range series.Samples {
		table.Append([]string{
			timeaxis.FormatMs(s.Ts-v.Store.FirstTs(), 6),
			fmt.Sprintf("%d", s.ID),
			fmt.Sprintf("%g", s.Val),
		})
	}
	table.SetFooter([]string{fmt.Sprintf("%d samples", series.Len()), "", fmt.Sprintf("min %g max %g", series.Min, series.Max)})
	table.Render()
	return nil
}

// suggestions returns the distinct plots suggested by the payloads of the
// print events that yield data.
func suggestions(v *graph.View) [][]string {
	locs, _, _ := v.Store.RowLocs(goload.RowPrint)
	seen := map[plot.Suggestion]bool{}
	var rows [][]string
	for _, id := range locs {
		sg, ok := plot.Suggest(v.Store.Get(id).Field(plot.PayloadField))
		if !ok || seen[sg] {
			continue
		}
		seen[sg] = true
		series, err := plot.Build(v.Store, v.Filter, sg.Name, sg.Filter, sg.Scan)
		if err != nil {
			continue
		}
		rows = append(rows, []string{sg.Name, sg.Filter, sg.Scan, fmt.Sprintf("%d", series.Len())})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i][0] < rows[j][0] })
	return rows
}
