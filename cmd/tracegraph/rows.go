package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/felixge/tracegraph/pkg/breakdown"
	"github.com/felixge/tracegraph/pkg/timeaxis"
	"github.com/olekukonko/tablewriter"
	"github.com/peterbourgon/ff/v3/ffcli"
)

type RowsFlavor string

const (
	RowsTable    RowsFlavor = "table"
	RowsCSV      RowsFlavor = "csv"
	RowsCategory RowsFlavor = "category"
)

func rowsCommand(root *rootConfig) *ffcli.Command {
	var flavor string
	fs := flag.NewFlagSet("tracegraph rows", flag.ContinueOnError)
	fs.StringVar(&flavor, "format", string(RowsTable), "output format: table, csv or category")
	return &ffcli.Command{
		Name:       "rows",
		ShortUsage: "tracegraph rows [flags] <trace>",
		ShortHelp:  "Lists the rows of a trace with their event counts.",
		FlagSet:    fs,
		Options:    ffOptions(),
		Exec: func(_ context.Context, args []string) error {
			return RowsCommand(root, RowsFlavor(flavor), args)
		},
	}
}

func RowsCommand(root *rootConfig, flavor RowsFlavor, args []string) error {
	// Check the number of arguments
	if err := checkArgs(args, 1); err != nil {
		return err
	}

	v, err := root.load(args[0])
	if err != nil {
		return err
	}

	var header []string
	var rows [][]string
	var footer []string
	switch flavor {
	case RowsTable, RowsCSV:
		bd := breakdown.ByRow(v.Store)
		header = []string{"#", "Row", "Kind", "Events", "Busy (ms)", "First (ms)", "Last (ms)"}
		var total int64
		for _, r := range v.Layout().Rows {
			summary, ok := bd[r.Name]
			if !ok {
				// Plot rows live outside the store's row index.
				summary.Row, summary.Kind, summary.Count = r.Name, r.Kind, int64(len(r.Locs))
			}
			total += summary.Count
			rows = append(rows, []string{
				fmt.Sprintf("%d", r.Index),
				r.Name,
				summary.Kind.String(),
				fmt.Sprintf("%d", summary.Count),
				timeaxis.FormatMs(summary.Busy, 3),
				timeaxis.FormatMs(summary.FirstTs-v.Store.FirstTs(), 3),
				timeaxis.FormatMs(summary.LastTs-v.Store.FirstTs(), 3),
			})
		}
		if flavor == RowsCSV {
			cw := csv.NewWriter(os.Stdout)
			cw.Write(header)
			return cw.WriteAll(rows)
		}
		footer = []string{"", "Total", "", fmt.Sprintf("%d", total), "", "", ""}
	case RowsCategory:
		bd := breakdown.ByCategory(v.Store)
		summaries := make([]breakdown.CategorySummary, 0, len(bd))
		for _, cs := range bd {
			summaries = append(summaries, cs)
		}
		sort.Slice(summaries, func(i, j int) bool {
			return summaries[i].Count > summaries[j].Count
		})
		header = []string{"Category", "Count", "%", "Duration (ms)"}
		total := int64(v.Store.Len())
		for _, cs := range summaries {
			rows = append(rows, []string{
				cs.Category.String(),
				fmt.Sprintf("%d", cs.Count),
				fmt.Sprintf("%.2f%%", float64(cs.Count)/float64(total)*100),
				timeaxis.FormatMs(cs.Duration, 3),
			})
		}
		footer = []string{"Total", fmt.Sprintf("%d", total), "100.00%", ""}
	default:
		return fmt.Errorf("unknown format: %q", flavor)
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader(header)
	table.AppendBulk(rows)
	table.SetFooter(footer)
	table.Render()
	return nil
}
