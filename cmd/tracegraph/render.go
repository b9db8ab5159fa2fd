package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/felixge/tracegraph/pkg/svg"
	"github.com/peterbourgon/ff/v3/ffcli"
)

func renderCommand(root *rootConfig) *ffcli.Command {
	var frame frameConfig
	fs := flag.NewFlagSet("tracegraph render", flag.ContinueOnError)
	frame.register(fs)
	return &ffcli.Command{
		Name:       "render",
		ShortUsage: "tracegraph render [flags] <trace> <output.svg>",
		ShortHelp:  "Renders a time window of a trace as SVG.",
		FlagSet:    fs,
		Options:    ffOptions(),
		Exec: func(_ context.Context, args []string) error {
			return Render(root, &frame, args)
		},
	}
}

func Render(root *rootConfig, frame *frameConfig, args []string) error {
	// Check the number of arguments
	if err := checkArgs(args, 2); err != nil {
		return err
	}

	v, err := root.load(args[0])
	if err != nil {
		return err
	}
	if err := frame.apply(v); err != nil {
		return err
	}
	out := v.Render(frame.input())

	// Open the output file
	outFile, err := os.Create(args[1])
	if err != nil {
		return fmt.Errorf("failed to open output file: %w", err)
	}
	defer outFile.Close()

	w := bufio.NewWriter(outFile)
	if err := svg.Write(w, &out.Prims, svg.Options{
		Width:      frame.width,
		Height:     out.Height,
		Background: v.Theme.Background,
		TextWidth:  v.Metrics.TextWidth,
	}); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return err
	}
	root.log.WithField("primitives", out.Prims.Len()).Debug("rendered frame")
	return outFile.Close()
}
