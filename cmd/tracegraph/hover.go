package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/felixge/tracegraph/pkg/draw"
	"github.com/felixge/tracegraph/pkg/events"
	"github.com/peterbourgon/ff/v3/ffcli"
)

func hoverCommand(root *rootConfig) *ffcli.Command {
	var (
		frame frameConfig
		x, y  float64
	)
	fs := flag.NewFlagSet("tracegraph hover", flag.ContinueOnError)
	frame.register(fs)
	fs.Float64Var(&x, "x", 0, "cursor x in pixels")
	fs.Float64Var(&y, "y", 0, "cursor y in pixels")
	return &ffcli.Command{
		Name:       "hover",
		ShortUsage: "tracegraph hover [flags] <trace>",
		ShortHelp:  "Prints the tooltip of the cursor position in a time window.",
		FlagSet:    fs,
		Options:    ffOptions(),
		Exec: func(_ context.Context, args []string) error {
			return Hover(root, &frame, draw.Point{X: x, Y: y}, args)
		},
	}
}

func Hover(root *rootConfig, frame *frameConfig, cursor draw.Point, args []string) error {
	// Check the number of arguments
	if err := checkArgs(args, 1); err != nil {
		return err
	}

	v, err := root.load(args[0])
	if err != nil {
		return err
	}
	if err := frame.apply(v); err != nil {
		return err
	}
	in := frame.input()
	in.Input.Cursor, in.Input.CursorValid = cursor, true
	out := v.Render(in)

	fmt.Println(out.Tooltip)
	if out.MouseOverRow != "" {
		fmt.Printf("\nrow: %s\n", out.MouseOverRow)
	}
	if events.ValidID(out.Hovered) {
		fmt.Printf("hovered: %d\n", out.Hovered)
	}
	if len(out.Highlight) > 0 {
		fmt.Printf("highlight: %v\n", out.Highlight)
	}
	return nil
}
