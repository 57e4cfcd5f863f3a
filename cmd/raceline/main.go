package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli"

	"github.com/bytearena/raceline/ba/action/inspect"
	"github.com/bytearena/raceline/ba/action/optimize"
	"github.com/bytearena/raceline/ba/action/replay"
	"github.com/bytearena/raceline/common/recording"
	"github.com/bytearena/raceline/optimizer/config"
)

func main() {
	app := makeapp()

	if err := app.Run(os.Args); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func makeapp() *cli.App {
	app := cli.NewApp()
	app.Description = "Raceline optimizer"
	app.Name = "raceline"
	app.Usage = "Search a fast line around a track with segment-wise rollouts"

	app.Commands = []cli.Command{
		{
			Name:      "optimize",
			Aliases:   []string{"o"},
			Usage:     "Optimize the raceline of a track",
			ArgsUsage: "<track>",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "config", Value: "", Usage: "JSON configuration file; defaults to $" + config.EnvConfigFile},
				cli.StringFlag{Name: "trace-file", Value: "", Usage: "Destination of the trace; named after the run by default"},
				cli.StringFlag{Name: "binary-file", Value: "", Usage: "Destination of the binary export; named after the run by default"},
				cli.BoolFlag{Name: "archive", Usage: "Also write the trace and its metadata as a zip"},
				cli.Int64Flag{Name: "seed", Value: 0, Usage: "Seed for reproducible runs"},
				cli.IntFlag{Name: "workers", Value: 0, Usage: "Workers per segment"},
				cli.IntFlag{Name: "batch-size", Value: 0, Usage: "Agents per worker"},
				cli.IntFlag{Name: "checkpoints", Value: 0, Usage: "Number of checkpoints along the path"},
				cli.StringFlag{Name: "index", Value: "", Usage: "Path index: quadtree or rtree"},
				cli.BoolFlag{Name: "debug", Usage: "Enable debug logging"},
				cli.BoolFlag{Name: "profile", Usage: "Enable execution profiling"},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					return cli.NewExitError("optimize needs a track", 1)
				}

				optimize.OptimizeAction(optimize.Options{
					MapName:       c.Args().First(),
					ConfigFile:    c.String("config"),
					TraceFile:     c.String("trace-file"),
					BinaryFile:    c.String("binary-file"),
					Archive:       c.Bool("archive"),
					Seed:          c.Int64("seed"),
					Workers:       c.Int("workers"),
					BatchSize:     c.Int("batch-size"),
					Checkpoints:   c.Int("checkpoints"),
					Index:         c.String("index"),
					IsDebug:       c.Bool("debug"),
					ShouldProfile: c.Bool("profile"),
				})
				return nil
			},
		},
		{
			Name:      "inspect",
			Aliases:   []string{"i"},
			Usage:     "Check a track and show its checkpoints",
			ArgsUsage: "<track>",
			Flags: []cli.Flag{
				cli.IntFlag{Name: "checkpoints", Value: config.DefaultConfig().Run.CheckpointCount, Usage: "Number of checkpoints along the path"},
				cli.BoolFlag{Name: "dump", Usage: "Dump the decoded track"},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					return cli.NewExitError("inspect needs a track", 1)
				}

				inspect.TrackAction(c.Args().First(), c.Int("checkpoints"), c.Bool("dump"))
				return nil
			},
		},
		{
			Name:      "replay",
			Aliases:   []string{"r"},
			Usage:     "Read back a trace and summarize it",
			ArgsUsage: "<trace>",
			Flags: []cli.Flag{
				cli.IntFlag{Name: "window", Value: recording.DefaultColourWindow, Usage: "Samples per colour window"},
				cli.BoolFlag{Name: "debug", Usage: "Print every sample"},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					return cli.NewExitError("replay needs a trace", 1)
				}

				replay.Main(c.Args().First(), c.Int("window"), c.Bool("debug"))
				return nil
			},
		},
		{
			Name:      "export",
			Aliases:   []string{"e"},
			Usage:     "Write the binary export of a trace",
			ArgsUsage: "<trace>",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "map", Value: "", Usage: "Track of the trace; required unless the trace is an archive"},
				cli.StringFlag{Name: "out", Value: "", Usage: "Destination file; <trace>.bin by default"},
				cli.IntFlag{Name: "window", Value: recording.DefaultColourWindow, Usage: "Samples per colour window"},
				cli.Float64Flag{Name: "tolerance", Value: recording.DefaultSimplifyTolerance, Usage: "Simplification tolerance"},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					return cli.NewExitError("export needs a trace", 1)
				}

				inspect.ExportAction(c.Args().First(), c.String("map"), c.String("out"), config.ExportConfig{
					ColourWindow:      c.Int("window"),
					SimplifyTolerance: c.Float64("tolerance"),
				})
				return nil
			},
		},
	}

	return app
}
