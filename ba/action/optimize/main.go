package optimize

import (
	"context"
	"fmt"
	"os"
	"reflect"
	"runtime/pprof"
	"strconv"
	"time"

	"github.com/cheggaaa/pb"
	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
	"github.com/ttacon/chalk"

	mapcmd "github.com/bytearena/raceline/ba/action/map"
	trainutils "github.com/bytearena/raceline/ba/utils"
	"github.com/bytearena/raceline/common"
	"github.com/bytearena/raceline/common/utils"
	"github.com/bytearena/raceline/optimizer"
	"github.com/bytearena/raceline/optimizer/config"
)

const (
	TIME_BEFORE_FORCE_QUIT = 10 * time.Second
)

// Options are the command line values; zero values keep the configuration
type Options struct {
	MapName       string
	ConfigFile    string
	TraceFile     string
	BinaryFile    string
	Archive       bool
	Seed          int64
	Workers       int
	BatchSize     int
	Checkpoints   int
	Index         string
	IsDebug       bool
	ShouldProfile bool
}

func OptimizeAction(options Options) {
	debug := func(str string) {}

	utils.SetDebug(options.IsDebug)
	if options.IsDebug {
		debug = func(str string) {
			fmt.Println(chalk.Dim.TextStyle("[debug] " + str))
		}

		utils.LogFn = func(service, message string) {
			debug("[" + service + "] " + message)
		}
	}

	cfg, err := config.Load(options.ConfigFile)
	if err != nil {
		trainutils.FailWith(err)
	}

	cfg = ApplyOverrides(cfg, options)

	loaded, err := mapcmd.LoadTrack(options.MapName)
	if err != nil {
		trainutils.FailWith(err)
	}

	o, err := optimizer.NewOrchestrator(loaded.Track, loaded.Path, loaded.Spawn, cfg)
	if err != nil {
		trainutils.FailWith(err)
	}

	if options.ShouldProfile {
		startProfile(o, "./cpu.prof")
	}

	files := DefaultFiles(cfg.Export, o.GetId())

	runPreflightChecks(files)

	if options.IsDebug {
		spew.Dump(cfg)
	}

	fmt.Println(chalk.Blue.Color("Optimizing " + loaded.Filename + " as run " + o.GetName() + " (" + o.GetId() + ")"))

	bar := pb.New(cfg.Run.CheckpointCount)
	bar.SetWidth(80)
	bar.Prefix("segments ")
	bar.Start()

	// consume optimizer events
	eventsDone := make(chan struct{})
	events := o.Events()

	go func() {
		defer close(eventsDone)

		for msg := range events {
			switch t := msg.(type) {
			case optimizer.EventLog:
				debug(t.Value)

			case optimizer.EventDebug:
				debug(t.Value)

			case optimizer.EventSegmentStart:
				debug("attempt " + strconv.Itoa(t.Attempt) + " on " + t.Segment.String())

			case optimizer.EventSegmentDone:
				bar.Set(t.Solved)

			case optimizer.EventWarn:
				if options.IsDebug {
					trainutils.WarnWith(t.Err)
				}

			case optimizer.EventError:
				debug(t.Err.Error())

			case optimizer.EventClose:
				return

			default:
				msg := fmt.Sprintf("Unsupported message of type %s", reflect.TypeOf(msg))
				panic(msg)
			}
		}
	}()

	// handling signals
	runDone := make(chan struct{})

	go func() {
		select {
		case <-common.SignalHandler():
		case <-runDone:
			return
		}

		debug("Shutdown...")
		o.Stop()

		// Force quit if the run didn't exit
		select {
		case <-time.After(TIME_BEFORE_FORCE_QUIT):
			trainutils.FailWith(errors.New("Forced shutdown"))
		case <-runDone:
		}
	}()

	trace, err := o.Run(context.Background())
	close(runDone)
	<-eventsDone

	o.TearDown()
	bar.Finish()

	if err != nil {
		if errors.Cause(err) == context.Canceled {
			fmt.Println(chalk.Yellow.Color("Run interrupted: " + o.Stats().String()))
			return
		}

		trainutils.FailWith(err)
	}

	if err := ExportTrace(files.Trace, options.Archive, Metadata(o, loaded), trace); err != nil {
		trainutils.FailWith(err)
	}

	if err := ExportBinary(files.Binary, loaded, trace, cfg.Export); err != nil {
		trainutils.FailWith(err)
	}

	fmt.Println(chalk.Green.Color("Run " + o.GetName() + " completed: " + o.Stats().String()))
	fmt.Println("trace:  " + files.Trace)
	fmt.Println("binary: " + files.Binary)
}

// ApplyOverrides lets the command line win over the configuration file
func ApplyOverrides(cfg config.Config, options Options) config.Config {
	if options.Seed != 0 {
		cfg.Run.Seed = options.Seed
	}

	if options.Workers > 0 {
		cfg.Run.Workers = options.Workers
	}

	if options.BatchSize > 0 {
		cfg.Run.BatchSize = options.BatchSize
	}

	if options.Checkpoints > 0 {
		cfg.Run.CheckpointCount = options.Checkpoints
	}

	if options.Index != "" {
		cfg.Run.Index = options.Index
	}

	if options.TraceFile != "" {
		cfg.Export.TraceFile = options.TraceFile
	}

	if options.BinaryFile != "" {
		cfg.Export.BinaryFile = options.BinaryFile
	}

	return cfg
}

// startProfile writes a CPU profile until the orchestrator is torn down
func startProfile(o *optimizer.Orchestrator, filename string) {
	f, err := os.Create(filename)
	utils.Check(err, "Could not create CPU profile")

	err = pprof.StartCPUProfile(f)
	utils.Check(err, "Could not start CPU profile")

	o.AddTearDownCall(func() error {
		pprof.StopCPUProfile()
		return f.Close()
	})
}
