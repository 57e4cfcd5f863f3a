package inspect

import (
	"fmt"
	"strconv"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
	"github.com/ttacon/chalk"

	mapcmd "github.com/bytearena/raceline/ba/action/map"
	"github.com/bytearena/raceline/ba/action/optimize"
	trainutils "github.com/bytearena/raceline/ba/utils"
	"github.com/bytearena/raceline/common/replay"
	"github.com/bytearena/raceline/optimizer"
	"github.com/bytearena/raceline/optimizer/config"
	"github.com/bytearena/raceline/optimizer/state"
)

// Report describes a track as the optimizer will see it
type Report struct {
	Name         string
	Filename     string
	Invalid      error
	CorridorArea float64
	PathPoints   int
	PathLength   float64
	Checkpoints  []optimizer.Checkpoint
	Spawn        state.VehicleState
}

func Describe(loaded *mapcmd.LoadedTrack, checkpointCount int) (Report, error) {
	report := Report{
		Name:         loaded.Container.Meta.Name,
		Filename:     loaded.Filename,
		Invalid:      loaded.Track.Validate(),
		CorridorArea: loaded.Track.CorridorArea(),
		PathPoints:   len(loaded.Path),
	}

	n := len(loaded.Path)
	for i := 0; i < n; i++ {
		report.PathLength += loaded.Path.At(i).DistanceTo(loaded.Path.At(i + 1))
	}

	checkpoints, err := optimizer.BuildCheckpoints(loaded.Path, checkpointCount)
	if err != nil {
		return report, errors.Wrap(err, "Could not place checkpoints")
	}

	report.Checkpoints = checkpoints

	if loaded.Spawn != nil {
		report.Spawn = *loaded.Spawn
	} else {
		spawn, err := optimizer.SpawnPose(loaded.Path)
		if err != nil {
			return report, err
		}

		report.Spawn = spawn
	}

	return report, nil
}

func TrackAction(mapName string, checkpointCount int, dump bool) {
	loaded, err := mapcmd.LoadTrack(mapName)
	if err != nil {
		trainutils.FailWith(err)
	}

	report, err := Describe(loaded, checkpointCount)
	if err != nil {
		trainutils.FailWith(err)
	}

	fmt.Println(chalk.Blue.Color("Track " + report.Name + " (" + report.Filename + ")"))

	if report.Invalid != nil {
		trainutils.WarnWith(report.Invalid)
	} else {
		fmt.Println(chalk.Green.Color("boundaries are valid"))
	}

	fmt.Printf("corridor area: %.2f\n", report.CorridorArea)
	fmt.Printf("path:          %d points, %.2f long\n", report.PathPoints, report.PathLength)
	fmt.Println("spawn:         " + report.Spawn.String())
	fmt.Println("checkpoints:   " + strconv.Itoa(len(report.Checkpoints)))

	for i, checkpoint := range report.Checkpoints {
		fmt.Printf("  %2d: path[%d] %s\n", i, checkpoint.PathIndex, checkpoint.Position)
	}

	if dump {
		spew.Dump(loaded.Container)
	}
}

// LoadTrace reads a plain or archived trace; an archive may carry its own track
func LoadTrace(filename string) (state.Trace, *mapcmd.LoadedTrack, error) {
	replayer, err := replay.NewReplayer(filename)
	if err != nil {
		return nil, nil, err
	}

	var embedded *mapcmd.LoadedTrack
	if metadata, err := replayer.ReadMetadata(); err == nil && metadata.MapContainer != nil {
		embedded, err = mapcmd.MakeLoadedTrack(filename, metadata.MapContainer)
		if err != nil {
			return nil, nil, err
		}
	}

	states := make([]state.ReplayState, 0)
	for msg := range replayer.Read() {
		states = append(states, msg.State)
	}

	if err := replayer.Err(); err != nil {
		return nil, nil, err
	}

	return replay.ToTrace(states), embedded, nil
}

// ExportAction turns an existing trace into a binary export
func ExportAction(traceFile string, mapName string, out string, export config.ExportConfig) {
	trace, loaded, err := LoadTrace(traceFile)
	if err != nil {
		trainutils.FailWith(err)
	}

	if mapName != "" {
		loaded, err = mapcmd.LoadTrack(mapName)
		if err != nil {
			trainutils.FailWith(err)
		}
	}

	if loaded == nil {
		trainutils.FailWith(errors.Errorf("%s carries no track; use --map", traceFile))
	}

	if out == "" {
		out = traceFile + ".bin"
	}

	if err := optimize.ExportBinary(out, loaded, trace, export); err != nil {
		trainutils.FailWith(err)
	}

	fmt.Println(chalk.Green.Color("Exported " + strconv.Itoa(len(trace)) + " samples to " + out))
}
