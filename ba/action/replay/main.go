package replay

import (
	"fmt"
	"strconv"

	"github.com/ttacon/chalk"

	trainutils "github.com/bytearena/raceline/ba/utils"
	"github.com/bytearena/raceline/common"
	"github.com/bytearena/raceline/common/recording"
	tracereplay "github.com/bytearena/raceline/common/replay"
	"github.com/bytearena/raceline/common/utils"
	"github.com/bytearena/raceline/optimizer/state"
)

// Summary is what a replayed trace looks like once coloured
type Summary struct {
	Samples  int
	Distance float64
	Colours  map[recording.Colour]int
}

func Summarize(states []state.ReplayState, window int) Summary {
	summary := Summary{
		Samples: len(states),
		Colours: make(map[recording.Colour]int),
	}

	for i := 1; i < len(states); i++ {
		summary.Distance += states[i-1].Position.DistanceTo(states[i].Position)
	}

	for _, colour := range recording.ColourWeighting(recording.Throttles(tracereplay.ToTrace(states)), window) {
		summary.Colours[colour]++
	}

	return summary
}

func Main(filename string, window int, isDebug bool) {
	replayer, err := tracereplay.NewReplayer(filename)
	if err != nil {
		trainutils.FailWith(err)
	}

	if metadata, err := replayer.ReadMetadata(); err == nil {
		fmt.Println(chalk.Blue.Color("Run " + metadata.RunName + " (" + metadata.RunId + ") of " + metadata.Date))
		if metadata.Stats != "" {
			fmt.Println(metadata.Stats)
		}
	}

	go func() {
		<-common.SignalHandler()

		utils.Debug("sighandler", "RECEIVED SHUTDOWN SIGNAL; closing.")
		replayer.Stop()
	}()

	states := make([]state.ReplayState, 0)

	for msg := range replayer.Read() {
		if isDebug {
			fmt.Printf("%5d %s %.3f %g\n", msg.Line, msg.State.Position, msg.State.Bearing, msg.State.Throttle)
		}

		states = append(states, msg.State)
	}

	if err := replayer.Err(); err != nil {
		trainutils.FailWith(err)
	}

	summary := Summarize(states, window)

	fmt.Println(strconv.Itoa(summary.Samples) + " samples over " + strconv.FormatFloat(summary.Distance, 'f', 2, 64))

	for _, colour := range []recording.Colour{recording.Green, recording.Yellow, recording.Red} {
		fmt.Printf("%-8s %d samples\n", colour, summary.Colours[colour])
	}
}
