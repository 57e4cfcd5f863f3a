package mapcmd

import (
	"os"
	"os/user"
	"path"

	"github.com/pkg/errors"

	"github.com/bytearena/raceline/common/mappack"
	"github.com/bytearena/raceline/common/types/mapcontainer"
	"github.com/bytearena/raceline/common/utils"
	"github.com/bytearena/raceline/optimizer"
	"github.com/bytearena/raceline/optimizer/pathindex"
	"github.com/bytearena/raceline/optimizer/state"
	"github.com/bytearena/raceline/optimizer/track"
)

// ConfigDirName is the folder, under the home directory, holding named track packs
const ConfigDirName = ".raceline"

// LoadedTrack is everything a run needs from a track file
type LoadedTrack struct {
	Filename  string
	Container *mapcontainer.MapContainer
	Track     track.Track
	Path      pathindex.Path
	// nil when the track has no explicit start
	Spawn *state.VehicleState
}

// GetMapLocation resolves a track argument: an existing file, or the name of a
// pack stored in ~/.raceline
func GetMapLocation(mapName string) (string, error) {
	if filename := utils.ResolveFile(mapName); filename != "" {
		if _, err := os.Stat(filename); err == nil {
			return filename, nil
		}
	}

	u, err := user.Current()
	if err != nil {
		return "", errors.Wrap(err, "Could not determine the home directory")
	}

	location := path.Join(u.HomeDir, ConfigDirName, mapName+".zip")
	if _, err := os.Stat(location); err != nil {
		return "", errors.Errorf("Track %s not found, neither as a file nor in %s", mapName, path.Dir(location))
	}

	return location, nil
}

func LoadTrack(mapName string) (*LoadedTrack, error) {
	filename, err := GetMapLocation(mapName)
	if err != nil {
		return nil, err
	}

	m, err := mappack.Load(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "Could not load track %s", filename)
	}

	return MakeLoadedTrack(filename, m)
}

func MakeLoadedTrack(filename string, m *mapcontainer.MapContainer) (*LoadedTrack, error) {
	outer, inner, err := m.Boundaries()
	if err != nil {
		return nil, errors.Wrapf(err, "Invalid track %s", filename)
	}

	loaded := &LoadedTrack{
		Filename:  filename,
		Container: m,
		Track:     track.MakeTrack(outer, inner),
		Path:      pathindex.Path(m.Raceline()),
	}

	if start, ok := m.Start(); ok {
		spawn, err := spawnFromStart(start, loaded.Path)
		if err != nil {
			return nil, errors.Wrapf(err, "Invalid start %s in %s", start.Id, filename)
		}

		loaded.Spawn = &spawn
	}

	utils.Debug("map", "loaded "+filename+" ("+m.Meta.Name+")")

	return loaded, nil
}

// spawnFromStart keeps the heading derived from the path when the start has no bearing
func spawnFromStart(start mapcontainer.MapStart, path pathindex.Path) (state.VehicleState, error) {
	if start.Bearing != nil {
		return state.MakeVehicleState(start.Point.ToVector2(), *start.Bearing), nil
	}

	derived, err := optimizer.SpawnPose(path)
	if err != nil {
		return state.VehicleState{}, err
	}

	return state.MakeVehicleState(start.Point.ToVector2(), derived.Bearing), nil
}
