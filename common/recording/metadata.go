package recording

import (
	"github.com/bytearena/raceline/common/types/mapcontainer"
	"github.com/bytearena/raceline/optimizer/state"
)

// RecordMetadata describes the run a trace comes from
type RecordMetadata struct {
	RunId        string                     `json:"runid"`
	RunName      string                     `json:"runname"`
	Date         string                     `json:"date"`
	Spawn        state.VehicleState         `json:"spawn"`
	Stats        string                     `json:"stats,omitempty"`
	MapContainer *mapcontainer.MapContainer `json:"map,omitempty"`
}
