package osmspeed

import (
	"github.com/paulmach/osm"
)

type EdgeID int64

// Edge is a directed segment of the road graph carrying attributes
// needed for speed assignment
type Edge struct {
	ID           EdgeID
	WayID        osm.WayID
	SourceNodeID osm.NodeID
	TargetNodeID osm.NodeID

	Class        RoadClass
	Use          UseType
	Surface      SurfaceType
	SpeedType    SpeedType
	Speed        uint32 // km/h
	LengthMeters float64

	ForwardAccess AccessMask
	ReverseAccess AccessMask

	Link       bool // Ramp, turn channel or another connector
	Roundabout bool
	Sign       bool // Exit signage is present
	LeavesTile bool // Edge ends outside of the current tile; such ferry edges are resolved by a later pass
	WasOneway  bool

	Geom []GeoPoint
}

// hasVehicularAccess reports whether any motorized mode may traverse
// the edge in at least one direction
func (edge *Edge) hasVehicularAccess() bool {
	return (edge.ForwardAccess|edge.ReverseAccess)&ACCESS_VEHICULAR != 0
}
