package osmspeed

import (
	"sync"

	"go.uber.org/zap"
)

// Factors used to adjust speed assignments
const (
	TURN_CHANNEL_FACTOR = 1.25
	RAMP_DENSITY_FACTOR = 0.8
	RAMP_FACTOR         = 0.85
	ROUNDABOUT_FACTOR   = 0.5
)

// Fixed speeds (km/h) for specific uses
const (
	RAIL_FERRY_SPEED    = 65 // ~40 MPH
	FERRY_SHORT_SPEED   = 10 // ~5 knots, for edges shorter than 2 km
	FERRY_MEDIUM_SPEED  = 20 // ~10 knots, for edges shorter than 8 km
	FERRY_LONG_SPEED    = 30 // ~15 knots
	DRIVEWAY_SPEED      = 10
	PARKING_AISLE_SPEED = 15
	DRIVE_THROUGH_SPEED = 10
)

// SpeedAssigner decides the default travel speed of an edge. The primary
// method derives speed from edge attributes and constant factors. It can
// be overridden by a JSON config which allows geography specific speed
// assignment by country/state, urban/rural bucket, road class and use.
//
// The assigner is read-only after construction and may be shared by any
// number of workers processing edges concurrently.
type SpeedAssigner struct {
	registry *SpeedsRegistry
}

// NewSpeedAssigner returns assigner with tabular speeds loaded from given
// file. Empty fileName (or a broken file) leaves only the attribute-based
// heuristics enabled.
func NewSpeedAssigner(fileName string, logger *zap.Logger) *SpeedAssigner {
	return &SpeedAssigner{
		registry: NewSpeedsRegistry(fileName, logger),
	}
}

var (
	assignerOnce     sync.Once
	assignerInstance *SpeedAssigner
)

// GetSpeedAssigner returns the process-wide assigner, constructing it on
// the first call. The graph building pipeline must call it before edge
// processing starts; later calls ignore the arguments.
func GetSpeedAssigner(fileName string, logger *zap.Logger) *SpeedAssigner {
	assignerOnce.Do(func() {
		assignerInstance = NewSpeedAssigner(fileName, logger)
	})
	return assignerInstance
}

// roundFactor multiplies speed by given factor rounding to the nearest integer
func roundFactor(speed uint32, factor float64) uint32 {
	return uint32(float64(speed)*factor + 0.5)
}

// fromConfig assigns edge speed from the loaded per-geography tables.
// Returns false when the edge is of a kind which tables cannot cover
// (ferries, no vehicular access, link of too low class) or when no table
// matches given country/state; the edge is left untouched in that case.
func (assigner *SpeedAssigner) fromConfig(edge *Edge, density uint32, country, state string) bool {
	// Let the heuristics handle ferry stuff or anything not motor vehicle
	if edge.Use == USE_FERRY || edge.Use == USE_RAIL_FERRY || !edge.hasVehicularAccess() {
		return false
	}

	found, ok := assigner.registry.find(country, state)
	if !ok {
		return false
	}

	bucket := URBAN_TABLE_IDX
	if density <= URBAN_DENSITY_THRESHOLD {
		bucket = RURAL_TABLE_IDX
	}
	speedTable := found[bucket]
	rc := int(edge.Class)

	// Some kind of special use
	if serviceIdx, ok := edge.Use.serviceIdx(); ok {
		edge.Speed = speedTable.Service[serviceIdx]
		return true
	}

	if edge.Link {
		// Low classes don't have links
		if rc >= LINK_CLASSES_NUM {
			return false
		}
		// Signage tells an exit ramp from a plain link/turn channel
		if edge.Sign {
			edge.Speed = speedTable.LinkExiting[rc]
		} else {
			edge.Speed = speedTable.LinkTurning[rc]
		}
		return true
	}

	if edge.Roundabout {
		edge.Speed = speedTable.Roundabout[rc]
		return true
	}

	// Non-special use, just use the road class
	edge.Speed = speedTable.Way[rc]
	return true
}

// UpdateSpeed assigns the default speed to given edge based on local road
// density and edge attributes like use, surface and road class.
//
// urbanSpeeds is a table of default speeds by road class for urban
// regions. Country and state codes may be empty when no admin information
// has been resolved for the edge's end node.
//
// Success or failure is expressed entirely through the edge's mutated
// Speed field; an edge no branch covers is left untouched.
func (assigner *SpeedAssigner) UpdateSpeed(edge *Edge, density uint32, urbanSpeeds *[ROAD_CLASSES_NUM]uint32, inferTurnChannels bool, countryCode, stateCode string) {
	// When tables are loaded they are the exclusive path for edges they resolve
	if !assigner.registry.Empty() && assigner.fromConfig(edge, density, countryCode, stateCode) {
		return
	}

	// Update speed on ramps (unless speed has been tagged) and turn channels
	if edge.Link {
		speed := edge.Speed
		if edge.Use == USE_TURN_CHANNEL && inferTurnChannels {
			speed = roundFactor(speed, TURN_CHANNEL_FACTOR)
		} else if edge.Use == USE_RAMP && edge.SpeedType != SPEED_TAGGED {
			// No tagged speed, so set ramp speed slightly lower than
			// speed of roads of this classification
			if edge.Class == CLASS_MOTORWAY || edge.Class == CLASS_TRUNK || edge.Class == CLASS_PRIMARY {
				if density > URBAN_DENSITY_THRESHOLD {
					speed = roundFactor(speed, RAMP_DENSITY_FACTOR)
				} else {
					speed = roundFactor(speed, RAMP_FACTOR)
				}
			} else {
				speed = roundFactor(speed, RAMP_FACTOR)
			}
		}
		edge.Speed = speed
		return
	}

	// Speed assigned from a `maxspeed` tag is only adjusted for surface quality
	if edge.SpeedType == SPEED_TAGGED {
		if edge.Surface >= SURFACE_PAVED_ROUGH {
			if edge.Speed >= 50 {
				edge.Speed -= 10
			} else if edge.Speed > 15 {
				edge.Speed -= 5
			}
		}
		return
	}

	// Speed on ferries is based on length, assuming longer routes
	// generally use a faster boat
	if edge.Use == USE_RAIL_FERRY {
		edge.Speed = RAIL_FERRY_SPEED
		return
	} else if edge.Use == USE_FERRY {
		// Edges leaving the tile are resolved by a later pass
		if edge.LeavesTile {
			return
		} else if edge.LengthMeters < 2000 {
			edge.Speed = FERRY_SHORT_SPEED
		} else if edge.LengthMeters < 8000 {
			edge.Speed = FERRY_MEDIUM_SPEED
		} else {
			edge.Speed = FERRY_LONG_SPEED
		}
		return
	}

	// Roads in urban regions get urban speeds by class
	if density > URBAN_DENSITY_THRESHOLD {
		edge.Speed = urbanSpeeds[edge.Class]
	}

	if edge.Roundabout {
		// Could be default or just assigned urban speed
		edge.Speed = roundFactor(edge.Speed, ROUNDABOUT_FACTOR)
	}

	// Reduce speeds on parking aisles, driveways and drive-throughs
	switch edge.Use {
	case USE_PARKING_AISLE:
		edge.Speed = PARKING_AISLE_SPEED
	case USE_DRIVEWAY:
		edge.Speed = DRIVEWAY_SPEED
	case USE_DRIVE_THROUGH:
		edge.Speed = DRIVE_THROUGH_SPEED
	}

	if edge.Surface >= SURFACE_PAVED_ROUGH {
		edge.Speed = edge.Speed / 2
	}
}
