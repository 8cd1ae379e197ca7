package osmspeed

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/paulmach/osm"
	"go.uber.org/zap"
)

type wayData struct {
	ID     osm.WayID
	Nodes  []osm.NodeID
	TagMap osm.Tags

	highway  string
	route    string
	railway  string
	junction string
	service  string
	surface  string
	area     string

	class         RoadClass
	use           UseType
	surfaceType   SurfaceType
	maxSpeed      float64
	forwardAccess AccessMask
	reverseAccess AccessMask
	link          bool
	sign          bool
	roundabout    bool
	oneway        bool
}

var (
	mphRegExp     = regexp.MustCompile(`(\d+\.?\d*)\s*mph`)
	kmhRegExp     = regexp.MustCompile(`(\d+\.?\d*)\s*(?:km/h|kmh|kph)?$`)
	knotsRegExp   = regexp.MustCompile(`(\d+\.?\d*)\s*knots`)
	mphToKmh      = 1.60934
	knotsToKmh    = 1.852
	onewayAllowed = map[string]struct{}{
		"yes": {},
		"1":   {},
		"-1":  {},
	}
)

// parseMaxSpeed returns value of `maxspeed` tag converted to km/h.
// Returns -1 when the value can't be interpreted.
func parseMaxSpeed(maxSpeed string) float64 {
	if maxSpeed == "" || maxSpeed == "none" || maxSpeed == "signals" {
		return -1
	}
	if match := mphRegExp.FindStringSubmatch(maxSpeed); match != nil {
		value, err := strconv.ParseFloat(match[1], 64)
		if err != nil {
			return -1
		}
		return value * mphToKmh
	}
	if match := knotsRegExp.FindStringSubmatch(maxSpeed); match != nil {
		value, err := strconv.ParseFloat(match[1], 64)
		if err != nil {
			return -1
		}
		return value * knotsToKmh
	}
	if match := kmhRegExp.FindStringSubmatch(strings.TrimSpace(maxSpeed)); match != nil {
		value, err := strconv.ParseFloat(match[1], 64)
		if err != nil {
			return -1
		}
		return value
	}
	return -1
}

func (way *wayData) processTags(logger *zap.Logger) {
	way.highway = way.TagMap.Find("highway")
	way.route = way.TagMap.Find("route")
	way.railway = way.TagMap.Find("railway")
	way.junction = way.TagMap.Find("junction")
	way.service = way.TagMap.Find("service")
	way.surface = way.TagMap.Find("surface")
	way.area = way.TagMap.Find("area")

	way.link = strings.HasSuffix(way.highway, "_link")
	way.roundabout = way.junction == "roundabout" || way.junction == "circular"
	way.surfaceType = getSurfaceType(way.surface)

	// Signage tells an exit ramp from a plain link or turn channel
	if way.TagMap.Find("destination") != "" || way.TagMap.Find("destination:ref") != "" || way.TagMap.Find("junction:ref") != "" {
		way.sign = true
	}

	class, known := getRoadClass(way.highway)
	if !known && way.highway != "" {
		logger.Sugar().Warnf("Unhandled `highway` tag value: '%s'. Way ID: '%d'", way.highway, way.ID)
	}
	way.class = class

	switch {
	case way.route == "ferry" && way.railway != "":
		way.use = USE_RAIL_FERRY
	case way.route == "ferry":
		way.use = USE_FERRY
	case way.link:
		way.use = USE_RAMP
	default:
		if found, ok := useByServiceTag[way.service]; ok {
			way.use = found
		} else {
			way.use = USE_ROAD
		}
	}

	maxSpeed := way.TagMap.Find("maxspeed")
	if maxSpeed != "" {
		way.maxSpeed = parseMaxSpeed(maxSpeed)
		if way.maxSpeed < 0 {
			logger.Sugar().Warnf("Provided `maxspeed` tag value can't be interpreted. Got '%s'. Way ID: '%d'", maxSpeed, way.ID)
		}
	} else {
		way.maxSpeed = -1
	}

	way.forwardAccess = ACCESS_VEHICULAR
	way.reverseAccess = ACCESS_VEHICULAR
	if way.TagMap.Find("motor_vehicle") == "no" || way.TagMap.Find("motorcar") == "no" || way.TagMap.Find("access") == "no" {
		way.forwardAccess &^= ACCESS_VEHICULAR
		way.reverseAccess &^= ACCESS_VEHICULAR
	}

	if _, ok := onewayAllowed[way.TagMap.Find("oneway")]; ok || way.roundabout {
		way.oneway = true
		way.reverseAccess = AccessMask(0)
	}
}

// speedFromTags returns initial speed value and its provenance for an edge of the way
func (way *wayData) speedFromTags() (uint32, SpeedType) {
	if way.maxSpeed > 0 {
		return uint32(way.maxSpeed + 0.5), SPEED_TAGGED
	}
	return defaultSpeedByRoadClass[way.class], SPEED_CLASSIFIED
}
