package osmspeed

import "strings"

// RoadClass is an ordinal road classification. Lower value means higher class.
// It is used directly as an index into per-class speed tables.
type RoadClass uint8

const (
	CLASS_MOTORWAY = RoadClass(iota)
	CLASS_TRUNK
	CLASS_PRIMARY
	CLASS_SECONDARY
	CLASS_TERTIARY
	CLASS_UNCLASSIFIED
	CLASS_RESIDENTIAL
	CLASS_SERVICE_OTHER
)

const (
	// Number of road classes (it is also number of slots in `way` and `roundabout` speed tables)
	ROAD_CLASSES_NUM = 8
	// Number of road classes covered by `link_exiting` and `link_turning` speed tables
	LINK_CLASSES_NUM = 5
)

func (iotaIdx RoadClass) String() string {
	return [...]string{"motorway", "trunk", "primary", "secondary", "tertiary", "unclassified", "residential", "service_other"}[iotaIdx]
}

var (
	roadClassByHighway = map[string]RoadClass{
		"motorway":      CLASS_MOTORWAY,
		"trunk":         CLASS_TRUNK,
		"primary":       CLASS_PRIMARY,
		"secondary":     CLASS_SECONDARY,
		"tertiary":      CLASS_TERTIARY,
		"unclassified":  CLASS_UNCLASSIFIED,
		"road":          CLASS_UNCLASSIFIED,
		"residential":   CLASS_RESIDENTIAL,
		"living_street": CLASS_RESIDENTIAL,
		"service":       CLASS_SERVICE_OTHER,
		"services":      CLASS_SERVICE_OTHER,
		"track":         CLASS_SERVICE_OTHER,
	}

	// Default speeds (km/h) by road class when no `maxspeed` tag has been provided
	defaultSpeedByRoadClass = [ROAD_CLASSES_NUM]uint32{105, 90, 75, 60, 50, 40, 30, 20}

	// DefaultUrbanSpeedByRoadClass Default speeds (km/h) by road class for dense (urban) regions
	DefaultUrbanSpeedByRoadClass = [ROAD_CLASSES_NUM]uint32{89, 73, 57, 49, 40, 35, 30, 20}
)

// getRoadClass returns road class for given value of `highway` tag.
// Link variants (e.g. 'motorway_link') share the class of their parent type.
func getRoadClass(highway string) (RoadClass, bool) {
	if found, ok := roadClassByHighway[highway]; ok {
		return found, true
	}
	if strings.HasSuffix(highway, "_link") {
		if found, ok := roadClassByHighway[strings.TrimSuffix(highway, "_link")]; ok {
			return found, true
		}
	}
	return CLASS_SERVICE_OTHER, false
}
