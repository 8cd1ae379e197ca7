package osmspeed

// UseType describes specific usage of an edge beyond its road class
type UseType uint16

const (
	USE_ROAD = UseType(iota)
	USE_RAMP
	USE_TURN_CHANNEL
	USE_DRIVEWAY
	USE_ALLEY
	USE_PARKING_AISLE
	USE_DRIVE_THROUGH
	USE_FERRY
	USE_RAIL_FERRY
	USE_OTHER
)

func (iotaIdx UseType) String() string {
	return [...]string{"road", "ramp", "turn_channel", "driveway", "alley", "parking_aisle", "drive_through", "ferry", "rail_ferry", "other"}[iotaIdx]
}

var (
	// Maps value of `service` tag to specific use
	useByServiceTag = map[string]UseType{
		"driveway":      USE_DRIVEWAY,
		"alley":         USE_ALLEY,
		"parking_aisle": USE_PARKING_AISLE,
		"drive-through": USE_DRIVE_THROUGH,
		"drive_through": USE_DRIVE_THROUGH,
	}
)

// serviceIdx returns position of the use in `service` speed table.
// Order is fixed: driveway, alley, parking_aisle, drive-through.
func (iotaIdx UseType) serviceIdx() (int, bool) {
	switch iotaIdx {
	case USE_DRIVEWAY:
		return 0, true
	case USE_ALLEY:
		return 1, true
	case USE_PARKING_AISLE:
		return 2, true
	case USE_DRIVE_THROUGH:
		return 3, true
	default:
		return -1, false
	}
}
