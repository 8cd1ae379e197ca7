package osmspeed

// AccessMask is a bit set of travel modes allowed on an edge in one direction
type AccessMask uint16

const (
	ACCESS_AUTO = AccessMask(1 << iota)
	ACCESS_TRUCK
	ACCESS_MOTORCYCLE
	ACCESS_BUS
	ACCESS_TAXI
	ACCESS_BICYCLE
	ACCESS_PEDESTRIAN
)

// ACCESS_VEHICULAR covers every motorized travel mode
const ACCESS_VEHICULAR = ACCESS_AUTO | ACCESS_TRUCK | ACCESS_MOTORCYCLE | ACCESS_BUS | ACCESS_TAXI

func (mask AccessMask) String() string {
	names := [...]string{"auto", "truck", "motorcycle", "bus", "taxi", "bicycle", "pedestrian"}
	agg := ""
	for i := 0; i < len(names); i++ {
		if mask&(1<<uint(i)) == 0 {
			continue
		}
		if agg != "" {
			agg += ","
		}
		agg += names[i]
	}
	return agg
}
