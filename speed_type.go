package osmspeed

// SpeedType marks provenance of edge's speed value
type SpeedType uint8

const (
	// Speed has been derived from road classification
	SPEED_CLASSIFIED = SpeedType(iota)
	// Speed has been taken from `maxspeed` tag of the source data
	SPEED_TAGGED
)

func (iotaIdx SpeedType) String() string {
	return [...]string{"classified", "tagged"}[iotaIdx]
}
