package osmspeed

import (
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
)

const SERVICE_USES_NUM = 4

// SpeedTable holds default speeds (km/h) for one geography and one
// urban/rural bucket, indexed by road class
type SpeedTable struct {
	// No special uses
	Way [ROAD_CLASSES_NUM]uint32
	// Signed exit ramps
	LinkExiting [LINK_CLASSES_NUM]uint32
	// Unsigned ramps and turn channels
	LinkTurning [LINK_CLASSES_NUM]uint32
	Roundabout  [ROAD_CLASSES_NUM]uint32
	// Driveway, alley, parking_aisle, drive-through
	Service [SERVICE_USES_NUM]uint32
}

type speedTableDocument struct {
	Way          []uint32 `json:"way"`
	LinkExiting  []uint32 `json:"link_exiting"`
	LinkTurning  []uint32 `json:"link_turning"`
	Roundabout   []uint32 `json:"roundabout"`
	Driveway     *uint32  `json:"driveway"`
	Alley        *uint32  `json:"alley"`
	ParkingAisle *uint32  `json:"parking_aisle"`
	DriveThrough *uint32  `json:"drive-through"`
}

func fillSpeeds(entries []uint32, name string, target []uint32) error {
	if entries == nil {
		return fmt.Errorf("field '%s' is required", name)
	}
	if len(entries) != len(target) {
		return fmt.Errorf("field '%s' must have %d speeds, but got %d", name, len(target), len(entries))
	}
	copy(target, entries)
	return nil
}

// UnmarshalJSON validates shape of the table strictly: every field is
// required and arrays must have their exact declared lengths
func (table *SpeedTable) UnmarshalJSON(data []byte) error {
	document := speedTableDocument{}
	if err := json.Unmarshal(data, &document); err != nil {
		return errors.Wrap(err, "Can't decode speed table")
	}
	if err := fillSpeeds(document.Way, "way", table.Way[:]); err != nil {
		return err
	}
	if err := fillSpeeds(document.LinkExiting, "link_exiting", table.LinkExiting[:]); err != nil {
		return err
	}
	if err := fillSpeeds(document.LinkTurning, "link_turning", table.LinkTurning[:]); err != nil {
		return err
	}
	if err := fillSpeeds(document.Roundabout, "roundabout", table.Roundabout[:]); err != nil {
		return err
	}
	scalars := [SERVICE_USES_NUM]struct {
		name  string
		value *uint32
	}{
		{"driveway", document.Driveway},
		{"alley", document.Alley},
		{"parking_aisle", document.ParkingAisle},
		{"drive-through", document.DriveThrough},
	}
	for i := range scalars {
		if scalars[i].value == nil {
			return fmt.Errorf("field '%s' is required", scalars[i].name)
		}
		table.Service[i] = *scalars[i].value
	}
	return nil
}
