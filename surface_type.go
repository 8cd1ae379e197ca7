package osmspeed

// SurfaceType is an ordinal measure of surface quality. Higher value means worse surface.
type SurfaceType uint8

const (
	SURFACE_PAVED_SMOOTH = SurfaceType(iota)
	SURFACE_PAVED
	SURFACE_PAVED_ROUGH
	SURFACE_COMPACTED
	SURFACE_DIRT
	SURFACE_GRAVEL
	SURFACE_PATH
	SURFACE_IMPASSABLE
)

func (iotaIdx SurfaceType) String() string {
	return [...]string{"paved_smooth", "paved", "paved_rough", "compacted", "dirt", "gravel", "path", "impassable"}[iotaIdx]
}

var (
	surfaceByTag = map[string]SurfaceType{
		"asphalt":        SURFACE_PAVED_SMOOTH,
		"concrete":       SURFACE_PAVED_SMOOTH,
		"paved":          SURFACE_PAVED,
		"paving_stones":  SURFACE_PAVED,
		"sett":           SURFACE_PAVED_ROUGH,
		"cobblestone":    SURFACE_PAVED_ROUGH,
		"metal":          SURFACE_PAVED_ROUGH,
		"wood":           SURFACE_PAVED_ROUGH,
		"compacted":      SURFACE_COMPACTED,
		"fine_gravel":    SURFACE_COMPACTED,
		"dirt":           SURFACE_DIRT,
		"earth":          SURFACE_DIRT,
		"ground":         SURFACE_DIRT,
		"mud":            SURFACE_DIRT,
		"unpaved":        SURFACE_GRAVEL,
		"gravel":         SURFACE_GRAVEL,
		"pebblestone":    SURFACE_GRAVEL,
		"rock":           SURFACE_GRAVEL,
		"grass":          SURFACE_PATH,
		"sand":           SURFACE_PATH,
		"grass_paver":    SURFACE_PATH,
		"impassable":     SURFACE_IMPASSABLE,
		"unsuitable_for": SURFACE_IMPASSABLE,
	}
)

// getSurfaceType returns surface quality for given value of `surface` tag.
// Unknown and empty values are considered to be well paved.
func getSurfaceType(surface string) SurfaceType {
	if found, ok := surfaceByTag[surface]; ok {
		return found
	}
	return SURFACE_PAVED_SMOOTH
}
