package osmspeed

// LoaderConfiguration Allows to filter ways by certain tags from OSM data
type LoaderConfiguration struct {
	EntityName string // Currently we support 'highway' only
	Tags       []string
	// Accept ways of `route=ferry` in addition to highways
	AcceptFerries bool
}

// CheckTag Checks if incoming tag is represented in configuration
func (cfg *LoaderConfiguration) CheckTag(tag string) bool {
	for i := range cfg.Tags {
		if cfg.Tags[i] == tag {
			return true
		}
	}
	return false
}

// DefaultLoaderConfiguration returns configuration accepting every way
// the speed assignment heuristics know how to handle
func DefaultLoaderConfiguration() *LoaderConfiguration {
	return &LoaderConfiguration{
		EntityName: "highway",
		Tags: []string{
			"motorway", "motorway_link",
			"trunk", "trunk_link",
			"primary", "primary_link",
			"secondary", "secondary_link",
			"tertiary", "tertiary_link",
			"unclassified", "road",
			"residential", "living_street",
			"service", "services", "track",
		},
		AcceptFerries: true,
	}
}
