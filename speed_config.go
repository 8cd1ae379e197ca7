package osmspeed

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Positions of urban/rural buckets in a registry entry
const (
	URBAN_TABLE_IDX = 0
	RURAL_TABLE_IDX = 1
)

// Local road density above this value is considered to be urban
const URBAN_DENSITY_THRESHOLD = 8

// SpeedsRegistry is a read-only mapping from geography key to a pair of
// urban/rural speed tables. Key is lowercased 'cc.ss' (ISO country and
// subdivision), 'cc.' when only the country is known, or an empty string
// for a global default entry.
//
// The registry is built exactly once; concurrent lookups need no locking.
type SpeedsRegistry struct {
	tables map[string][2]SpeedTable
}

type speedsRecord struct {
	Country string      `json:"iso3166-1"`
	State   string      `json:"iso3166-2"`
	Urban   *SpeedTable `json:"urban"`
	Rural   *SpeedTable `json:"rural"`
}

// NewSpeedsRegistry reads given JSON document of per-geography speed
// tables. Empty fileName disables tabular speeds assignment. Any read,
// parse or shape failure degrades the registry to an empty one with a
// warning: a malformed overrides file must never abort graph building.
func NewSpeedsRegistry(fileName string, logger *zap.Logger) *SpeedsRegistry {
	registry := &SpeedsRegistry{
		tables: make(map[string][2]SpeedTable),
	}
	if fileName == "" {
		logger.Info("Disabled default speeds assignment from config")
		return registry
	}
	if err := registry.loadTables(fileName); err != nil {
		logger.Warn("Disabled default speeds assignment from config", zap.Error(err))
		registry.tables = make(map[string][2]SpeedTable)
		return registry
	}
	logger.Info("Enabled default speeds assignment from config", zap.String("filename", fileName), zap.Int("entries", len(registry.tables)))
	return registry
}

func (registry *SpeedsRegistry) loadTables(fileName string) error {
	data, err := os.ReadFile(fileName)
	if err != nil {
		return errors.Wrap(err, "Can't read config file")
	}
	records := []speedsRecord{}
	if err := json.Unmarshal(data, &records); err != nil {
		return errors.Wrap(err, "Can't decode config file")
	}
	for _, record := range records {
		if len(record.Country) != 2 {
			return fmt.Errorf("field 'iso3166-1' must be a 2-letter country code, but got '%s'", record.Country)
		}
		if len(record.State) != 2 {
			return fmt.Errorf("field 'iso3166-2' must be a 2-letter subdivision code, but got '%s'", record.State)
		}
		if record.Urban == nil {
			return fmt.Errorf("field 'urban' is required for '%s.%s'", record.Country, record.State)
		}
		if record.Rural == nil {
			return fmt.Errorf("field 'rural' is required for '%s.%s'", record.Country, record.State)
		}
		code := strings.ToLower(record.Country) + "." + strings.ToLower(record.State)
		registry.tables[code] = [2]SpeedTable{*record.Urban, *record.Rural}
	}
	return nil
}

// Empty reports whether the registry carries no tables at all
func (registry *SpeedsRegistry) Empty() bool {
	return len(registry.tables) == 0
}

// Size returns number of loaded geography entries
func (registry *SpeedsRegistry) Size() int {
	return len(registry.tables)
}

// find returns tables for the most specific known geography:
// exact country/state pair first, then country only, then the global
// default entry
func (registry *SpeedsRegistry) find(country, state string) ([2]SpeedTable, bool) {
	if found, ok := registry.tables[strings.ToLower(country)+"."+strings.ToLower(state)]; ok {
		return found, true
	}
	if found, ok := registry.tables[strings.ToLower(country)+"."]; ok {
		return found, true
	}
	if found, ok := registry.tables[""]; ok {
		return found, true
	}
	return [2]SpeedTable{}, false
}
