package osmspeed

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func singleRecordDocument(country, state string) string {
	return fmt.Sprintf(`[{
		"iso3166-1": "%s",
		"iso3166-2": "%s",
		"urban": %s,
		"rural": %s
	}]`, country, state, wellFormedTable, wellFormedTable)
}

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	fileName := filepath.Join(t.TempDir(), "default_speeds.json")
	require.NoError(t, os.WriteFile(fileName, []byte(content), 0644))
	return fileName
}

func TestRegistryWellFormed(t *testing.T) {
	fileName := writeTempConfig(t, singleRecordDocument("US", "PA"))
	registry := NewSpeedsRegistry(fileName, zap.NewNop())
	require.Equal(t, 1, registry.Size())

	found, ok := registry.find("us", "pa")
	require.True(t, ok)
	assert.Equal(t, [ROAD_CLASSES_NUM]uint32{1, 2, 3, 4, 5, 6, 7, 8}, found[URBAN_TABLE_IDX].Way)
	assert.Equal(t, [SERVICE_USES_NUM]uint32{29, 30, 31, 32}, found[RURAL_TABLE_IDX].Service)
}

func TestRegistryDisabledWithoutFile(t *testing.T) {
	registry := NewSpeedsRegistry("", zap.NewNop())
	assert.True(t, registry.Empty())
}

func TestRegistryDegradesToEmpty(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"unparsable syntax", `[{"iso3166-1": "us"`},
		{"not an array", `{"iso3166-1": "us"}`},
		{"bad country code", singleRecordDocument("usa", "pa")},
		{"bad state code", singleRecordDocument("us", "p")},
		{"missing urban", fmt.Sprintf(`[{"iso3166-1": "us", "iso3166-2": "pa", "rural": %s}]`, wellFormedTable)},
		{"missing rural", fmt.Sprintf(`[{"iso3166-1": "us", "iso3166-2": "pa", "urban": %s}]`, wellFormedTable)},
		{"wrong array length", fmt.Sprintf(`[{"iso3166-1": "us", "iso3166-2": "pa", "urban": {"way": [1], "link_exiting": [9, 10, 11, 12, 13], "link_turning": [15, 16, 17, 18, 19], "roundabout": [21, 22, 23, 24, 25, 26, 27, 28], "driveway": 29, "alley": 30, "parking_aisle": 31, "drive-through": 32}, "rural": %s}]`, wellFormedTable)},
	}
	for _, testCase := range cases {
		t.Run(testCase.name, func(t *testing.T) {
			fileName := writeTempConfig(t, testCase.content)
			registry := NewSpeedsRegistry(fileName, zap.NewNop())
			assert.True(t, registry.Empty())
		})
	}
}

func TestRegistryMissingFile(t *testing.T) {
	registry := NewSpeedsRegistry(filepath.Join(t.TempDir(), "nonexistent.json"), zap.NewNop())
	assert.True(t, registry.Empty())
}

func tableWithWaySpeed(speed uint32) SpeedTable {
	table := SpeedTable{}
	for i := range table.Way {
		table.Way[i] = speed
	}
	return table
}

func TestRegistryLookupFallbackOrder(t *testing.T) {
	registry := &SpeedsRegistry{
		tables: map[string][2]SpeedTable{
			"us.pa": {tableWithWaySpeed(101), tableWithWaySpeed(101)},
			"us.":   {tableWithWaySpeed(102), tableWithWaySpeed(102)},
			"":      {tableWithWaySpeed(103), tableWithWaySpeed(103)},
		},
	}

	found, ok := registry.find("us", "pa")
	require.True(t, ok)
	assert.Equal(t, uint32(101), found[URBAN_TABLE_IDX].Way[0])

	// Unknown state falls back to the country-only entry
	found, ok = registry.find("us", "ca")
	require.True(t, ok)
	assert.Equal(t, uint32(102), found[URBAN_TABLE_IDX].Way[0])

	// Unknown country falls back to the global default entry
	found, ok = registry.find("fr", "")
	require.True(t, ok)
	assert.Equal(t, uint32(103), found[URBAN_TABLE_IDX].Way[0])

	registry = &SpeedsRegistry{
		tables: map[string][2]SpeedTable{
			"us.pa": {tableWithWaySpeed(101), tableWithWaySpeed(101)},
		},
	}
	_, ok = registry.find("fr", "")
	assert.False(t, ok)
}
