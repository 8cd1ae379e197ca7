package osmspeed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testAssigner(tables map[string][2]SpeedTable) *SpeedAssigner {
	if tables == nil {
		tables = map[string][2]SpeedTable{}
	}
	return &SpeedAssigner{
		registry: &SpeedsRegistry{tables: tables},
	}
}

func vehicularEdge() Edge {
	return Edge{
		Class:         CLASS_MOTORWAY,
		Use:           USE_ROAD,
		ForwardAccess: ACCESS_VEHICULAR,
		ReverseAccess: ACCESS_VEHICULAR,
	}
}

func distinctTable() SpeedTable {
	return SpeedTable{
		Way:         [ROAD_CLASSES_NUM]uint32{1, 2, 3, 4, 5, 6, 7, 8},
		LinkExiting: [LINK_CLASSES_NUM]uint32{9, 10, 11, 12, 13},
		LinkTurning: [LINK_CLASSES_NUM]uint32{15, 16, 17, 18, 19},
		Roundabout:  [ROAD_CLASSES_NUM]uint32{21, 22, 23, 24, 25, 26, 27, 28},
		Service:     [SERVICE_USES_NUM]uint32{29, 30, 31, 32},
	}
}

func TestConfigExclusions(t *testing.T) {
	assigner := testAssigner(map[string][2]SpeedTable{
		"": {distinctTable(), distinctTable()},
	})

	ferry := vehicularEdge()
	ferry.Use = USE_FERRY
	assert.False(t, assigner.fromConfig(&ferry, 0, "us", "pa"))

	railFerry := vehicularEdge()
	railFerry.Use = USE_RAIL_FERRY
	assert.False(t, assigner.fromConfig(&railFerry, 0, "us", "pa"))

	noAccess := vehicularEdge()
	noAccess.ForwardAccess = ACCESS_PEDESTRIAN
	noAccess.ReverseAccess = ACCESS_BICYCLE
	assert.False(t, assigner.fromConfig(&noAccess, 0, "us", "pa"))

	// One direction with vehicular access is enough
	forwardOnly := vehicularEdge()
	forwardOnly.ReverseAccess = AccessMask(0)
	assert.True(t, assigner.fromConfig(&forwardOnly, 0, "us", "pa"))
}

func TestConfigNoMatchLeavesEdgeUntouched(t *testing.T) {
	assigner := testAssigner(map[string][2]SpeedTable{
		"us.pa": {distinctTable(), distinctTable()},
	})
	edge := vehicularEdge()
	edge.Speed = 42
	assert.False(t, assigner.fromConfig(&edge, 0, "fr", ""))
	assert.Equal(t, uint32(42), edge.Speed)
}

func TestConfigDensityBucketBoundary(t *testing.T) {
	urban := tableWithWaySpeed(70)
	rural := tableWithWaySpeed(110)
	assigner := testAssigner(map[string][2]SpeedTable{
		"": {urban, rural},
	})

	edge := vehicularEdge()
	require.True(t, assigner.fromConfig(&edge, 8, "", ""))
	assert.Equal(t, uint32(110), edge.Speed, "Density 8 must select the rural bucket")

	edge = vehicularEdge()
	require.True(t, assigner.fromConfig(&edge, 9, "", ""))
	assert.Equal(t, uint32(70), edge.Speed, "Density 9 must select the urban bucket")
}

func TestConfigBranchOrder(t *testing.T) {
	assigner := testAssigner(map[string][2]SpeedTable{
		"": {distinctTable(), distinctTable()},
	})

	// Service uses win over everything else
	serviceUses := map[UseType]uint32{
		USE_DRIVEWAY:      29,
		USE_ALLEY:         30,
		USE_PARKING_AISLE: 31,
		USE_DRIVE_THROUGH: 32,
	}
	for use, expected := range serviceUses {
		edge := vehicularEdge()
		edge.Use = use
		edge.Link = true // must not matter for service uses
		require.True(t, assigner.fromConfig(&edge, 0, "", ""))
		assert.Equalf(t, expected, edge.Speed, "Wrong speed for use %s", use)
	}

	// Signed link takes link_exiting, unsigned one takes link_turning
	signed := vehicularEdge()
	signed.Use = USE_RAMP
	signed.Link = true
	signed.Sign = true
	signed.Class = CLASS_PRIMARY
	require.True(t, assigner.fromConfig(&signed, 0, "", ""))
	assert.Equal(t, uint32(11), signed.Speed)

	unsigned := signed
	unsigned.Sign = false
	require.True(t, assigner.fromConfig(&unsigned, 0, "", ""))
	assert.Equal(t, uint32(17), unsigned.Speed)

	// Links of too low class can't be covered by config
	lowLink := vehicularEdge()
	lowLink.Link = true
	lowLink.Class = CLASS_UNCLASSIFIED
	lowLink.Speed = 42
	assert.False(t, assigner.fromConfig(&lowLink, 0, "", ""))
	assert.Equal(t, uint32(42), lowLink.Speed)

	roundabout := vehicularEdge()
	roundabout.Roundabout = true
	roundabout.Class = CLASS_SECONDARY
	require.True(t, assigner.fromConfig(&roundabout, 0, "", ""))
	assert.Equal(t, uint32(24), roundabout.Speed)

	way := vehicularEdge()
	way.Class = CLASS_RESIDENTIAL
	require.True(t, assigner.fromConfig(&way, 0, "", ""))
	assert.Equal(t, uint32(7), way.Speed)
}

func TestConfigIsExclusiveWhenLoaded(t *testing.T) {
	// Resolved edge must not be touched by the heuristics
	assigner := testAssigner(map[string][2]SpeedTable{
		"": {distinctTable(), distinctTable()},
	})
	edge := vehicularEdge()
	edge.Roundabout = true
	edge.Class = CLASS_SECONDARY
	urbanSpeeds := DefaultUrbanSpeedByRoadClass
	assigner.UpdateSpeed(&edge, 20, &urbanSpeeds, true, "", "")
	// Roundabout value straight from the table, no roundabout factor applied on top
	assert.Equal(t, uint32(24), edge.Speed)
}

func TestRampHeuristic(t *testing.T) {
	assigner := testAssigner(nil)
	urbanSpeeds := DefaultUrbanSpeedByRoadClass

	ramp := vehicularEdge()
	ramp.Use = USE_RAMP
	ramp.Link = true
	ramp.Speed = 100
	assigner.UpdateSpeed(&ramp, 9, &urbanSpeeds, false, "", "")
	assert.Equal(t, uint32(80), ramp.Speed)

	ramp = vehicularEdge()
	ramp.Use = USE_RAMP
	ramp.Link = true
	ramp.Speed = 100
	assigner.UpdateSpeed(&ramp, 5, &urbanSpeeds, false, "", "")
	assert.Equal(t, uint32(85), ramp.Speed)

	// Low classes are slowed down regardless of density
	ramp = vehicularEdge()
	ramp.Use = USE_RAMP
	ramp.Link = true
	ramp.Class = CLASS_RESIDENTIAL
	ramp.Speed = 100
	assigner.UpdateSpeed(&ramp, 9, &urbanSpeeds, false, "", "")
	assert.Equal(t, uint32(85), ramp.Speed)

	// Tagged ramp speed is kept as is
	ramp = vehicularEdge()
	ramp.Use = USE_RAMP
	ramp.Link = true
	ramp.SpeedType = SPEED_TAGGED
	ramp.Speed = 100
	assigner.UpdateSpeed(&ramp, 9, &urbanSpeeds, false, "", "")
	assert.Equal(t, uint32(100), ramp.Speed)
}

func TestTurnChannelHeuristic(t *testing.T) {
	assigner := testAssigner(nil)
	urbanSpeeds := DefaultUrbanSpeedByRoadClass

	tc := vehicularEdge()
	tc.Use = USE_TURN_CHANNEL
	tc.Link = true
	tc.Speed = 60
	assigner.UpdateSpeed(&tc, 0, &urbanSpeeds, true, "", "")
	assert.Equal(t, uint32(75), tc.Speed)

	tc = vehicularEdge()
	tc.Use = USE_TURN_CHANNEL
	tc.Link = true
	tc.Speed = 60
	assigner.UpdateSpeed(&tc, 0, &urbanSpeeds, false, "", "")
	assert.Equal(t, uint32(60), tc.Speed, "Disabled inference must leave turn channel speed untouched")
}

func TestTaggedSpeedSurfaceReduction(t *testing.T) {
	assigner := testAssigner(nil)
	urbanSpeeds := DefaultUrbanSpeedByRoadClass

	cases := []struct {
		speed    uint32
		expected uint32
	}{
		{55, 45},
		{40, 35},
		{10, 10},
	}
	for _, testCase := range cases {
		edge := vehicularEdge()
		edge.SpeedType = SPEED_TAGGED
		edge.Surface = SURFACE_GRAVEL
		edge.Speed = testCase.speed
		assigner.UpdateSpeed(&edge, 0, &urbanSpeeds, false, "", "")
		assert.Equal(t, testCase.expected, edge.Speed)
	}

	// Good surface leaves tagged speed untouched
	edge := vehicularEdge()
	edge.SpeedType = SPEED_TAGGED
	edge.Surface = SURFACE_PAVED
	edge.Speed = 55
	assigner.UpdateSpeed(&edge, 20, &urbanSpeeds, false, "", "")
	assert.Equal(t, uint32(55), edge.Speed)
}

func TestRailFerryHeuristic(t *testing.T) {
	assigner := testAssigner(nil)
	urbanSpeeds := DefaultUrbanSpeedByRoadClass

	edge := vehicularEdge()
	edge.Use = USE_RAIL_FERRY
	assigner.UpdateSpeed(&edge, 0, &urbanSpeeds, false, "", "")
	assert.Equal(t, uint32(RAIL_FERRY_SPEED), edge.Speed)
}

func TestFerryLengthBuckets(t *testing.T) {
	assigner := testAssigner(nil)
	urbanSpeeds := DefaultUrbanSpeedByRoadClass

	cases := []struct {
		lengthMeters float64
		expected     uint32
	}{
		{1000, 10},
		{5000, 20},
		{10000, 30},
	}
	for _, testCase := range cases {
		edge := vehicularEdge()
		edge.Use = USE_FERRY
		edge.LengthMeters = testCase.lengthMeters
		assigner.UpdateSpeed(&edge, 0, &urbanSpeeds, false, "", "")
		assert.Equal(t, testCase.expected, edge.Speed)
	}

	// Ferry edge leaving the tile is resolved by a later pass
	edge := vehicularEdge()
	edge.Use = USE_FERRY
	edge.LeavesTile = true
	edge.LengthMeters = 10000
	edge.Speed = 42
	assigner.UpdateSpeed(&edge, 0, &urbanSpeeds, false, "", "")
	assert.Equal(t, uint32(42), edge.Speed)
}

func TestUrbanRoundaboutComposition(t *testing.T) {
	assigner := testAssigner(nil)
	urbanSpeeds := [ROAD_CLASSES_NUM]uint32{50, 50, 50, 50, 50, 50, 50, 50}

	edge := vehicularEdge()
	edge.Roundabout = true
	edge.Speed = 60
	assigner.UpdateSpeed(&edge, 20, &urbanSpeeds, false, "", "")
	assert.Equal(t, uint32(25), edge.Speed, "Roundabout factor must apply to the urban speed, not the default one")

	// Without urban density the roundabout factor applies to the default speed
	edge = vehicularEdge()
	edge.Roundabout = true
	edge.Speed = 60
	assigner.UpdateSpeed(&edge, 5, &urbanSpeeds, false, "", "")
	assert.Equal(t, uint32(30), edge.Speed)
}

func TestServiceUseFixedSpeeds(t *testing.T) {
	assigner := testAssigner(nil)
	urbanSpeeds := DefaultUrbanSpeedByRoadClass

	cases := []struct {
		use      UseType
		expected uint32
	}{
		{USE_PARKING_AISLE, PARKING_AISLE_SPEED},
		{USE_DRIVEWAY, DRIVEWAY_SPEED},
		{USE_DRIVE_THROUGH, DRIVE_THROUGH_SPEED},
	}
	for _, testCase := range cases {
		edge := vehicularEdge()
		edge.Use = testCase.use
		edge.Class = CLASS_SERVICE_OTHER
		edge.Speed = 20
		assigner.UpdateSpeed(&edge, 0, &urbanSpeeds, false, "", "")
		assert.Equal(t, testCase.expected, edge.Speed)
	}
}

func TestSurfaceHalving(t *testing.T) {
	assigner := testAssigner(nil)
	urbanSpeeds := DefaultUrbanSpeedByRoadClass

	edge := vehicularEdge()
	edge.Surface = SURFACE_PAVED_ROUGH
	edge.Speed = 45
	assigner.UpdateSpeed(&edge, 0, &urbanSpeeds, false, "", "")
	assert.Equal(t, uint32(22), edge.Speed, "Halving is a plain integer division")

	// Surface halving applies after a service use override
	edge = vehicularEdge()
	edge.Use = USE_DRIVEWAY
	edge.Surface = SURFACE_DIRT
	edge.Speed = 30
	assigner.UpdateSpeed(&edge, 0, &urbanSpeeds, false, "", "")
	assert.Equal(t, uint32(DRIVEWAY_SPEED/2), edge.Speed)
}

func TestHeuristicRunsWhenRegistryEmpty(t *testing.T) {
	assigner := NewSpeedAssigner("", zap.NewNop())
	urbanSpeeds := [ROAD_CLASSES_NUM]uint32{89, 73, 57, 49, 40, 35, 30, 20}

	edge := vehicularEdge()
	edge.Class = CLASS_TERTIARY
	edge.Speed = 50
	assigner.UpdateSpeed(&edge, 12, &urbanSpeeds, false, "us", "pa")
	assert.Equal(t, uint32(40), edge.Speed)
}
