package osmspeed

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Links shorter than this are considered to be turn channels when they
// carry no exit signage
const TURN_CHANNEL_MAX_LENGTH_METERS = 80.0

type loaderNode struct {
	node     osm.Node
	useCount int
}

// ImportFromOSMFile reads ways of interest from file of PBF-format (in
// OSM terms) and prepares directed edges carrying attributes needed for
// speed assignment. Ways are split into edges at nodes shared by more
// than one way. Returned points are coordinates of the produced graph
// nodes; they feed the road density grid.
func ImportFromOSMFile(fileName string, cfg *LoaderConfiguration, logger *zap.Logger) ([]Edge, []GeoPoint, error) {
	f, err := os.Open(fileName)
	if err != nil {
		return nil, nil, errors.Wrap(err, "File open")
	}
	defer f.Close()

	scannerWays := osmpbf.New(context.Background(), f, 4)
	defer scannerWays.Close()

	ways := []*wayData{}
	nodes := make(map[osm.NodeID]loaderNode)
	nodesSeen := make(map[osm.NodeID]struct{})

	logger.Info("Scanning ways...")
	st := time.Now()
	for scannerWays.Scan() {
		obj := scannerWays.Object()
		if obj.ObjectID().Type() != "way" {
			continue
		}
		way := obj.(*osm.Way)
		if len(way.Nodes) < 2 {
			logger.Sugar().Warnf("Way with %d nodes met. Way ID: '%d'", len(way.Nodes), way.ID)
			continue
		}
		tagMap := way.TagMap()
		tag, highwayOk := tagMap[cfg.EntityName]
		ferryOk := cfg.AcceptFerries && tagMap["route"] == "ferry"
		if !ferryOk && (!highwayOk || !cfg.CheckTag(tag)) {
			continue
		}
		// Ignore ways with `area` tag provided
		if area, ok := tagMap["area"]; ok && area != "no" {
			continue
		}
		preparedWay := &wayData{
			ID:     way.ID,
			Nodes:  make([]osm.NodeID, len(way.Nodes)),
			TagMap: make(osm.Tags, len(way.Tags)),
		}
		for i := range way.Nodes {
			preparedWay.Nodes[i] = way.Nodes[i].ID
		}
		copy(preparedWay.TagMap, way.Tags)
		preparedWay.processTags(logger)
		ways = append(ways, preparedWay)
		for _, nodeID := range preparedWay.Nodes {
			nodesSeen[nodeID] = struct{}{}
		}
	}
	if scannerWays.Err() != nil {
		return nil, nil, errors.Wrap(scannerWays.Err(), "Scanner error on Ways")
	}
	logger.Sugar().Infof("Done in %v. Ways: %d", time.Since(st), len(ways))

	// Seek file to start
	_, err = f.Seek(0, io.SeekStart)
	if err != nil {
		return nil, nil, errors.Wrap(err, "Can't repeat seeking")
	}
	scannerNodes := osmpbf.New(context.Background(), f, 4)
	defer scannerNodes.Close()

	logger.Info("Scanning nodes...")
	st = time.Now()
	for scannerNodes.Scan() {
		obj := scannerNodes.Object()
		if obj.ObjectID().Type() != "node" {
			continue
		}
		node := obj.(*osm.Node)
		if _, ok := nodesSeen[node.ID]; ok {
			delete(nodesSeen, node.ID)
			nodes[node.ID] = loaderNode{
				node:     *node,
				useCount: 0,
			}
		}
	}
	if scannerNodes.Err() != nil {
		return nil, nil, errors.Wrap(scannerNodes.Err(), "Scanner error on Nodes")
	}
	logger.Sugar().Infof("Done in %v. Nodes: %d", time.Since(st), len(nodes))

	logger.Info("Counting node use cases...")
	st = time.Now()
	for _, way := range ways {
		for i, nodeID := range way.Nodes {
			node, ok := nodes[nodeID]
			if !ok {
				return nil, nil, errors.Errorf("Missing node with id: %d", nodeID)
			}
			if i == 0 || i == len(way.Nodes)-1 {
				node.useCount += 2
			} else {
				node.useCount++
			}
			nodes[nodeID] = node
		}
	}
	logger.Sugar().Infof("Done in %v", time.Since(st))

	logger.Info("Preparing edges...")
	st = time.Now()
	edges := []Edge{}
	for _, way := range ways {
		var source osm.NodeID
		geometry := []GeoPoint{}
		for i, nodeID := range way.Nodes {
			node := nodes[nodeID]
			pt := GeoPoint{Lon: node.node.Lon, Lat: node.node.Lat}
			if i == 0 {
				source = nodeID
				geometry = append(geometry, pt)
				continue
			}
			geometry = append(geometry, pt)
			if node.useCount > 1 || i == len(way.Nodes)-1 {
				edges = append(edges, prepareEdge(EdgeID(len(edges)), way, source, nodeID, geometry))
				source = nodeID
				geometry = []GeoPoint{pt}
			}
		}
	}
	logger.Sugar().Infof("Done in %v. Edges: %d", time.Since(st), len(edges))

	graphPoints := make([]GeoPoint, 0, len(nodes))
	for _, node := range nodes {
		if node.useCount > 1 {
			graphPoints = append(graphPoints, GeoPoint{Lon: node.node.Lon, Lat: node.node.Lat})
		}
	}
	return edges, graphPoints, nil
}

func prepareEdge(id EdgeID, way *wayData, source, target osm.NodeID, geometry []GeoPoint) Edge {
	lengthMeters := getSphericalLength(geometry) * 1000.0
	speed, speedType := way.speedFromTags()
	use := way.use
	// Short unsigned links serve turns at intersections rather than exits
	if way.link && !way.sign && lengthMeters < TURN_CHANNEL_MAX_LENGTH_METERS {
		use = USE_TURN_CHANNEL
	}
	return Edge{
		ID:            id,
		WayID:         way.ID,
		SourceNodeID:  source,
		TargetNodeID:  target,
		Class:         way.class,
		Use:           use,
		Surface:       way.surfaceType,
		SpeedType:     speedType,
		Speed:         speed,
		LengthMeters:  lengthMeters,
		ForwardAccess: way.forwardAccess,
		ReverseAccess: way.reverseAccess,
		Link:          way.link,
		Roundabout:    way.roundabout,
		Sign:          way.sign,
		WasOneway:     way.oneway,
		Geom:          geometry,
	}
}
