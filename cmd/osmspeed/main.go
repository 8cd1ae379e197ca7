package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/LdDl/ch"
	"github.com/LdDl/osmspeed"
	"go.uber.org/zap"
)

var (
	osmFileName   = flag.String("file", "my_graph.osm.pbf", "Filename of *.osm.pbf file (it has to be compressed)")
	speedsFile    = flag.String("speeds", "", "Filename of JSON file with per-geography default speed tables. Empty value disables tabular assignment")
	out           = flag.String("out", "my_graph.csv", "Filename of 'Comma-Separated Values' (CSV) formatted file. E.g.: if file name is 'map.csv' then 2 files will be produced: 'map.csv' (edges) and 'map_shortcuts.csv'")
	geomFormat    = flag.String("geomf", "wkt", "Format of output geometry. Expected values: wkt / geojson")
	inferTC       = flag.Bool("infertc", true, "Infer speed up on turn channels?")
	country       = flag.String("country", "", "2-letter ISO country code the graph belongs to (used for tabular speeds lookup)")
	state         = flag.String("state", "", "2-letter ISO subdivision code the graph belongs to (used for tabular speeds lookup)")
	doContraction = flag.Bool("contract", true, "Prepare contraction hierarchies?")
)

func main() {
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Println(err)
		return
	}
	defer logger.Sync()

	edges, graphPoints, err := osmspeed.ImportFromOSMFile(*osmFileName, osmspeed.DefaultLoaderConfiguration(), logger)
	if err != nil {
		logger.Error("Can't import edges", zap.Error(err))
		return
	}

	grid := osmspeed.BuildDensityGrid(graphPoints)
	assigner := osmspeed.GetSpeedAssigner(*speedsFile, logger)

	logger.Info("Assigning speeds...")
	st := time.Now()
	urbanSpeeds := osmspeed.DefaultUrbanSpeedByRoadClass
	for i := range edges {
		density := grid.EdgeDensity(&edges[i])
		assigner.UpdateSpeed(&edges[i], density, &urbanSpeeds, *inferTC, *country, *state)
	}
	logger.Sugar().Infof("Done in %v. Edges: %d", time.Since(st), len(edges))

	fnamePart := strings.Split(*out, ".csv") // to guarantee proper filename and its extension
	fnameEdges := fmt.Sprintf(fnamePart[0] + ".csv")
	fnameShortcuts := fmt.Sprintf(fnamePart[0] + "_shortcuts.csv")

	fileEdges, err := os.Create(fnameEdges)
	if err != nil {
		logger.Error("Can't create edges file", zap.Error(err))
		return
	}
	defer fileEdges.Close()
	writerEdges := csv.NewWriter(fileEdges)
	defer writerEdges.Flush()
	writerEdges.Comma = ';'

	err = writerEdges.Write([]string{"edge_id", "osm_way_id", "source_node", "target_node", "class", "use", "surface", "speed", "speed_type", "length_meters", "was_one_way", "geom"})
	if err != nil {
		logger.Error("Can't write header", zap.Error(err))
		return
	}

	graph := ch.Graph{}
	for i := range edges {
		edge := &edges[i]
		geomStr := ""
		if strings.ToLower(*geomFormat) == "geojson" {
			geomStr = osmspeed.PrepareGeoJSONEdge(edge)
		} else {
			geomStr = osmspeed.PrepareWKTLinestring(edge.Geom)
		}
		err = writerEdges.Write([]string{
			fmt.Sprintf("%d", edge.ID),
			fmt.Sprintf("%d", edge.WayID),
			fmt.Sprintf("%d", edge.SourceNodeID),
			fmt.Sprintf("%d", edge.TargetNodeID),
			edge.Class.String(),
			edge.Use.String(),
			edge.Surface.String(),
			fmt.Sprintf("%d", edge.Speed),
			edge.SpeedType.String(),
			fmt.Sprintf("%f", edge.LengthMeters),
			fmt.Sprintf("%t", edge.WasOneway),
			geomStr,
		})
		if err != nil {
			logger.Error("Can't write edge", zap.Error(err))
			return
		}

		if !*doContraction || edge.Speed == 0 {
			continue
		}
		source := int64(edge.SourceNodeID)
		target := int64(edge.TargetNodeID)
		if err := graph.CreateVertex(source); err != nil {
			logger.Error("Can't create source vertex", zap.Error(err))
			return
		}
		if err := graph.CreateVertex(target); err != nil {
			logger.Error("Can't create target vertex", zap.Error(err))
			return
		}
		// Weight is travel time in minutes under the assigned speed
		cost := (edge.LengthMeters / 1000.0) / float64(edge.Speed) * 60.0
		if err := graph.AddEdge(source, target, cost); err != nil {
			logger.Error("Can't wrap source and target vertices as edge", zap.Error(err))
			return
		}
		if !edge.WasOneway {
			if err := graph.AddEdge(target, source, cost); err != nil {
				logger.Error("Can't wrap target and source vertices as edge", zap.Error(err))
				return
			}
		}
	}

	if *doContraction {
		logger.Info("Starting contraction process....")
		st := time.Now()
		graph.PrepareContractionHierarchies()
		logger.Sugar().Infof("Done contraction process in %v", time.Since(st))
		// 	from_vertex_id - int64, ID of source vertex
		// 	to_vertex_id - int64, ID of target vertex
		// 	weight - float64, Weight of an edge
		// 	via_vertex_id - int64, ID of vertex through which the shortcut exists
		if err := graph.ExportShortcutsToFile(fnameShortcuts); err != nil {
			logger.Error("Can't export shortcuts", zap.Error(err))
			return
		}
	}
}
