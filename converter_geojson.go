package osmspeed

import (
	"fmt"

	geojson "github.com/paulmach/go.geojson"
)

// PrepareGeoJSONLinestring returns GeoJSON representation of LineString
func PrepareGeoJSONLinestring(pts []GeoPoint) string {
	b, err := geojson.NewLineStringGeometry(lineTo2D(pts)).MarshalJSON()
	if err != nil {
		fmt.Printf("Warning. Can not convert geometry to geojson format: %s", err.Error())
		return ""
	}
	return string(b)
}

// PrepareGeoJSONEdge returns GeoJSON Feature for given edge carrying its
// assigned speed and classification attributes
func PrepareGeoJSONEdge(edge *Edge) string {
	feature := geojson.NewLineStringFeature(lineTo2D(edge.Geom))
	feature.SetProperty("edge_id", int64(edge.ID))
	feature.SetProperty("osm_way_id", int64(edge.WayID))
	feature.SetProperty("class", edge.Class.String())
	feature.SetProperty("use", edge.Use.String())
	feature.SetProperty("speed", edge.Speed)
	feature.SetProperty("speed_type", edge.SpeedType.String())
	b, err := feature.MarshalJSON()
	if err != nil {
		fmt.Printf("Warning. Can not convert edge to geojson format: %s", err.Error())
		return ""
	}
	return string(b)
}

func lineTo2D(pts []GeoPoint) [][]float64 {
	pts2d := make([][]float64, len(pts))
	for i := range pts {
		pts2d[i] = []float64{pts[i].Lon, pts[i].Lat}
	}
	return pts2d
}
