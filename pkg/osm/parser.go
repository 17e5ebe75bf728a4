package osm

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/paulmach/osm/osmxml"

	"road_simplify/pkg/geo"
)

// RawLink is an undirected segment between two consecutive way nodes.
// FromNodeID < ToNodeID.
type RawLink struct {
	FromNodeID osm.NodeID
	ToNodeID   osm.NodeID
}

// ParseResult holds the nodes and links extracted from OSM data.
// Nodes only contains nodes referenced by a kept link.
type ParseResult struct {
	Nodes map[osm.NodeID]geo.Coordinate
	Links []RawLink
}

// WayFilter selects which ways contribute links.
type WayFilter int

const (
	// AllWays keeps every way; the source query is expected to have filtered them.
	AllWays WayFilter = iota
	// CarWays keeps ways drivable by car.
	CarWays
)

// carHighways lists highway tag values accessible by car.
var carHighways = map[string]bool{
	"motorway":       true,
	"motorway_link":  true,
	"trunk":          true,
	"trunk_link":     true,
	"primary":        true,
	"primary_link":   true,
	"secondary":      true,
	"secondary_link": true,
	"tertiary":       true,
	"tertiary_link":  true,
	"unclassified":   true,
	"residential":    true,
	"living_street":  true,
	"service":        true,
}

// isCarAccessible returns true if the way is drivable by car.
func isCarAccessible(tags osm.Tags) bool {
	hw := tags.Find("highway")
	if !carHighways[hw] {
		return false
	}

	// Skip area highways (pedestrian plazas).
	if tags.Find("area") == "yes" {
		return false
	}

	access := tags.Find("access")
	if access == "no" || access == "private" {
		return false
	}
	if tags.Find("motor_vehicle") == "no" {
		return false
	}

	return true
}

func (f WayFilter) keep(w *osm.Way) bool {
	if len(w.Nodes) < 2 {
		return false
	}
	if f == CarWays {
		return isCarAccessible(w.Tags)
	}
	return true
}

// BBox defines a geographic bounding box for filtering.
// If non-zero, only links with both endpoints inside the box are kept.
type BBox struct {
	MinLat, MaxLat float64
	MinLng, MaxLng float64
}

// IsZero returns true if the bbox is unset.
func (b BBox) IsZero() bool {
	return b.MinLat == 0 && b.MaxLat == 0 && b.MinLng == 0 && b.MaxLng == 0
}

// Contains returns true if the point is inside the bounding box.
func (b BBox) Contains(lat, lng float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lng >= b.MinLng && lng <= b.MaxLng
}

// ParseOptions configures the OSM parser.
type ParseOptions struct {
	BBox   BBox // if non-zero, filter links to this bounding box
	Filter WayFilter
	Logger *log.Logger
}

func (o ParseOptions) logger() *log.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return log.Default()
}

func firstOption(opts []ParseOptions) ParseOptions {
	if len(opts) > 0 {
		return opts[0]
	}
	return ParseOptions{}
}

// Parse reads OSM XML in a single pass and returns the road links.
func Parse(ctx context.Context, r io.Reader, opts ...ParseOptions) (*ParseResult, error) {
	opt := firstOption(opts)
	coords := make(map[osm.NodeID]geo.Coordinate)
	var ways [][]osm.NodeID

	scanner := osmxml.New(ctx, r)
	for scanner.Scan() {
		switch obj := scanner.Object().(type) {
		case *osm.Node:
			coords[obj.ID] = geo.Coordinate{Lon: obj.Lon, Lat: obj.Lat}
		case *osm.Way:
			if opt.Filter.keep(obj) {
				ways = append(ways, wayNodeIDs(obj))
			}
		}
	}
	if err := scanner.Err(); err != nil {
		scanner.Close()
		return nil, fmt.Errorf("scan xml: %w", err)
	}
	scanner.Close()

	opt.logger().Debug("xml scan complete", "ways", len(ways), "nodes", len(coords))
	return buildResult(ways, coords, opt), nil
}

// ParsePBF reads an OSM PBF file and returns the road links.
// The reader is consumed twice (seeks back to start for the second pass),
// so it must implement io.ReadSeeker.
func ParsePBF(ctx context.Context, rs io.ReadSeeker, opts ...ParseOptions) (*ParseResult, error) {
	opt := firstOption(opts)

	// Pass 1: Scan ways to collect referenced node IDs.
	referenced := make(map[osm.NodeID]struct{})
	var ways [][]osm.NodeID

	scanner := osmpbf.New(ctx, rs, 1)
	scanner.SkipNodes = true
	scanner.SkipRelations = true

	for scanner.Scan() {
		w, ok := scanner.Object().(*osm.Way)
		if !ok || !opt.Filter.keep(w) {
			continue
		}
		ids := wayNodeIDs(w)
		for _, id := range ids {
			referenced[id] = struct{}{}
		}
		ways = append(ways, ids)
	}
	if err := scanner.Err(); err != nil {
		scanner.Close()
		return nil, fmt.Errorf("pass 1 (ways): %w", err)
	}
	scanner.Close()

	opt.logger().Debug("pass 1 complete", "ways", len(ways), "referenced", len(referenced))

	// Pass 2: Scan nodes to collect coordinates for referenced nodes only.
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek for pass 2: %w", err)
	}

	coords := make(map[osm.NodeID]geo.Coordinate, len(referenced))
	scanner = osmpbf.New(ctx, rs, 1)
	scanner.SkipWays = true
	scanner.SkipRelations = true

	for scanner.Scan() {
		n, ok := scanner.Object().(*osm.Node)
		if !ok {
			continue
		}
		if _, needed := referenced[n.ID]; !needed {
			continue
		}
		coords[n.ID] = geo.Coordinate{Lon: n.Lon, Lat: n.Lat}
	}
	if err := scanner.Err(); err != nil {
		scanner.Close()
		return nil, fmt.Errorf("pass 2 (nodes): %w", err)
	}
	scanner.Close()

	opt.logger().Debug("pass 2 complete", "coordinates", len(coords))
	return buildResult(ways, coords, opt), nil
}

func wayNodeIDs(w *osm.Way) []osm.NodeID {
	ids := make([]osm.NodeID, len(w.Nodes))
	for i, wn := range w.Nodes {
		ids[i] = wn.ID
	}
	return ids
}

// buildResult turns consecutive way references into deduplicated links.
func buildResult(ways [][]osm.NodeID, coords map[osm.NodeID]geo.Coordinate, opt ParseOptions) *ParseResult {
	useBBox := !opt.BBox.IsZero()
	seen := make(map[RawLink]struct{})
	nodes := make(map[osm.NodeID]geo.Coordinate)
	var links []RawLink
	var skipped, filtered int

	for _, w := range ways {
		for i := 0; i < len(w)-1; i++ {
			from, to := w[i], w[i+1]
			if from == to {
				continue
			}
			fc, fromOk := coords[from]
			tc, toOk := coords[to]
			if !fromOk || !toOk {
				skipped++
				continue
			}
			if useBBox && (!opt.BBox.Contains(fc.Lat, fc.Lon) || !opt.BBox.Contains(tc.Lat, tc.Lon)) {
				filtered++
				continue
			}
			if to < from {
				from, to = to, from
			}
			l := RawLink{FromNodeID: from, ToNodeID: to}
			if _, dup := seen[l]; dup {
				continue
			}
			seen[l] = struct{}{}
			links = append(links, l)
			nodes[from] = coords[from]
			nodes[to] = coords[to]
		}
	}

	logger := opt.logger()
	if skipped > 0 {
		logger.Warn("skipped links with missing node coordinates", "count", skipped)
	}
	if filtered > 0 {
		logger.Info("filtered links outside bounding box", "count", filtered)
	}
	logger.Debug("built links", "links", len(links), "nodes", len(nodes))

	sort.Slice(links, func(i, j int) bool {
		if links[i].FromNodeID != links[j].FromNodeID {
			return links[i].FromNodeID < links[j].FromNodeID
		}
		return links[i].ToNodeID < links[j].ToNodeID
	})
	return &ParseResult{Nodes: nodes, Links: links}
}
