package graph

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"road_simplify/pkg/geo"
)

// DefaultSeparator separates the fields of a record line.
const DefaultSeparator = '␟'

const maxLineBytes = 1 << 20

// ReadRecords decodes the line format into a graph.
//
// A line with three fields is a node record (id, latitude, longitude); a line
// with two fields is a link record (id, id) and adds both directions. Node
// records must precede the links naming them. Blank lines are skipped and a
// repeated link record is ignored.
func ReadRecords(r io.Reader, sep rune) (*Graph, error) {
	g := New()
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLineBytes)

	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Split(line, string(sep))
		switch len(fields) {
		case 3:
			if err := readNode(g, fields); err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
		case 2:
			if err := readLink(g, fields[0], fields[1]); err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
		default:
			return nil, fmt.Errorf("line %d: %d fields, want 3 (id lat lon) or 2 (id id): %w",
				lineNo, len(fields), ErrMalformedRecord)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read records: %w", err)
	}
	return g, nil
}

func readNode(g *Graph, fields []string) error {
	id := fields[0]
	lat, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return fmt.Errorf("node %s latitude %q: %w", id, fields[1], ErrMalformedRecord)
	}
	lon, err := strconv.ParseFloat(fields[2], 64)
	if err != nil {
		return fmt.Errorf("node %s longitude %q: %w", id, fields[2], ErrMalformedRecord)
	}
	coord := geo.Coordinate{Lon: lon, Lat: lat}
	if existing, ok := g.nodes[id]; ok {
		if existing.Coord != coord {
			return fmt.Errorf("node %s declared at %v and %v: %w", id, existing.Coord, coord, ErrDuplicateNode)
		}
		return nil
	}
	g.InsertNode(id, coord)
	return nil
}

func readLink(g *Graph, source, target string) error {
	if source == target {
		return fmt.Errorf("link %s -> %s: %w", source, target, ErrSelfLoop)
	}
	if !g.HasNode(source) {
		return fmt.Errorf("link %s -> %s: source %w", source, target, ErrNodeNotFound)
	}
	if !g.HasNode(target) {
		return fmt.Errorf("link %s -> %s: target %w", source, target, ErrNodeNotFound)
	}
	if g.HasEdge(source, target) {
		return nil
	}
	g.Connect(source, target)
	return nil
}

// WriteRecords encodes g in the line format: node records sorted by id, then
// each undirected edge once as a canonical pair.
func WriteRecords(w io.Writer, g *Graph, sep rune) error {
	bw := bufio.NewWriter(w)
	s := string(sep)
	for _, id := range g.NodeIDs() {
		c := g.nodes[id].Coord
		if _, err := fmt.Fprintf(bw, "%s%s%s%s%s\n", id, s, formatFloat(c.Lat), s, formatFloat(c.Lon)); err != nil {
			return fmt.Errorf("write node %s: %w", id, err)
		}
	}
	for _, e := range g.Edges() {
		if _, err := fmt.Fprintf(bw, "%s%s%s\n", e.Source, s, e.Target); err != nil {
			return fmt.Errorf("write link %s-%s: %w", e.Source, e.Target, err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	return nil
}

// ReadFile reads a record file.
func ReadFile(path string, sep rune) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer f.Close()
	return ReadRecords(f, sep)
}

// WriteFile writes g to path through a temporary file and an atomic rename.
func WriteFile(path string, g *Graph, sep rune) error {
	tmpPath := path + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		f.Close()
		os.Remove(tmpPath) // clean up on error
	}()

	if err := WriteRecords(f, g, sep); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
