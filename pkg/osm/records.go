package osm

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/paulmach/osm"
)

// WriteNodes prints one node record (id, latitude, longitude) per referenced
// node, sorted by id.
func WriteNodes(w io.Writer, res *ParseResult, sep rune) error {
	ids := make([]osm.NodeID, 0, len(res.Nodes))
	for id := range res.Nodes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	bw := bufio.NewWriter(w)
	s := string(sep)
	for _, id := range ids {
		c := res.Nodes[id]
		if _, err := fmt.Fprintf(bw, "%d%s%s%s%s\n", id, s,
			strconv.FormatFloat(c.Lat, 'f', -1, 64), s,
			strconv.FormatFloat(c.Lon, 'f', -1, 64)); err != nil {
			return fmt.Errorf("write node %d: %w", id, err)
		}
	}
	return bw.Flush()
}

// WriteLinks prints one link record per extracted link.
func WriteLinks(w io.Writer, res *ParseResult, sep rune) error {
	bw := bufio.NewWriter(w)
	s := string(sep)
	for _, l := range res.Links {
		if _, err := fmt.Fprintf(bw, "%d%s%d\n", l.FromNodeID, s, l.ToNodeID); err != nil {
			return fmt.Errorf("write link %d-%d: %w", l.FromNodeID, l.ToNodeID, err)
		}
	}
	return bw.Flush()
}
