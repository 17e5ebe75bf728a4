package osm

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Format rewrites OSM XML so that every <node> and <way> element, children
// included, sits on a single line. Other elements are dropped.
func Format(r io.Reader, w io.Writer) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16<<20)
	bw := bufio.NewWriter(w)

	var element strings.Builder
	open := false

	for sc.Scan() {
		row := strings.TrimSpace(sc.Text())
		isStart := strings.HasPrefix(row, "<node") || strings.HasPrefix(row, "<way")
		selfClosing := strings.HasSuffix(row, "/>")

		switch {
		case isStart && selfClosing:
			fmt.Fprintln(bw, row)
			continue
		case isStart:
			open = true
			element.Reset()
		}

		if !open {
			continue
		}
		element.WriteString(row)
		if strings.Contains(row, "</node>") || strings.Contains(row, "</way>") {
			open = false
			fmt.Fprintln(bw, element.String())
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("format: %w", err)
	}
	return bw.Flush()
}
