package libdqg

import (
	"bufio"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/dqg-systems/dqg/godqg"
)

// ParseEdgeListTxt reads a SNAP-style edge list: '#' comment lines, one of
// which carries "# Nodes: <n> Edges: <m>", then one whitespace-separated
// vertex pair per line.
func ParseEdgeListTxt(src io.Reader) (*Graph, error) {
	scanner := bufio.NewScanner(src)
	scanner.Buffer(make([]byte, 0, 64*1024), 8*1024*1024)

	var X *Graph
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "#") {
			if X == nil {
				if n, ok := parseNodesComment(line); ok {
					X = NewGraph(n)
				}
			}
			continue
		}
		if X == nil {
			return nil, godqg.ErrGraphSizeNeeded
		}
		start, end, err := splitEdgePair(strings.Fields(line))
		if err != nil {
			return nil, err
		}
		if err := X.AddEdge(start, end); err != nil {
			return nil, errors.Wrapf(err, "edge %d-%d", start, end)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if X == nil {
		return nil, godqg.ErrGraphSizeNeeded
	}
	X.Minimize()
	return X, nil
}

func parseNodesComment(line string) (int, bool) {
	fields := strings.Fields(line)
	for i := 0; i+1 < len(fields); i++ {
		if fields[i] == "Nodes:" {
			n, err := strconv.Atoi(fields[i+1])
			if err == nil && n >= 0 {
				return n, true
			}
		}
	}
	return 0, false
}

// ParseEdgeListCSV reads a two-column CSV edge list. The format carries no
// graph size, so the caller supplies one. The first line is a column header.
func ParseEdgeListCSV(numVerts int, src io.Reader) (*Graph, error) {
	if numVerts <= 0 {
		return nil, godqg.ErrGraphSizeNeeded
	}
	X := NewGraph(numVerts)

	rd := csv.NewReader(src)
	rd.FieldsPerRecord = 2
	rd.TrimLeadingSpace = true

	for row := 0; ; row++ {
		record, err := rd.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if row == 0 {
			continue // column header
		}
		start, end, err := splitEdgePair(record)
		if err != nil {
			return nil, err
		}
		if err := X.AddEdge(start, end); err != nil {
			return nil, errors.Wrapf(err, "edge %d-%d", start, end)
		}
	}

	X.Minimize()
	return X, nil
}

func splitEdgePair(fields []string) (godqg.VtxIndex, godqg.VtxIndex, error) {
	if len(fields) != 2 {
		return 0, 0, godqg.ErrBadGraphFile
	}
	start, err := strconv.ParseInt(strings.TrimSpace(fields[0]), 10, 32)
	if err != nil {
		return 0, 0, errors.Wrap(godqg.ErrBadGraphFile, err.Error())
	}
	end, err := strconv.ParseInt(strings.TrimSpace(fields[1]), 10, 32)
	if err != nil {
		return 0, 0, errors.Wrap(godqg.ErrBadGraphFile, err.Error())
	}
	return godqg.VtxIndex(start), godqg.VtxIndex(end), nil
}

// ReadGraphFile dispatches on the file extension. numVerts is only consulted
// for formats that don't carry their own size. The bool result reports
// whether the file asked for Traces.
func ReadGraphFile(pathname string, numVerts int) (*Graph, bool, error) {
	file, err := os.Open(pathname)
	if err != nil {
		return nil, false, err
	}
	defer file.Close()

	switch filepath.Ext(pathname) {
	case ".dre":
		return ParseDreadnaut(file)
	case ".txt":
		X, err := ParseEdgeListTxt(file)
		return X, false, err
	case ".csv":
		X, err := ParseEdgeListCSV(numVerts, file)
		return X, false, err
	}
	return nil, false, errors.Wrap(godqg.ErrBadGraphFile, pathname)
}
