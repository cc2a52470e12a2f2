package libdqg

import (
	"io"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/pkg/errors"

	"github.com/dqg-systems/dqg/godqg"
)

// Grammar for the dreadnaut-like .dre dialect emitted by graph generation
// tooling. A file looks like:
//
//	At
//	-a
//	-m
//	n=4 g
//	0:1 2 ;
//	2:3;
//	3:0.
//	f=[0|1, 2] x o
//
// The header block is optional; "At" in it means the generating tool wanted
// Traces rather than nauty. The colouring line is optional; vertices it does
// not mention keep DefaultColour.
type DreFile struct {
	Header  []*DreHeaderCmd `@@*`
	Size    int             `"n" "=" @Int "g"`
	Rows    []*DreEdgeRow   `@@*`
	End     string          `@"."?`
	Colours *DreColouring   `@@?`
	Trailer []string        `@( "x" | "o" )*`
}

type DreHeaderCmd struct {
	Mode string `  @( "At" | "An" | "As" )`
	Flag string `| "-" @( "a" | "m" )`
}

type DreEdgeRow struct {
	From int    `@Int ":"`
	To   []int  `@Int+`
	End  string `@( ";" | "." )`
}

type DreColouring struct {
	Classes []*DreColourClass `"f" "=" "[" ( @@ ( "|" @@ )* )? "]"`
}

type DreColourClass struct {
	Verts []int `@Int ( "," @Int )*`
}

var dreLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `!.*`},
	{Name: "Int", Pattern: `\d+`},
	{Name: "Ident", Pattern: `[A-Za-z]+`},
	{Name: "Punct", Pattern: `[-:;.,|=\[\]]`},
	{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
})

var parseDreFile = participle.MustBuild[DreFile](
	participle.Lexer(dreLexer),
	participle.Elide("Whitespace", "Comment"),
	participle.UseLookahead(2),
)

// ParseDreadnaut reads a .dre graph. The second return value reports whether
// the file's header asked for Traces.
func ParseDreadnaut(src io.Reader) (*Graph, bool, error) {
	dre, err := parseDreFile.Parse("", src)
	if err != nil {
		return nil, false, err
	}
	X, err := dre.buildGraph()
	if err != nil {
		return nil, false, err
	}
	return X, dre.wantsTraces(), nil
}

func (dre *DreFile) wantsTraces() bool {
	for _, cmd := range dre.Header {
		if cmd.Mode == "At" {
			return true
		}
	}
	return false
}

func (dre *DreFile) buildGraph() (*Graph, error) {
	n := dre.Size
	X := NewGraph(n)

	for _, row := range dre.Rows {
		if row.From < 0 || row.From >= n {
			return nil, errors.Wrapf(godqg.ErrBadVtxIndex, "edge line for vertex %d", row.From)
		}
		for _, end := range row.To {
			if end < 0 || end >= n || end == row.From {
				return nil, errors.Wrapf(godqg.ErrBadVtxIndex, "edge %d-%d", row.From, end)
			}
			if err := X.AddEdge(godqg.VtxIndex(row.From), godqg.VtxIndex(end)); err != nil {
				return nil, err
			}
		}
		// A '.' terminator ends edge input even if more rows follow.
		if row.End == "." {
			break
		}
	}

	if dre.Colours != nil {
		colours := make([]godqg.Colour, n)
		next := godqg.Colour(1)
		for _, class := range dre.Colours.Classes {
			for _, v := range class.Verts {
				if v < 0 || v >= n {
					return nil, errors.Wrapf(godqg.ErrBadColouring, "vertex %d", v)
				}
				colours[v] = next
			}
			next++
		}
		if err := X.SetColours(colours); err != nil {
			return nil, err
		}
	}

	X.Minimize()
	return X, nil
}
