package export

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"dactyl-manuform/internal/mathutil"
)

// WriteDXF writes loops as closed R12 polylines on layer, in millimetres.
func WriteDXF(w io.Writer, layer string, loops [][]mathutil.Vec2) error {
	bw := bufio.NewWriter(w)
	pair := func(code int, value string) {
		fmt.Fprintf(bw, "%d\n%s\n", code, value)
	}
	num := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

	pair(0, "SECTION")
	pair(2, "HEADER")
	pair(9, "$INSUNITS")
	pair(70, "4")
	pair(0, "ENDSEC")

	pair(0, "SECTION")
	pair(2, "ENTITIES")
	for _, loop := range loops {
		if len(loop) < 3 {
			continue
		}
		pair(0, "POLYLINE")
		pair(8, layer)
		pair(66, "1")
		pair(70, "1")
		for _, v := range loop {
			pair(0, "VERTEX")
			pair(8, layer)
			pair(10, num(v[0]))
			pair(20, num(v[1]))
		}
		pair(0, "SEQEND")
		pair(8, layer)
	}
	pair(0, "ENDSEC")
	pair(0, "EOF")
	return bw.Flush()
}
