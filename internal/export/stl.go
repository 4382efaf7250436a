package export

import (
	"bufio"
	"encoding/binary"
	"io"
	"math"

	"dactyl-manuform/internal/mesh"
)

const stlHeaderSize = 80

// WriteSTL writes m as binary STL. The header carries name, cut to 80 bytes.
func WriteSTL(w io.Writer, name string, m *mesh.Mesh) error {
	bw := bufio.NewWriter(w)
	var header [stlHeaderSize]byte
	copy(header[:], name)
	if _, err := bw.Write(header[:]); err != nil {
		return err
	}

	var buf [50]byte
	binary.LittleEndian.PutUint32(buf[:4], uint32(len(m.Triangles)))
	if _, err := bw.Write(buf[:4]); err != nil {
		return err
	}
	for _, t := range m.Triangles {
		n := t.Normal()
		put := func(off int, v [3]float64) {
			for i, c := range v {
				binary.LittleEndian.PutUint32(buf[off+4*i:], math.Float32bits(float32(c)))
			}
		}
		put(0, n)
		put(12, t[0])
		put(24, t[1])
		put(36, t[2])
		// attribute byte count
		buf[48], buf[49] = 0, 0
		if _, err := bw.Write(buf[:]); err != nil {
			return err
		}
	}
	return bw.Flush()
}
