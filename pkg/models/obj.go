package models

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/taigrr/hangar/pkg/math3d"
)

// LoadOBJ loads a Wavefront .obj file.
func LoadOBJ(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open obj %q: %w", path, err)
	}
	defer f.Close()

	mesh, err := ParseOBJ(f, filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("parse obj %q: %w", path, err)
	}
	return mesh, nil
}

// ParseOBJ reads OBJ geometry from r. Only positions, texture coordinates
// and faces are used; polygons with more than three corners are
// fan-triangulated. OBJ indices are 1-based (negative ones count back from
// the end) and are stored 0-based.
func ParseOBJ(r io.Reader, name string) (*Mesh, error) {
	mesh := NewMesh(name)
	var texcoords []math3d.Vec2

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)

		switch fields[0] {
		case "v":
			v, err := parseFloats(fields[1:], 3)
			if err != nil {
				return nil, fmt.Errorf("line %d: vertex: %w", lineNo, err)
			}
			mesh.Vertices = append(mesh.Vertices, math3d.V3(v[0], v[1], v[2]))

		case "vt":
			v, err := parseFloats(fields[1:], 2)
			if err != nil {
				return nil, fmt.Errorf("line %d: texcoord: %w", lineNo, err)
			}
			texcoords = append(texcoords, math3d.V2(v[0], v[1]))

		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: face needs at least 3 vertices", lineNo)
			}
			corners := make([]objCorner, 0, len(fields)-1)
			for _, tok := range fields[1:] {
				c, err := parseCorner(tok, len(mesh.Vertices), len(texcoords))
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNo, err)
				}
				corners = append(corners, c)
			}
			// Fan triangulation: 0-1-2, 0-2-3, ...
			for i := 1; i+1 < len(corners); i++ {
				c0, c1, c2 := corners[0], corners[i], corners[i+1]
				mesh.Faces = append(mesh.Faces, Face{
					V:     [3]int{c0.v, c1.v, c2.v},
					UV:    [3]math3d.Vec2{lookupUV(texcoords, c0.vt), lookupUV(texcoords, c1.vt), lookupUV(texcoords, c2.vt)},
					Color: DefaultFaceColor,
				})
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	if len(mesh.Faces) == 0 {
		return nil, fmt.Errorf("no faces found")
	}

	mesh.CalculateBounds()
	return mesh, nil
}

// objCorner holds the 0-based indices of one face corner (-1 = absent).
type objCorner struct {
	v, vt int
}

// parseCorner parses "v", "v/vt", "v//vn" or "v/vt/vn".
func parseCorner(tok string, numVerts, numTex int) (objCorner, error) {
	parts := strings.Split(tok, "/")
	c := objCorner{v: -1, vt: -1}

	v, err := resolveIndex(parts[0], numVerts)
	if err != nil {
		return c, fmt.Errorf("vertex index %q: %w", tok, err)
	}
	c.v = v

	if len(parts) > 1 && parts[1] != "" {
		vt, err := resolveIndex(parts[1], numTex)
		if err != nil {
			return c, fmt.Errorf("texcoord index %q: %w", tok, err)
		}
		c.vt = vt
	}
	return c, nil
}

func resolveIndex(s string, count int) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	switch {
	case n > 0:
		n--
	case n < 0:
		n += count
	default:
		return 0, fmt.Errorf("index 0 is invalid")
	}
	if n < 0 || n >= count {
		return 0, fmt.Errorf("index out of range (have %d)", count)
	}
	return n, nil
}

func lookupUV(texcoords []math3d.Vec2, i int) math3d.Vec2 {
	if i < 0 {
		return math3d.Vec2{}
	}
	return texcoords[i]
}

func parseFloats(fields []string, n int) ([]float64, error) {
	if len(fields) < n {
		return nil, fmt.Errorf("want %d components, got %d", n, len(fields))
	}
	out := make([]float64, n)
	for i := range n {
		f, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return nil, err
		}
		out[i] = f
	}
	return out, nil
}
