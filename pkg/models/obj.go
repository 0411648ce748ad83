package models

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/taigrr/meshview/pkg/math3d"
)

// maxOBJLine bounds a single line so that a corrupt file cannot grow the
// scanner buffer without limit.
const maxOBJLine = 1 << 20

// ParseError reports malformed OBJ content. Line is 1-based.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

// LoadOBJ reads a Wavefront OBJ file and returns its triangulated geometry.
func LoadOBJ(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open obj: %w", err)
	}
	defer f.Close()
	return ParseOBJ(f, filepath.Base(path))
}

// ParseOBJ reads OBJ geometry from r. Only v, vt, vn and f directives are
// interpreted; everything else (g, o, s, mtllib, usemtl, ...) is skipped.
// Polygons are split into triangles as a fan around their first vertex,
// which is only correct for convex polygons.
//
// Malformed content fails with a *ParseError. A failing reader fails with
// a wrapped error that is not a *ParseError.
func ParseOBJ(r io.Reader, name string) (*Mesh, error) {
	p := &objParser{mesh: NewMesh(name)}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxOBJLine)

	for scanner.Scan() {
		p.line++
		if err := p.parseLine(scanner.Text()); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return nil, &ParseError{Line: p.line + 1, Msg: "line too long"}
		}
		return nil, fmt.Errorf("read obj: line %d: %w", p.line+1, err)
	}

	return p.mesh, nil
}

type objParser struct {
	mesh *Mesh
	line int
	poly []FaceVertex // scratch space reused across face lines
}

func (p *objParser) errorf(format string, args ...any) error {
	return &ParseError{Line: p.line, Msg: fmt.Sprintf(format, args...)}
}

func (p *objParser) parseLine(raw string) error {
	line := strings.TrimSpace(raw)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}

	fields := strings.Fields(line)
	tag, args := fields[0], fields[1:]

	switch tag {
	case "v":
		xyz, err := p.floats(tag, args, 3)
		if err != nil {
			return err
		}
		p.mesh.Positions = append(p.mesh.Positions, math3d.V3(xyz[0], xyz[1], xyz[2]))
	case "vt":
		// A third (w) component is allowed but not stored.
		uv, err := p.floats(tag, args, 2)
		if err != nil {
			return err
		}
		p.mesh.Texcoords = append(p.mesh.Texcoords, math3d.V2(uv[0], uv[1]))
	case "vn":
		xyz, err := p.floats(tag, args, 3)
		if err != nil {
			return err
		}
		p.mesh.Normals = append(p.mesh.Normals, math3d.V3(xyz[0], xyz[1], xyz[2]))
	case "f":
		return p.parseFace(args)
	}
	return nil
}

// floats parses the first n fields of a vertex directive.
func (p *objParser) floats(tag string, args []string, n int) ([3]float64, error) {
	var out [3]float64
	if len(args) < n {
		return out, p.errorf("%s: expected %d values, got %d", tag, n, len(args))
	}
	for i := range n {
		f, err := strconv.ParseFloat(args[i], 32)
		if err != nil {
			return out, p.errorf("%s: invalid number %q", tag, args[i])
		}
		out[i] = f
	}
	return out, nil
}

func (p *objParser) parseFace(args []string) error {
	if len(args) < 3 {
		return p.errorf("f: expected at least 3 vertices, got %d", len(args))
	}

	p.poly = p.poly[:0]
	for _, tok := range args {
		fv, err := p.faceVertex(tok)
		if err != nil {
			return err
		}
		p.poly = append(p.poly, fv)
	}

	for i := 2; i < len(p.poly); i++ {
		p.mesh.Indices = append(p.mesh.Indices, p.poly[0], p.poly[i-1], p.poly[i])
	}
	return nil
}

// faceVertex parses one of v, v/vt, v//vn or v/vt/vn.
func (p *objParser) faceVertex(tok string) (FaceVertex, error) {
	var fv FaceVertex

	parts := strings.Split(tok, "/")
	if len(parts) > 3 {
		return fv, p.errorf("f: invalid vertex %q: too many components", tok)
	}
	if parts[0] == "" {
		return fv, p.errorf("f: invalid vertex %q: missing position index", tok)
	}

	v, err := p.index(tok, parts[0], len(p.mesh.Positions))
	if err != nil {
		return fv, err
	}
	fv.V = v

	if len(parts) >= 2 && parts[1] != "" {
		vt, err := p.index(tok, parts[1], len(p.mesh.Texcoords))
		if err != nil {
			return fv, err
		}
		fv.VT, fv.HasVT = vt, true
	}
	if len(parts) == 3 && parts[2] != "" {
		vn, err := p.index(tok, parts[2], len(p.mesh.Normals))
		if err != nil {
			return fv, err
		}
		fv.VN, fv.HasVN = vn, true
	}
	return fv, nil
}

func (p *objParser) index(tok, s string, count int) (uint32, error) {
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, p.errorf("f: invalid vertex %q: bad index %q", tok, s)
	}
	idx, ok := resolveIndex(int(n), count)
	if !ok {
		return 0, p.errorf("f: invalid vertex %q: index %d out of range (%d defined)", tok, n, count)
	}
	return idx, nil
}

// resolveIndex maps a 1-based OBJ index onto a 0-based one. Negative
// indices count back from the end of a list holding count elements.
func resolveIndex(idx, count int) (uint32, bool) {
	var i int
	switch {
	case idx > 0:
		i = idx - 1
	case idx < 0:
		i = count + idx
	default:
		return 0, false
	}
	if i < 0 || i >= count {
		return 0, false
	}
	return uint32(i), true
}
