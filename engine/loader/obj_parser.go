package loader

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const defaultName = "default"

// objParser holds the state of one ParseOBJ call.
type objParser struct {
	data   *OBJData
	object *OBJObject
	group  *OBJGroup
	// material is the usemtl name in effect.
	material string
}

// ParseOBJ reads a Wavefront OBJ stream. Faces before any o or g statement belong to an object
// and group named "default". Unknown statements are ignored.
//
// Parameters:
//   - r: the OBJ text
//
// Returns:
//   - *OBJData: positions, texture coordinates, normals and the object/group tree
//   - error: error naming the offending line if a statement is malformed
func ParseOBJ(r io.Reader) (*OBJData, error) {
	p := &objParser{data: &OBJData{}}

	lineNumber := 0
	s := bufio.NewScanner(r)
	for s.Scan() {
		lineNumber++
		fields := strings.Fields(s.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		if err := p.statement(fields); err != nil {
			return nil, fmt.Errorf("obj line %d: %w", lineNumber, err)
		}
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("failed to read obj: %w", err)
	}
	return p.data, nil
}

func (p *objParser) statement(fields []string) error {
	args := fields[1:]
	switch fields[0] {
	case "v":
		if len(args) < 3 {
			return fmt.Errorf("invalid vertex %q", strings.Join(args, " "))
		}
		pos := [4]float32{0, 0, 0, 1}
		for i := 0; i < len(args) && i < 4; i++ {
			f, err := parseFloat(args[i])
			if err != nil {
				return fmt.Errorf("invalid vertex: %w", err)
			}
			pos[i] = f
		}
		p.data.Positions = append(p.data.Positions, pos)

	case "vt":
		if len(args) < 1 {
			return fmt.Errorf("invalid texture coordinates")
		}
		var uv [2]float32
		for i := 0; i < len(args) && i < 2; i++ {
			f, err := parseFloat(args[i])
			if err != nil {
				return fmt.Errorf("invalid texture coordinates: %w", err)
			}
			uv[i] = f
		}
		p.data.TexCoords = append(p.data.TexCoords, uv)

	case "vn":
		if len(args) < 3 {
			return fmt.Errorf("invalid vertex normal %q", strings.Join(args, " "))
		}
		var n [3]float32
		for i := range n {
			f, err := parseFloat(args[i])
			if err != nil {
				return fmt.Errorf("invalid vertex normal: %w", err)
			}
			n[i] = f
		}
		p.data.Normals = append(p.data.Normals, n)

	case "f":
		if len(args) < 3 {
			return fmt.Errorf("face with %d vertices: %w", len(args), ErrTooFewVertices)
		}
		poly := make(Polygon, len(args))
		for i, arg := range args {
			t, err := p.indexTuple(arg)
			if err != nil {
				return err
			}
			poly[i] = t
		}
		g := p.currentGroup()
		g.Polygons = append(g.Polygons, poly)

	case "o":
		p.object = &OBJObject{Name: nameArg(args)}
		p.data.Objects = append(p.data.Objects, p.object)
		p.group = nil

	case "g":
		p.startGroup(nameArg(args))

	case "usemtl":
		if len(args) < 1 {
			return fmt.Errorf("usemtl without a material name")
		}
		p.material = args[0]
		switch {
		case p.group == nil:
		case len(p.group.Polygons) == 0:
			p.group.Material = p.material
		default:
			p.startGroup(p.group.Name)
		}

	case "mtllib":
		if len(args) < 1 {
			return fmt.Errorf("mtllib without a file name")
		}
		p.data.MaterialLibs = append(p.data.MaterialLibs, args...)
	}
	return nil
}

func (p *objParser) currentObject() *OBJObject {
	if p.object == nil {
		p.object = &OBJObject{Name: defaultName}
		p.data.Objects = append(p.data.Objects, p.object)
	}
	return p.object
}

func (p *objParser) currentGroup() *OBJGroup {
	if p.group == nil {
		p.startGroup(defaultName)
	}
	return p.group
}

func (p *objParser) startGroup(name string) {
	obj := p.currentObject()
	p.group = &OBJGroup{Name: name, Material: p.material}
	obj.Groups = append(obj.Groups, p.group)
}

// indexTuple parses v, v/vt, v//vn or v/vt/vn.
func (p *objParser) indexTuple(token string) (IndexTuple, error) {
	parts := strings.Split(token, "/")
	if len(parts) > 3 || parts[0] == "" {
		return IndexTuple{}, fmt.Errorf("invalid face vertex %q", token)
	}
	t := IndexTuple{VT: -1, VN: -1}

	var err error
	if t.V, err = resolveIndex(parts[0], len(p.data.Positions)); err != nil {
		return IndexTuple{}, fmt.Errorf("face vertex %q position: %w", token, err)
	}
	if len(parts) > 1 && parts[1] != "" {
		if t.VT, err = resolveIndex(parts[1], len(p.data.TexCoords)); err != nil {
			return IndexTuple{}, fmt.Errorf("face vertex %q texture coordinate: %w", token, err)
		}
	}
	if len(parts) > 2 && parts[2] != "" {
		if t.VN, err = resolveIndex(parts[2], len(p.data.Normals)); err != nil {
			return IndexTuple{}, fmt.Errorf("face vertex %q normal: %w", token, err)
		}
	}
	return t, nil
}

// resolveIndex converts a one based or negative (relative) OBJ index to a zero based one.
func resolveIndex(s string, count int) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	idx := i - 1
	if i < 0 {
		idx = count + i
	}
	if i == 0 || idx < 0 || idx >= count {
		return 0, fmt.Errorf("index %d out of range (%d defined)", i, count)
	}
	return idx, nil
}

func parseFloat(s string) (float32, error) {
	f, err := strconv.ParseFloat(s, 32)
	return float32(f), err
}

func nameArg(args []string) string {
	if len(args) == 0 {
		return defaultName
	}
	return strings.Join(args, " ")
}
