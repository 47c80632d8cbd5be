package loader

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// ParseMTL reads a Wavefront MTL stream. Only newmtl, Ka, Kd, Ks, Ns and map_Kd are kept;
// other statements are ignored.
//
// Parameters:
//   - r: the MTL text
//
// Returns:
//   - map[string]*MTLMaterial: the materials keyed by name
//   - error: error naming the offending line if a statement is malformed
func ParseMTL(r io.Reader) (map[string]*MTLMaterial, error) {
	materials := make(map[string]*MTLMaterial)
	var current *MTLMaterial

	lineNumber := 0
	s := bufio.NewScanner(r)
	for s.Scan() {
		lineNumber++
		fields := strings.Fields(s.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		args := fields[1:]

		if fields[0] == "newmtl" {
			if len(args) < 1 {
				return nil, fmt.Errorf("mtl line %d: newmtl without a name", lineNumber)
			}
			current = &MTLMaterial{Name: args[0]}
			materials[current.Name] = current
			continue
		}

		switch fields[0] {
		case "Ka", "Kd", "Ks", "Ns", "map_Kd":
			if current == nil {
				return nil, fmt.Errorf("mtl line %d: %s before newmtl", lineNumber, fields[0])
			}
		default:
			continue
		}

		switch fields[0] {
		case "Ka", "Kd", "Ks":
			c, err := parseColor(args)
			if err != nil {
				return nil, fmt.Errorf("mtl line %d: invalid %s: %w", lineNumber, fields[0], err)
			}
			switch fields[0] {
			case "Ka":
				current.Ka = &c
			case "Kd":
				current.Kd = &c
			default:
				current.Ks = &c
			}
		case "Ns":
			if len(args) < 1 {
				return nil, fmt.Errorf("mtl line %d: invalid Ns", lineNumber)
			}
			ns, err := parseFloat(args[0])
			if err != nil {
				return nil, fmt.Errorf("mtl line %d: invalid Ns: %w", lineNumber, err)
			}
			current.Ns = &ns
		case "map_Kd":
			if len(args) < 1 {
				return nil, fmt.Errorf("mtl line %d: invalid map_Kd", lineNumber)
			}
			// options such as -s precede the file name, which is last
			current.MapKd = args[len(args)-1]
		}
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("failed to read mtl: %w", err)
	}
	return materials, nil
}

// parseColor reads "r g b"; a single value applies to all three channels.
func parseColor(args []string) ([3]float32, error) {
	var c [3]float32
	switch len(args) {
	case 0:
		return c, fmt.Errorf("missing color")
	case 1, 2:
		f, err := parseFloat(args[0])
		if err != nil {
			return c, err
		}
		return [3]float32{f, f, f}, nil
	}
	for i := range c {
		f, err := parseFloat(args[i])
		if err != nil {
			return c, err
		}
		c[i] = f
	}
	return c, nil
}
