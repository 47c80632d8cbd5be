package shader

import (
	_ "embed"
	"fmt"

	"github.com/gogpu/naga"
)

//go:embed assets/phong.wgsl
var phongSource string

// PhongKey is the key of the built-in Phong shader.
const PhongKey = "phong"

// shader is the implementation of the Shader interface.
// It holds the processed WGSL source and the metadata needed for pipeline creation.
type shader struct {
	key                string
	source             string
	vertexEntryPoint   string
	fragmentEntryPoint string
	declarations       []Annotation
}

// Shader defines the interface for a pre-processed WGSL module that carries both a vertex and a
// fragment entry point, along with the bind group declarations collected from its annotations.
type Shader interface {
	// Key retrieves the unique identifier for this shader, used for caching and lookups.
	//
	// Returns:
	//   - string: the shader's unique key
	Key() string

	// Source retrieves the processed WGSL shader source code.
	//
	// Returns:
	//   - string: the WGSL source code of the shader
	Source() string

	// VertexEntryPoint returns the vertex stage entry point name.
	VertexEntryPoint() string

	// FragmentEntryPoint returns the fragment stage entry point name.
	FragmentEntryPoint() string

	// Declarations returns the group annotations parsed from the shader source.
	//
	// Returns:
	//   - []Annotation: declarations in source order
	Declarations() []Annotation

	// Groups returns the distinct bind group indices the shader declares, ascending.
	Groups() []int
}

var _ Shader = &shader{}

// NewShader pre-processes raw WGSL source into a Shader. The entry points default to
// vertex_main and fragment_main.
//
// Parameters:
//   - key: a unique identifier for the shader
//   - raw: WGSL source containing @oxy annotations
//   - vertexEntryPoint: the vertex entry point name, or "" for vertex_main
//   - fragmentEntryPoint: the fragment entry point name, or "" for fragment_main
//
// Returns:
//   - Shader: the processed shader
//   - error: error if pre-processing fails
func NewShader(key, raw, vertexEntryPoint, fragmentEntryPoint string) (Shader, error) {
	pp := NewPreProcessor()
	source, err := pp.Process(raw)
	if err != nil {
		return nil, fmt.Errorf("shader %s: %w", key, err)
	}
	if vertexEntryPoint == "" {
		vertexEntryPoint = "vertex_main"
	}
	if fragmentEntryPoint == "" {
		fragmentEntryPoint = "fragment_main"
	}
	decls := make([]Annotation, len(pp.Declarations()))
	copy(decls, pp.Declarations())
	return &shader{
		key:                key,
		source:             source,
		vertexEntryPoint:   vertexEntryPoint,
		fragmentEntryPoint: fragmentEntryPoint,
		declarations:       decls,
	}, nil
}

// NewPhongShader returns the built-in Phong shader. It panics if the embedded source fails to
// pre-process, which only happens if the embedded assets are broken.
//
// Returns:
//   - Shader: the Phong shader
func NewPhongShader() Shader {
	s, err := NewShader(PhongKey, phongSource, "", "")
	if err != nil {
		panic(err)
	}
	return s
}

// Validate compiles WGSL source with naga and reports the first error.
//
// Parameters:
//   - source: processed WGSL source
//
// Returns:
//   - error: the compile error, or nil
func Validate(source string) error {
	if _, err := naga.Compile(source); err != nil {
		return fmt.Errorf("wgsl validation: %w", err)
	}
	return nil
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) VertexEntryPoint() string {
	return s.vertexEntryPoint
}

func (s *shader) FragmentEntryPoint() string {
	return s.fragmentEntryPoint
}

func (s *shader) Declarations() []Annotation {
	return s.declarations
}

func (s *shader) Groups() []int {
	return Groups(s.declarations)
}
