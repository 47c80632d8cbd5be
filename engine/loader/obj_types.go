package loader

// IndexTuple references one face corner: a position index and optional texture coordinate and
// normal indices. Indices are zero based; -1 marks an absent component.
type IndexTuple struct {
	V  int
	VT int
	VN int
}

// HasTexCoord reports whether the corner references a texture coordinate.
func (t IndexTuple) HasTexCoord() bool {
	return t.VT >= 0
}

// HasNormal reports whether the corner references a normal.
func (t IndexTuple) HasNormal() bool {
	return t.VN >= 0
}

// Polygon is one face as listed in the OBJ file.
type Polygon []IndexTuple

// OBJGroup is a run of faces sharing a group name and material.
type OBJGroup struct {
	Name string
	// Material is the usemtl name in effect for the group, empty if none.
	Material string
	Polygons []Polygon
}

// OBJObject is a named object and its groups, in file order.
type OBJObject struct {
	Name   string
	Groups []*OBJGroup
}

// OBJData is the parsed content of an OBJ file.
type OBJData struct {
	Positions [][4]float32
	TexCoords [][2]float32
	Normals   [][3]float32
	Objects   []*OBJObject
	// MaterialLibs lists the mtllib file names, relative to the OBJ file.
	MaterialLibs []string
}

// MTLMaterial is one newmtl block. Nil fields were not present in the file.
type MTLMaterial struct {
	Name  string
	Ka    *[3]float32
	Kd    *[3]float32
	Ks    *[3]float32
	Ns    *float32
	MapKd string
}
