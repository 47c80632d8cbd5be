package scene

import "github.com/Carmen-Shannon/oxy-phong/common"

// Object3DBuilderOption is a functional option for configuring an Object3D.
type Object3DBuilderOption func(o *Object3D)

// WithName sets the node's name.
//
// Parameters:
//   - name: the name
//
// Returns:
//   - Object3DBuilderOption: option function to apply
func WithName(name string) Object3DBuilderOption {
	return func(o *Object3D) {
		o.Name = name
	}
}

// WithMatrix sets the node's local transform.
//
// Parameters:
//   - m: the local matrix
//
// Returns:
//   - Object3DBuilderOption: option function to apply
func WithMatrix(m common.Matrix4) Object3DBuilderOption {
	return func(o *Object3D) {
		o.Matrix = m
	}
}

// WithChildren appends children to the node.
//
// Parameters:
//   - children: the child nodes
//
// Returns:
//   - Object3DBuilderOption: option function to apply
func WithChildren(children ...*Object3D) Object3DBuilderOption {
	return func(o *Object3D) {
		o.Children = append(o.Children, children...)
	}
}
