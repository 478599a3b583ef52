// Package params models bind parameters: the descriptor attached to every
// interpolated value, the format annotations that shape it, and the
// name-keyed registry that keeps names unique while fragments are combined.
package params

// Marker prefixes every parameter reference in rendered SQL.
const Marker = '@'

// Direction says how the execution layer binds a parameter.
type Direction int

const (
	Input Direction = iota
	Output
	InputOutput
	ReturnValue
)

func (d Direction) String() string {
	switch d {
	case Input:
		return "Input"
	case Output:
		return "Output"
	case InputOutput:
		return "InputOutput"
	case ReturnValue:
		return "ReturnValue"
	default:
		return "Direction(?)"
	}
}

// Parameter describes one bind parameter.
//
// Size, Precision and Scale are zero when unset. A Size of -1 means "max".
// Value is only written after execution, and only for non-Input directions.
type Parameter struct {
	Name      string
	Value     any
	DbType    DbType
	Size      int
	Precision int
	Scale     int
	Direction Direction
	// OnOutput is invoked after execution with the final value of a
	// non-Input parameter.
	OnOutput func(value any)
}

// NewParameter returns an Input parameter.
func NewParameter(name string, value any) *Parameter {
	return &Parameter{Name: name, Value: value}
}

// NewOutput returns an Output parameter whose final value is passed to
// onOutput after execution. Interpolating it into a template registers a
// named copy, so the same parameter can be used in several statements.
func NewOutput(dbType DbType, size int, onOutput func(value any)) *Parameter {
	return &Parameter{DbType: dbType, Size: size, Direction: Output, OnOutput: onOutput}
}

// NewInputOutput returns an InputOutput parameter seeded with value.
func NewInputOutput(value any, dbType DbType, onOutput func(value any)) *Parameter {
	return &Parameter{Value: value, DbType: dbType, Direction: InputOutput, OnOutput: onOutput}
}

// IsInput reports whether the parameter only carries a value into the statement.
func (p *Parameter) IsInput() bool { return p.Direction == Input }

func (p *Parameter) clone() *Parameter {
	c := *p
	return &c
}

func (p *Parameter) renamed(name string) *Parameter {
	c := p.clone()
	c.Name = name
	return c
}
