package gp

import "math"

// Sentinel is returned by protected division and replaces any non-finite
// intermediate value during evaluation.
const Sentinel = 1.0

// divEpsilon is the divisor magnitude under which division is protected.
const divEpsilon = 1e-4

// Op is a function node operator. Every operator has arity two.
type Op uint8

const (
	OpAdd Op = iota
	OpSub
	OpMul
	OpDiv
	OpMax
	OpMin
	numOps
)

// Arity is shared by all operators.
const Arity = 2

var opNames = [...]string{"add", "sub", "mul", "div", "max", "min"}

func (o Op) String() string {
	if o >= numOps {
		return "invalid"
	}
	return opNames[o]
}

func opByName(name string) (Op, bool) {
	for i, n := range opNames {
		if n == name {
			return Op(i), true
		}
	}
	return 0, false
}

// Apply evaluates the operator. The result is always finite.
func (o Op) Apply(x, y float64) float64 {
	var r float64
	switch o {
	case OpAdd:
		r = x + y
	case OpSub:
		r = x - y
	case OpMul:
		r = x * y
	case OpDiv:
		if math.Abs(y) < divEpsilon {
			return Sentinel
		}
		r = x / y
	case OpMax:
		r = math.Max(x, y)
	case OpMin:
		r = math.Min(x, y)
	default:
		return Sentinel
	}
	return finite(r)
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Sentinel
	}
	return v
}

// Kind tags a Node.
type Kind uint8

const (
	KindFunction Kind = iota
	KindTerminal
	KindConstant
)

// Node is one element of a tree. Only the field matching Kind is meaningful.
type Node struct {
	Kind    Kind
	Op      Op
	Feature int
	Value   float64
}

func (n Node) arity() int {
	if n.Kind == KindFunction {
		return Arity
	}
	return 0
}
