package types

import "github.com/you-not-fish/kyanite/internal/rtabi"

// Sizes provides slot size and descriptor calculations for types.
// It uses the rtabi constants to stay consistent with the runtime.
type Sizes struct{}

// DefaultSizes is the default Sizes implementation.
var DefaultSizes = &Sizes{}

// Sizeof returns the size of a value of type T held in a local or field.
// Every non-void value fits one word: class instances are always held by
// reference.
func (s *Sizes) Sizeof(T Type) int64 {
	switch t := T.(type) {
	case *Basic:
		return s.basicSize(t.Kind())
	case *Class, *Instance, *TypeParam:
		return rtabi.SizePtr
	}
	return 0
}

// Alignof returns the alignment of type T in bytes.
func (s *Sizes) Alignof(T Type) int64 {
	if s.Sizeof(T) == 0 {
		return 1
	}
	return rtabi.WordSize
}

// DescChar returns the descriptor character for a field of type T.
func (s *Sizes) DescChar(T Type) byte {
	if IsReference(T) {
		return rtabi.DescPointer
	}
	return rtabi.DescScalar
}

func (s *Sizes) basicSize(kind BasicKind) int64 {
	switch kind {
	case Int:
		return rtabi.SizeInt
	case Float:
		return rtabi.SizeFloat
	case Bool:
		return rtabi.SizeBool
	case Str:
		return rtabi.SizeStr
	default:
		return 0
	}
}
