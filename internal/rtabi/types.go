// Package rtabi defines the ABI constants shared between the compiler and
// the kyanite runtime.
package rtabi

// Target configuration used by the LLVM exporter.
const (
	// TargetTriple is the LLVM target triple for exported modules.
	TargetTriple = "x86_64-unknown-linux-gnu"

	// DataLayout is the LLVM data layout string matching the target.
	DataLayout = "e-m:e-p270:32:32-p271:32:32-p272:64:64-i64:64-f80:128-n8:16:32:64-S128"
)

// Every field of an object occupies one word, class references and
// primitives alike.
const (
	WordSize = 8

	SizeInt   = WordSize
	SizeFloat = WordSize
	SizeBool  = WordSize
	SizePtr   = WordSize
	SizeStr   = WordSize // pointer to a NUL-terminated byte string
)

// Object header layout. An object starts with two metadata words, followed
// by one slot per field of its flattened layout.
const (
	// HeaderWords is the number of metadata words ahead of the fields.
	HeaderWords = 2

	// HeaderSize is the size of the object header in bytes.
	HeaderSize = HeaderWords * WordSize

	// HeaderDescOffset is the offset of the descriptor pointer.
	HeaderDescOffset = 0

	// HeaderDispatchOffset is the offset of the dispatch table pointer.
	HeaderDispatchOffset = WordSize
)

// FieldOffset returns the byte offset of the field stored in slot i.
func FieldOffset(i int) int64 {
	return HeaderSize + int64(i)*WordSize
}

// ObjectSize returns the allocation size of an object with n field slots.
func ObjectSize(n int) int64 {
	return FieldOffset(n)
}

// Descriptor string alphabet. The collector reads one character per word:
// the header words and scalar fields are 'i', reference fields are 'p'.
const (
	DescPointer = 'p'
	DescScalar  = 'i'
)

// LLVM type names for code generation.
const (
	LLVMTypeInt   = "i64"
	LLVMTypeFloat = "double"
	LLVMTypeBool  = "i1"
	LLVMTypePtr   = "i8*"
)
