package codegen

import (
	"fmt"

	lir "github.com/llir/llvm/ir"
	ltypes "github.com/llir/llvm/ir/types"

	"github.com/you-not-fish/kyanite/internal/rtabi"
	"github.com/you-not-fish/kyanite/internal/types"
)

// ptrType is i8*, the type of objects, strings and dispatch entries.
var ptrType = ltypes.NewPointer(ltypes.I8)

// llvmType maps a kyanite type to its LLVM type.
func llvmType(t types.Type) ltypes.Type {
	switch {
	case t == nil || types.IsVoid(t):
		return ltypes.Void
	case types.IsInt(t):
		return ltypes.I64
	case types.IsBasic(t, types.IsFloat):
		return ltypes.Double
	case types.IsBool(t):
		return ltypes.I1
	case types.IsBasic(t, types.IsString), types.IsReference(t):
		return ptrType
	}
	panic(fmt.Sprintf("codegen.llvmType: unhandled type %s", t))
}

// resultType returns the LLVM return type of sig.
func resultType(sig *types.Func) ltypes.Type {
	return llvmType(sig.Result())
}

// params returns the LLVM parameters of sig; methods take the receiver
// first.
func params(sig *types.Func, method bool) []*lir.Param {
	var ps []*lir.Param
	if method {
		ps = append(ps, lir.NewParam("self", ptrType))
	}
	for _, p := range sig.Params() {
		ps = append(ps, lir.NewParam(p.Name(), llvmType(p.Type())))
	}
	return ps
}

// funcType returns the type of a method implementing sig.
func funcType(sig *types.Func) *ltypes.FuncType {
	ps := []ltypes.Type{ptrType}
	for _, p := range sig.Params() {
		ps = append(ps, llvmType(p.Type()))
	}
	return ltypes.NewFunc(resultType(sig), ps...)
}

// abiType maps an rtabi type name to its LLVM type.
func abiType(name string) (ltypes.Type, error) {
	switch name {
	case "void":
		return ltypes.Void, nil
	case rtabi.LLVMTypeInt:
		return ltypes.I64, nil
	case rtabi.LLVMTypeFloat:
		return ltypes.Double, nil
	case rtabi.LLVMTypeBool:
		return ltypes.I1, nil
	case rtabi.LLVMTypePtr:
		return ptrType, nil
	}
	return nil, fmt.Errorf("codegen: unknown runtime type %q", name)
}
