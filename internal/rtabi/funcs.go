package rtabi

// Runtime function names.
const (
	// FnAlloc allocates an object: rt_alloc(size, descriptor) returns a
	// zeroed block with the descriptor copied into the first header word.
	FnAlloc = "rt_alloc"

	// FnPanic aborts the program with a message.
	FnPanic = "rt_panic"
)

// Host functions an extern declaration may bind to.
const (
	FnPrintln  = "println"
	FnPrintInt = "print_int"
)

// Symbol naming.
const (
	// EntryPoint is the user function called by the runtime on start.
	EntryPoint = "main"

	// MainSymbol is the link name of EntryPoint in exported modules; the
	// runtime's own main calls it.
	MainSymbol = "kyanite_main"

	// DispatchPrefix prefixes the dispatch table global of a class.
	DispatchPrefix = "dispatch."

	// DescPrefix prefixes the descriptor string global of a class.
	DescPrefix = "desc."
)

// FuncSignature describes a runtime function's signature for code generation.
type FuncSignature struct {
	Name       string   // Function name
	ReturnType string   // LLVM return type ("void", "i8*", etc.)
	ParamTypes []string // LLVM parameter types
	NoReturn   bool     // Whether function has noreturn attribute
}

// RuntimeFunctions returns the signatures of the runtime functions every
// exported module declares.
func RuntimeFunctions() []FuncSignature {
	return []FuncSignature{
		{Name: FnAlloc, ReturnType: LLVMTypePtr, ParamTypes: []string{LLVMTypeInt, LLVMTypePtr}},
		{Name: FnPanic, ReturnType: "void", ParamTypes: []string{LLVMTypePtr}, NoReturn: true},
	}
}
