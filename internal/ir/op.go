// Package ir implements the layout-aware intermediate representation
// produced from a checked kyanite unit.
//
// Functions are control flow graphs of basic blocks. Locals live in named
// stack slots (Alloca, Load, Store); objects are accessed through byte
// offsets taken from the class layouts, and virtual calls go through the
// receiver's dispatch table. A backend needs nothing beyond a Program.
package ir

// Op represents an IR operation code.
type Op int

const (
	OpInvalid Op = iota

	// Constants
	OpConst64     // integer constant; AuxInt = value
	OpConstFloat  // float constant; AuxFloat = value
	OpConstBool   // bool constant; AuxInt = 0 or 1
	OpConstString // string constant; Aux = string value

	// Integer arithmetic
	OpAdd64 // int + int
	OpSub64 // int - int
	OpMul64 // int * int
	OpDiv64 // int / int
	OpMod64 // int % int
	OpNeg64 // -int (unary)

	// Float arithmetic
	OpAddF64 // float + float
	OpSubF64 // float - float
	OpMulF64 // float * float
	OpDivF64 // float / float
	OpNegF64 // -float (unary)

	// Integer and bool comparison
	OpEq64  // int == int
	OpNeq64 // int != int
	OpLt64  // int < int
	OpLeq64 // int <= int
	OpGt64  // int > int
	OpGeq64 // int >= int

	// Float comparison
	OpEqF64  // float == float
	OpNeqF64 // float != float
	OpLtF64  // float < float
	OpLeqF64 // float <= float
	OpGtF64  // float > float
	OpGeqF64 // float >= float

	// String comparison
	OpEqStr  // str == str
	OpNeqStr // str != str

	// Boolean
	OpNot // !bool
	OpPhi // merge of && and ||; Args = one per predecessor

	// Locals
	OpArg    // function argument; AuxInt = param index, -1 for the receiver; Aux = name
	OpAlloca // named stack slot; Type = slot type; Aux = name
	OpLoad   // load from slot; Args[0] = alloca
	OpStore  // store to slot; Args[0] = alloca, Args[1] = val; void

	// Objects
	OpAlloc       // allocate an object; Aux = *layout.Class; AuxInt = size
	OpLoadField   // load a field; Args[0] = object; AuxInt = offset; Aux = field name
	OpStoreField  // store a field; Args[0] = object, Args[1] = val; AuxInt = offset; Aux = field name; void
	OpSetDispatch // attach the dispatch table of Aux (*layout.Class) to Args[0]; void

	// Calls
	OpCallDirect    // direct call; Aux = *types.FuncObj; Args = receiver (if any), arguments
	OpDispatchTable // dispatch table of Args[0]
	OpDispatchEntry // method at slot AuxInt of table Args[0]; Aux = method name; Type = signature
	OpCallIndirect  // call Args[0] with Args[1:] = receiver, arguments

	opCount // sentinel; must be last
)

// OpInfo holds metadata about an IR operation.
type OpInfo struct {
	Name   string // human-readable name
	IsPure bool   // true if the op has no side effects
	IsVoid bool   // true if the op produces no value (Store, StoreField, etc.)
	IsCall bool   // true for calls; a call of a void function has no Type
	Opaque bool   // true if the value is a runtime reference without a source type
}

// opInfoTable maps each Op to its OpInfo.
// Index by Op value.
var opInfoTable = [opCount]OpInfo{
	OpInvalid: {Name: "Invalid"},

	OpConst64:     {Name: "Const64", IsPure: true},
	OpConstFloat:  {Name: "ConstFloat", IsPure: true},
	OpConstBool:   {Name: "ConstBool", IsPure: true},
	OpConstString: {Name: "ConstString", IsPure: true},

	// Division traps on zero, so Div64 and Mod64 are not pure.
	OpAdd64: {Name: "Add64", IsPure: true},
	OpSub64: {Name: "Sub64", IsPure: true},
	OpMul64: {Name: "Mul64", IsPure: true},
	OpDiv64: {Name: "Div64"},
	OpMod64: {Name: "Mod64"},
	OpNeg64: {Name: "Neg64", IsPure: true},

	OpAddF64: {Name: "AddF64", IsPure: true},
	OpSubF64: {Name: "SubF64", IsPure: true},
	OpMulF64: {Name: "MulF64", IsPure: true},
	OpDivF64: {Name: "DivF64", IsPure: true},
	OpNegF64: {Name: "NegF64", IsPure: true},

	OpEq64:  {Name: "Eq64", IsPure: true},
	OpNeq64: {Name: "Neq64", IsPure: true},
	OpLt64:  {Name: "Lt64", IsPure: true},
	OpLeq64: {Name: "Leq64", IsPure: true},
	OpGt64:  {Name: "Gt64", IsPure: true},
	OpGeq64: {Name: "Geq64", IsPure: true},

	OpEqF64:  {Name: "EqF64", IsPure: true},
	OpNeqF64: {Name: "NeqF64", IsPure: true},
	OpLtF64:  {Name: "LtF64", IsPure: true},
	OpLeqF64: {Name: "LeqF64", IsPure: true},
	OpGtF64:  {Name: "GtF64", IsPure: true},
	OpGeqF64: {Name: "GeqF64", IsPure: true},

	OpEqStr:  {Name: "EqStr", IsPure: true},
	OpNeqStr: {Name: "NeqStr", IsPure: true},

	OpNot: {Name: "Not", IsPure: true},
	OpPhi: {Name: "Phi", IsPure: true},

	OpArg:    {Name: "Arg", IsPure: true},
	OpAlloca: {Name: "Alloca"},
	OpLoad:   {Name: "Load"},
	OpStore:  {Name: "Store", IsVoid: true},

	OpAlloc:       {Name: "Alloc"},
	OpLoadField:   {Name: "LoadField"},
	OpStoreField:  {Name: "StoreField", IsVoid: true},
	OpSetDispatch: {Name: "SetDispatch", IsVoid: true},

	OpCallDirect:    {Name: "CallDirect", IsCall: true},
	OpDispatchTable: {Name: "DispatchTable", IsPure: true, Opaque: true},
	OpDispatchEntry: {Name: "DispatchEntry", IsPure: true},
	OpCallIndirect:  {Name: "CallIndirect", IsCall: true},
}

// String returns the human-readable name of the op.
func (o Op) String() string {
	return o.Info().Name
}

// Info returns the OpInfo for this op.
func (o Op) Info() OpInfo {
	if o >= 0 && o < opCount {
		return opInfoTable[o]
	}
	return OpInfo{Name: "unknown"}
}

// IsPure returns true if this op has no side effects.
func (o Op) IsPure() bool { return o.Info().IsPure }

// IsVoid returns true if this op produces no value.
func (o Op) IsVoid() bool { return o.Info().IsVoid }

// IsCall returns true if this op is a call.
func (o Op) IsCall() bool { return o.Info().IsCall }
