package ir

import (
	"fmt"

	"go.uber.org/multierr"

	"github.com/you-not-fish/kyanite/internal/layout"
	"github.com/you-not-fish/kyanite/internal/types"
)

// Verify checks the structural integrity of every function in p.
// It returns all violations combined, or nil if the program is valid.
func Verify(p *Program) error {
	var err error
	for _, f := range p.Funcs {
		err = multierr.Append(err, VerifyFunc(f))
	}
	return err
}

// VerifyFunc checks the structure of f: block kinds and edges, value
// operands, op-specific operands, and that every operand dominates its
// use.
func VerifyFunc(f *Func) error {
	var errs error
	add := func(format string, args ...interface{}) {
		errs = multierr.Append(errs, fmt.Errorf("func %s: "+format, append([]interface{}{f.Name}, args...)...))
	}

	if f.Entry == nil || len(f.Blocks) == 0 {
		add("no entry block")
		return errs
	}
	if f.Blocks[0] != f.Entry {
		add("Blocks[0] is not the entry block")
	}
	if len(f.Entry.Preds) != 0 {
		add("entry block %s has %d predecessors, want 0", f.Entry, len(f.Entry.Preds))
	}

	blockSet := make(map[*Block]bool, len(f.Blocks))
	for _, b := range f.Blocks {
		blockSet[b] = true
	}
	valIdx := make(map[*Value]int)
	for _, b := range f.Blocks {
		for i, v := range b.Values {
			valIdx[v] = i
		}
	}

	for _, b := range f.Blocks {
		if b.Func != f {
			add("%s: block Func pointer mismatch", b)
		}

		switch b.Kind {
		case BlockPlain:
			if len(b.Succs) != 1 {
				add("%s: plain block has %d succs, want 1", b, len(b.Succs))
			}
		case BlockIf:
			if len(b.Controls) != 1 || b.Controls[0] == nil {
				add("%s: if block needs one control", b)
			} else if !types.IsBool(b.Controls[0].Type) {
				add("%s: if control %s is not bool", b, b.Controls[0])
			}
			if len(b.Succs) != 2 {
				add("%s: if block has %d succs, want 2", b, len(b.Succs))
			}
		case BlockReturn:
			if len(b.Succs) != 0 {
				add("%s: return block has %d succs, want 0", b, len(b.Succs))
			}
			checkReturn(f, b, add)
		default:
			add("%s: block has invalid kind", b)
		}

		for _, succ := range b.Succs {
			if !blockSet[succ] {
				add("%s: successor %s not in function", b, succ)
			} else if !containsBlock(succ.Preds, b) {
				add("%s: successor %s does not have %s as predecessor", b, succ, b)
			}
		}
		for _, pred := range b.Preds {
			if !blockSet[pred] {
				add("%s: predecessor %s not in function", b, pred)
			} else if !containsBlock(pred.Succs, b) {
				add("%s: predecessor %s does not have %s as successor", b, pred, b)
			}
		}

		for i, v := range b.Values {
			if v.Block != b {
				add("%s, %s: value Block pointer is %s", b, v, v.Block)
			}
			for j, arg := range v.Args {
				if arg == nil {
					add("%s, %s: arg[%d] is nil", b, v, j)
				} else if _, ok := valIdx[arg]; !ok {
					add("%s, %s: arg[%d] %s not found in function", b, v, j, arg)
				}
			}
			if v.Op == OpPhi {
				if len(v.Args) != len(b.Preds) {
					add("%s, %s: phi has %d args but block has %d preds", b, v, len(v.Args), len(b.Preds))
				}
				if i > 0 && b.Values[i-1].Op != OpPhi {
					add("%s, %s: phi after non-phi value", b, v)
				}
			}
			if msg := checkValue(v); msg != "" {
				add("%s, %s (%s): %s", b, v, v.Op, msg)
			}
		}
	}
	if errs != nil {
		return errs
	}

	// Dominance.
	ComputeDom(f)
	reachable := make(map[*Block]bool)
	for _, b := range ReversePostOrder(f) {
		reachable[b] = true
	}
	for _, b := range f.Blocks {
		if !reachable[b] {
			continue
		}
		for _, v := range b.Values {
			for i, arg := range v.Args {
				switch {
				case v.Op == OpPhi:
					if i < len(b.Preds) && !Dominates(arg.Block, b.Preds[i]) {
						add("%s, %s: phi arg[%d] %s does not dominate pred %s", b, v, i, arg, b.Preds[i])
					}
				case arg.Block == b:
					if valIdx[arg] >= valIdx[v] {
						add("%s, %s: arg[%d] %s used before definition", b, v, i, arg)
					}
				case !Dominates(arg.Block, b):
					add("%s, %s: arg[%d] %s defined in %s which does not dominate %s", b, v, i, arg, arg.Block, b)
				}
			}
		}
		for i, c := range b.Controls {
			if c != nil && c.Block != b && !Dominates(c.Block, b) {
				add("%s: control[%d] %s defined in %s which does not dominate %s", b, i, c, c.Block, b)
			}
		}
	}
	return errs
}

// checkReturn checks a return block against the function result.
func checkReturn(f *Func, b *Block, add func(string, ...interface{})) {
	var ret *Value
	if len(b.Controls) > 0 {
		ret = b.Controls[0]
	}
	hasResult := f.Sig != nil && !types.IsVoid(f.Sig.Result())
	switch {
	case hasResult && ret == nil:
		add("%s: missing return value", b)
	case !hasResult && ret != nil:
		add("%s: return value %s in void function", b, ret)
	}
}

// checkValue checks op-specific operands and aux fields and returns a
// description of the first problem found.
func checkValue(v *Value) string {
	nargs := func(n int) string {
		if len(v.Args) != n {
			return fmt.Sprintf("has %d args, want %d", len(v.Args), n)
		}
		return ""
	}

	info := v.Op.Info()
	switch {
	case v.Op <= OpInvalid || v.Op >= opCount:
		return "invalid op"
	case info.IsVoid && v.Type != nil:
		return "void op has a type"
	case !info.IsVoid && !info.IsCall && !info.Opaque && v.Type == nil:
		return "value has nil Type"
	}

	switch v.Op {
	case OpConst64, OpConstFloat, OpConstBool:
		return nargs(0)
	case OpConstString:
		if _, ok := v.Aux.(string); !ok {
			return "string constant without Aux string"
		}
		return nargs(0)
	case OpNeg64, OpNegF64, OpNot:
		return nargs(1)
	case OpArg, OpAlloca:
		return nargs(0)
	case OpLoad:
		if msg := nargs(1); msg != "" {
			return msg
		}
		if v.Args[0].Op != OpAlloca {
			return "load from non-alloca"
		}
	case OpStore:
		if msg := nargs(2); msg != "" {
			return msg
		}
		if v.Args[0].Op != OpAlloca {
			return "store to non-alloca"
		}
	case OpAlloc:
		if _, ok := v.Aux.(*layout.Class); !ok {
			return "alloc without layout"
		}
		return nargs(0)
	case OpLoadField:
		return nargs(1)
	case OpStoreField:
		return nargs(2)
	case OpSetDispatch:
		if _, ok := v.Aux.(*layout.Class); !ok {
			return "set-dispatch without layout"
		}
		return nargs(1)
	case OpCallDirect:
		if v.Callee() == nil {
			return "direct call without callee"
		}
	case OpDispatchTable:
		return nargs(1)
	case OpDispatchEntry:
		if msg := nargs(1); msg != "" {
			return msg
		}
		if v.Args[0].Op != OpDispatchTable {
			return "dispatch entry of non-table"
		}
		if _, ok := v.Type.(*types.Func); !ok {
			return "dispatch entry without signature"
		}
	case OpCallIndirect:
		if len(v.Args) < 2 || v.Args[0].Op != OpDispatchEntry {
			return "indirect call needs an entry and a receiver"
		}
	case OpPhi:
		// checked against the block
	default:
		// binary operators
		return nargs(2)
	}
	return ""
}

// containsBlock checks whether bs contains b.
func containsBlock(bs []*Block, b *Block) bool {
	for _, x := range bs {
		if x == b {
			return true
		}
	}
	return false
}
