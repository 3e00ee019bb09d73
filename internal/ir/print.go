package ir

import (
	"fmt"
	"io"
	"strings"

	"github.com/you-not-fish/kyanite/internal/layout"
	"github.com/you-not-fish/kyanite/internal/types"
)

// Fprint writes the text form of a program to w: class layouts with
// their dispatch tables, extern declarations, then every function.
//
// Format:
//
//	class Y : X size=40 desc=ii
//	  field x int @16
//	  field y int @24
//	  slot 0 get -> Y.get
//	extern println(s str)
//
//	func main():
//	  b0: (entry)
//	    v0 = Alloc <Y> [40] {Y}
//	    ...
//	    Return
func Fprint(w io.Writer, p *Program) {
	for _, l := range p.Layouts.Classes() {
		layout.FprintClass(w, l)
	}
	for _, ext := range p.Externs {
		fmt.Fprintf(w, "extern %s%s\n", ext.Name(), paramList(ext.Signature()))
	}
	for _, f := range p.Funcs {
		fmt.Fprintln(w)
		FprintFunc(w, f)
	}
}

// FprintFunc writes the text form of a function to w.
func FprintFunc(w io.Writer, f *Func) {
	fmt.Fprintf(w, "func %s", f.Name)
	if f.Sig != nil {
		fmt.Fprint(w, paramList(f.Sig))
	}
	fmt.Fprintf(w, ":\n")

	for _, b := range f.Blocks {
		fprintBlock(w, b, f)
	}
}

// paramList formats "(a int, b str) int".
func paramList(sig *types.Func) string {
	var sb strings.Builder
	sb.WriteByte('(')
	for i, p := range sig.Params() {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%s %s", p.Name(), p.Type())
	}
	sb.WriteByte(')')
	if r := sig.Result(); !types.IsVoid(r) {
		fmt.Fprintf(&sb, " %s", r)
	}
	return sb.String()
}

// fprintBlock writes a single block to w.
func fprintBlock(w io.Writer, b *Block, f *Func) {
	label := ""
	if b == f.Entry {
		label = " (entry)"
	}

	predsStr := ""
	if len(b.Preds) > 0 {
		preds := make([]string, len(b.Preds))
		for i, p := range b.Preds {
			preds[i] = p.String()
		}
		predsStr = " <- " + strings.Join(preds, " ")
	}

	fmt.Fprintf(w, "  %s:%s%s\n", b, label, predsStr)
	for _, v := range b.Values {
		fmt.Fprintf(w, "    %s\n", formatValue(v))
	}
	fmt.Fprintf(w, "    %s\n", formatTerminator(b))
}

// formatValue formats a value as a string.
func formatValue(v *Value) string {
	var sb strings.Builder

	if v.Op.IsVoid() {
		sb.WriteString(v.Op.String())
	} else {
		fmt.Fprintf(&sb, "v%d = %s", v.ID, v.Op)
	}

	if v.Type != nil && !types.IsVoid(v.Type) {
		fmt.Fprintf(&sb, " <%s>", v.Type)
	}

	switch v.Op {
	case OpConst64, OpConstBool, OpArg, OpLoadField, OpStoreField, OpDispatchEntry, OpAlloc:
		fmt.Fprintf(&sb, " [%d]", v.AuxInt)
	case OpConstFloat:
		fmt.Fprintf(&sb, " [%g]", v.AuxFloat)
	}

	switch {
	case v.Op == OpConstString:
		fmt.Fprintf(&sb, " {%q}", v.Aux)
	case v.Aux != nil:
		fmt.Fprintf(&sb, " {%s}", formatAux(v.Aux))
	}

	for _, arg := range v.Args {
		fmt.Fprintf(&sb, " v%d", arg.ID)
	}

	return sb.String()
}

// formatTerminator formats a block terminator.
func formatTerminator(b *Block) string {
	switch b.Kind {
	case BlockPlain:
		if len(b.Succs) > 0 {
			return fmt.Sprintf("Plain -> %s", b.Succs[0])
		}
		return "Plain"
	case BlockIf:
		if len(b.Controls) > 0 && len(b.Succs) >= 2 {
			return fmt.Sprintf("If v%d -> %s %s", b.Controls[0].ID, b.Succs[0], b.Succs[1])
		}
		return "If (malformed)"
	case BlockReturn:
		if len(b.Controls) > 0 && b.Controls[0] != nil {
			return fmt.Sprintf("Return v%d", b.Controls[0].ID)
		}
		return "Return"
	default:
		return "???"
	}
}

// Sprint returns the text form of a program.
func Sprint(p *Program) string {
	var sb strings.Builder
	Fprint(&sb, p)
	return sb.String()
}

// SprintFunc returns the text form of a function.
func SprintFunc(f *Func) string {
	var sb strings.Builder
	FprintFunc(&sb, f)
	return sb.String()
}

// formatAux formats an Aux value for display.
func formatAux(aux interface{}) string {
	switch a := aux.(type) {
	case *types.FuncObj:
		return a.FullName()
	case *layout.Class:
		return a.Name()
	case string:
		return a
	default:
		return fmt.Sprintf("%v", aux)
	}
}
