package layout

import (
	"fmt"
	"io"
)

// Fprint writes the text form of every layout to w.
func Fprint(w io.Writer, ls *Layouts) {
	for _, l := range ls.order {
		FprintClass(w, l)
	}
}

// FprintClass writes one layout:
//
//	class Y : X size=32 desc=ii
//	  field x int @16
//	  field y int @24
//	  slot 0 get -> Y.get
func FprintClass(w io.Writer, l *Class) {
	fmt.Fprintf(w, "class %s", l.Name())
	if parent := l.Class.Parent(); parent != nil {
		fmt.Fprintf(w, " : %s", parent.Name())
	}
	fmt.Fprintf(w, " size=%d desc=%s\n", l.Size, l.Desc)
	for _, f := range l.Fields {
		fmt.Fprintf(w, "  field %s %s @%d\n", f.Name(), f.Var.Type(), f.Offset)
	}
	for _, e := range l.Dispatch {
		impl := "-"
		if e.Impl != nil {
			impl = e.Impl.FullName()
		}
		fmt.Fprintf(w, "  slot %d %s -> %s\n", e.Slot, e.Name, impl)
	}
}
