package interp

import (
	"fmt"

	"github.com/you-not-fish/kyanite/internal/rtabi"
)

// Extern is the host implementation of an extern function.
type Extern func(m *Machine, args []Value) (Value, error)

var hostExterns = map[string]Extern{
	rtabi.FnPrintln:  hostPrintln,
	rtabi.FnPrintInt: hostPrintInt,
}

// hostPrintln writes its string argument and a newline.
func hostPrintln(m *Machine, args []Value) (Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("println: got %d arguments, want 1", len(args))
	}
	s, ok := args[0].(string)
	if !ok {
		return nil, fmt.Errorf("println: argument is %T, want string", args[0])
	}
	_, err := fmt.Fprintln(m.out, s)
	return nil, err
}

// hostPrintInt writes its integer argument in decimal and a newline.
func hostPrintInt(m *Machine, args []Value) (Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("print_int: got %d arguments, want 1", len(args))
	}
	n, ok := args[0].(int64)
	if !ok {
		return nil, fmt.Errorf("print_int: argument is %T, want int", args[0])
	}
	_, err := fmt.Fprintln(m.out, n)
	return nil, err
}
