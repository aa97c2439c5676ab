// Package swap exchanges two integers in the two ways Go allows:
// through pointers to the caller's variables, or by returning the reordered pair.
package swap

import (
	"fmt"
	"io"
)

// ByRef swaps the values stored at a and b using a temporary.
// The change is visible through the caller's variables.
func ByRef(a, b *int) {
	tmp := *a
	*a = *b
	*b = tmp
}

// ByVal returns its two arguments swapped. The caller must rebind
// its own variables to observe the change.
func ByVal(a, b int) (int, int) {
	a, b = b, a
	return a, b
}

// Demo prints the pair (10, 8) before swapping, after ByRef, and after
// rebinding to the result of ByVal.
func Demo(w io.Writer) error {
	if _, err := fmt.Fprintln(w, "Hello, world!"); err != nil {
		return err
	}
	a, b := 10, 8
	if err := printPair(w, a, b); err != nil {
		return err
	}
	ByRef(&a, &b)
	if err := printPair(w, a, b); err != nil {
		return err
	}
	a, b = ByVal(a, b)
	return printPair(w, a, b)
}

func printPair(w io.Writer, a, b int) error {
	_, err := fmt.Fprintf(w, "a = %d, b = %d\n", a, b)
	return err
}
