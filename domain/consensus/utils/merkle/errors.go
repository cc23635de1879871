package merkle

import "fmt"

func errIndexOutOfRange(i, numLeaves int) error {
	return fmt.Errorf("leaf index %d out of range [0, %d)", i, numLeaves)
}
