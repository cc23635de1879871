package externalapi

import "fmt"

func errInvalidHashLength(length int) error {
	return fmt.Errorf("invalid hash length %d, expected %d", length, DomainHashSize)
}
