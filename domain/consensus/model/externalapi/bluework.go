package externalapi

import "math/big"

// BlueWork is an unsigned 256-bit accumulator of proof-of-work, summed over
// a block's blue set. It wraps math/big.Int because the domain requires
// genuine 256-bit headroom (blue work accumulates across the whole chain)
// that no fixed-width machine integer provides.
type BlueWork struct {
	value *big.Int
}

// NewBlueWork wraps v as a BlueWork. v is not mutated by later operations.
func NewBlueWork(v *big.Int) *BlueWork {
	return &BlueWork{value: new(big.Int).Set(v)}
}

// ZeroBlueWork returns a BlueWork of value zero.
func ZeroBlueWork() *BlueWork {
	return NewBlueWork(big.NewInt(0))
}

// BigInt returns the underlying value. The caller must not mutate it.
func (w *BlueWork) BigInt() *big.Int {
	if w == nil {
		return big.NewInt(0)
	}
	return w.value
}

// Add returns a new BlueWork holding w+other.
func (w *BlueWork) Add(other *BlueWork) *BlueWork {
	return NewBlueWork(new(big.Int).Add(w.BigInt(), other.BigInt()))
}

// Clone returns a deep copy.
func (w *BlueWork) Clone() *BlueWork {
	if w == nil {
		return nil
	}
	return NewBlueWork(w.value)
}

// Equal reports value equality.
func (w *BlueWork) Equal(other *BlueWork) bool {
	if w == nil || other == nil {
		return w == other
	}
	return w.BigInt().Cmp(other.BigInt()) == 0
}

// Cmp compares two BlueWork values the way big.Int.Cmp does.
func (w *BlueWork) Cmp(other *BlueWork) int {
	return w.BigInt().Cmp(other.BigInt())
}

// Bytes returns the big-endian byte representation, left-padded to 32 bytes.
func (w *BlueWork) Bytes() [32]byte {
	var out [32]byte
	b := w.BigInt().Bytes()
	copy(out[32-len(b):], b)
	return out
}

// String returns the hex representation of the value.
func (w *BlueWork) String() string {
	return w.BigInt().Text(16)
}

// GobEncode implements gob.GobEncoder so BlueWork (which wraps an
// unexported *big.Int) can be stored via the generic gob-based datastore
// encoders in domain/consensus/database/serialization.
func (w *BlueWork) GobEncode() ([]byte, error) {
	return w.BigInt().GobEncode()
}

// GobDecode implements gob.GobDecoder.
func (w *BlueWork) GobDecode(data []byte) error {
	v := new(big.Int)
	if err := v.GobDecode(data); err != nil {
		return err
	}
	w.value = v
	return nil
}
