package codec

// ConstantTimeEquals reports whether a and b hold the same bytes.
//
// Slices of different length return false immediately; only the length is
// leaked. For equal lengths every position is visited and the differences are
// folded into one accumulator, so the running time does not depend on where
// the first mismatch is.
func ConstantTimeEquals(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	var acc byte
	for i := range a {
		acc |= a[i] ^ b[i]
	}
	return acc == 0
}
