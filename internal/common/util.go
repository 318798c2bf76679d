package common

// WipeByteArray overwrites the contents of the provided byte slice with zeros.
// Used for passwords read from the terminal. A nil slice is ignored.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// CloneBytes returns an independent copy of b. A nil or empty input yields nil.
func CloneBytes(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
