package cpu

// SignExtend widens the low bitCount bits of value into a full 16-bit
// two's-complement word by replicating bit bitCount-1 upward. A bitCount of
// zero means no bit carries a sign, and value is returned unchanged.
func SignExtend(value uint16, bitCount uint16) uint16 {
	if bitCount == 0 {
		return value
	}

	if (value>>(bitCount-1))&1 != 0 {
		value |= 0xFFFF << bitCount
	}

	return value
}
