package shuffle

import "math/bits"

// MaxLFSRLength is the longest list LFSR can permute
const MaxLFSRLength = 1<<24 - 1

// taps holds a maximal-period Galois feedback mask per register width
var taps = [...]int{
	1: 0x1, 2: 0x3, 3: 0x6, 4: 0xC, 5: 0x14, 6: 0x30, 7: 0x60, 8: 0xB8,
	9: 0x110, 10: 0x240, 11: 0x500, 12: 0x829, 13: 0x100D, 14: 0x2015, 15: 0x6000, 16: 0xD008,
	17: 0x12000, 18: 0x20400, 19: 0x40023, 20: 0x90000, 21: 0x140000, 22: 0x300000, 23: 0x420000, 24: 0xE10000,
}

// LFSR visits every index of the list exactly once per pass in an order
// derived from a Galois linear feedback shift register.
//
// The register of width bits.Len(length) cycles through every value in
// [1, 2^width); values above length are skipped. The seed rotates the
// mapping from register to index. A pass begins wherever the index was last
// placed and ends when the register comes back to that point.
type LFSR struct {
	length int
	seed   int

	width    int
	mask     int
	offset   int
	register int
	origin   int
}

// NewLFSR creates a pseudo-random algorithm for an empty list
func NewLFSR() *LFSR {
	l := &LFSR{register: 1, origin: 1}
	l.recalc()
	return l
}

func (l *LFSR) recalc() {
	if l.length <= 0 {
		l.width, l.mask, l.offset = 0, 0, 0
		return
	}
	l.width = bits.Len(uint(l.length))
	l.mask = taps[l.width]
	l.offset = MathMod(l.seed, l.length)
}

// place points the register at index and starts a new pass there
func (l *LFSR) place(index int) {
	if l.length <= 0 {
		l.register = 1
	} else {
		l.register = MathMod(index-l.offset, l.length) + 1
	}
	l.origin = l.register
}

func (l *LFSR) Index() int {
	if l.length <= 0 {
		return 0
	}
	return MathMod(l.register-1+l.offset, l.length)
}

// SetIndex moves to index and starts a new pass from it
func (l *LFSR) SetIndex(index int) {
	l.place(index)
}

func (l *LFSR) Length() int { return l.length }

// SetLength keeps the current index (wrapped into range) and starts a new
// pass. Lengths above MaxLFSRLength are clamped.
func (l *LFSR) SetLength(length int) {
	index := l.Index()
	l.length = min(max(0, length), MaxLFSRLength)
	l.recalc()
	l.place(index)
}

func (l *LFSR) Seed() int { return l.seed }

// SetSeed derives a new permutation that continues from the current index
func (l *LFSR) SetSeed(seed int) {
	index := l.Index()
	l.seed = seed
	l.recalc()
	l.place(index)
}

func (l *LFSR) forward() {
	lsb := l.register & 1
	l.register >>= 1
	if lsb != 0 {
		l.register ^= l.mask
	}
}

func (l *LFSR) backward() {
	if l.register&(1<<(l.width-1)) != 0 {
		l.register = ((l.register ^ l.mask) << 1) | 1
	} else {
		l.register <<= 1
	}
}

func (l *LFSR) Next() bool {
	if l.length <= 0 {
		return false
	}
	l.forward()
	for l.register > l.length {
		l.forward()
	}
	return l.register == l.origin
}

func (l *LFSR) Prev() bool {
	if l.length <= 0 {
		return false
	}
	ended := l.register == l.origin
	l.backward()
	for l.register > l.length {
		l.backward()
	}
	return ended
}
