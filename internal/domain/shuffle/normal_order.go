package shuffle

// NormalOrder walks the list front to back
type NormalOrder struct {
	index  int
	length int
	seed   int
}

// NewNormalOrder creates an in-order algorithm for an empty list
func NewNormalOrder() *NormalOrder {
	return &NormalOrder{}
}

func (n *NormalOrder) Index() int         { return n.index }
func (n *NormalOrder) SetIndex(index int) { n.index = index }
func (n *NormalOrder) Length() int        { return n.length }
func (n *NormalOrder) Seed() int          { return n.seed }

// SetSeed is stored for symmetry with LFSR; the order ignores it.
func (n *NormalOrder) SetSeed(seed int) { n.seed = seed }

func (n *NormalOrder) SetLength(length int) {
	n.length = max(0, length)
}

func (n *NormalOrder) Next() bool {
	if n.length <= 0 {
		n.index = 0
		return false
	}
	ended := n.index+1 >= n.length
	n.index = MathMod(n.index+1, n.length)
	return ended
}

func (n *NormalOrder) Prev() bool {
	if n.length <= 0 {
		n.index = 0
		return false
	}
	ended := n.index <= 0
	n.index = MathMod(n.index-1, n.length)
	return ended
}
