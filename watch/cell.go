package watch

// AttrMask holds per-cell attribute flags. Rendering to a concrete
// terminal style happens only at draw time.
type AttrMask uint8

const (
	// AttrNormal is the zero attribute, rendered with the default style.
	AttrNormal AttrMask = 0
	// AttrChanged marks a cell whose rune differs from the previous run.
	AttrChanged AttrMask = 1 << 0
)

// Cell represents a single character cell of command output, with a rune
// and attribute flags. The second cell of a wide rune has Ch == 0.
type Cell struct {
	Ch   rune
	Attr AttrMask
}
