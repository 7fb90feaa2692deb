package game

import (
	"bufio"
	"fmt"
	"io"
)

// Render writes the board as text. Unhit ship cells are shown only when
// reveal is set, so the same function draws both your own board and the
// enemy's.
//
//	     1  2  3  4
//	A    .  S  S  .
//	B    X  o  .  .
func Render(w io.Writer, b *Board, reveal bool) error {
	bw := bufio.NewWriter(w)
	fmt.Fprint(bw, "   ")
	for x := 0; x < b.Size; x++ {
		fmt.Fprintf(bw, " %2d", x+1)
	}
	fmt.Fprintln(bw)
	for y := 0; y < b.Size; y++ {
		fmt.Fprintf(bw, "%c  ", 'A'+y)
		for x := 0; x < b.Size; x++ {
			fmt.Fprintf(bw, "  %c", cellIcon(b.At(Coordinate{X: x, Y: y}), reveal))
		}
		fmt.Fprintln(bw)
	}
	fmt.Fprintf(bw, "Remaining ship cells: %d\n", b.RemainingShipCells())
	return bw.Flush()
}

func cellIcon(c Cell, reveal bool) byte {
	switch c {
	case Hit:
		return 'X'
	case Miss:
		return 'o'
	case Occupied:
		if reveal {
			return 'S'
		}
	}
	return '.'
}
