package game

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseCoordinate accepts either the letter+number form ("B3": row B, column
// 3) or a 0-based numeric pair ("2,1" or "2 1", x first) and checks it
// against a board of the given size.
func ParseCoordinate(s string, size int) (Coordinate, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return Coordinate{}, fmt.Errorf("%w: %q", ErrInvalidCoordinate, s)
	}

	var c Coordinate
	if fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' }); len(fields) == 2 {
		x, errX := strconv.Atoi(fields[0])
		y, errY := strconv.Atoi(fields[1])
		if errX != nil || errY != nil {
			return Coordinate{}, fmt.Errorf("%w: %q", ErrInvalidCoordinate, s)
		}
		c = Coordinate{X: x, Y: y}
	} else {
		row := strings.ToUpper(s[:1])[0]
		if row < 'A' || row > 'Z' {
			return Coordinate{}, fmt.Errorf("%w: invalid row %q", ErrInvalidCoordinate, s[:1])
		}
		col, err := strconv.Atoi(s[1:])
		if err != nil {
			return Coordinate{}, fmt.Errorf("%w: invalid column %q", ErrInvalidCoordinate, s[1:])
		}
		c = Coordinate{X: col - 1, Y: int(row - 'A')}
	}

	if c.X < 0 || c.X >= size || c.Y < 0 || c.Y >= size {
		return Coordinate{}, fmt.Errorf("%w: %s", ErrOutOfBounds, s)
	}
	return c, nil
}

// FormatCoordinate converts (x, y) to the letter+number form, e.g. (2, 1) -> "B3".
func FormatCoordinate(c Coordinate) string {
	return fmt.Sprintf("%c%d", 'A'+c.Y, c.X+1)
}
