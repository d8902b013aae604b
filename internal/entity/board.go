package entity

import (
	"fmt"
	"strings"

	"github.com/rocketscienceinc/tictactoe/internal/apperror"
)

// Mark is the symbol a player puts on the board.
type Mark string

const (
	MarkX     Mark = "X"
	MarkO     Mark = "O"
	EmptyCell Mark = ""
)

const BoardSize = 9

// Board is the 3x3 grid in row-major order. It is a value type: Place returns a new board.
type Board [BoardSize]Mark

// ParseMark accepts "x"/"X"/"o"/"O".
func ParseMark(value string) (Mark, error) {
	mark := Mark(strings.ToUpper(strings.TrimSpace(value)))
	if !mark.IsPlayer() {
		return EmptyCell, fmt.Errorf("%w: %q", apperror.ErrInvalidMark, value)
	}

	return mark, nil
}

// IsPlayer reports whether the mark belongs to one of the two players.
func (that Mark) IsPlayer() bool {
	return that == MarkX || that == MarkO
}

func (that Mark) Opponent() Mark {
	switch that {
	case MarkX:
		return MarkO
	case MarkO:
		return MarkX
	default:
		return EmptyCell
	}
}

func (that Mark) String() string {
	if that == EmptyCell {
		return "-"
	}
	return string(that)
}

func ValidCell(cell int) bool {
	return cell >= 0 && cell < BoardSize
}

func (that Board) IsEmpty(cell int) bool {
	return that[cell] == EmptyCell
}

// Place returns a copy of the board with mark written into cell.
func (that Board) Place(cell int, mark Mark) Board {
	that[cell] = mark
	return that
}

// Count returns the number of cells holding mark.
func (that Board) Count(mark Mark) int {
	count := 0
	for _, cell := range that {
		if cell == mark {
			count++
		}
	}
	return count
}

func (that Board) String() string {
	var sb strings.Builder
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			if col > 0 {
				sb.WriteString(" ")
			}
			sb.WriteString(that[row*3+col].String())
		}
		if row < 2 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
