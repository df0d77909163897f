package entity

import (
	"fmt"

	"github.com/rocketscienceinc/markboard-backend/internal/apperror"
)

const (
	MarkX = "X"

	EmptyCell = ""
)

// Board - a 3x3 mark grid in row-major order: cells 0,1,2 form the top row,
// 3,4,5 the middle one, 6,7,8 the bottom one.
type Board [9]string

func NewBoard() Board {
	return Board{EmptyCell, EmptyCell, EmptyCell, EmptyCell, EmptyCell, EmptyCell, EmptyCell, EmptyCell, EmptyCell}
}

// Mark - writes the X marker into the given cell and returns the updated board.
// The receiver is left untouched, the caller keeps the returned value as the new
// current state. Marking a cell that already holds a marker overwrites it.
func (that Board) Mark(cell int) (Board, error) {
	if cell < 0 || cell >= len(that) {
		return that, fmt.Errorf("%w: cell %d", apperror.ErrCellOutOfRange, cell)
	}

	that[cell] = MarkX

	return that, nil
}
