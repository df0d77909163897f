package render

import "github.com/rocketscienceinc/markboard-backend/internal/entity"

const gridCols = 3

// Cell - one render descriptor: everything a client needs to draw a single grid
// cell, with no state of its own.
type Cell struct {
	Index  int    `json:"index"`
	Row    int    `json:"row"`
	Col    int    `json:"col"`
	Symbol string `json:"symbol"`
	Empty  bool   `json:"empty"`
}

// Cells - maps a board value to its nine cell descriptors in index order.
func Cells(board entity.Board) []Cell {
	cells := make([]Cell, len(board))
	for i, symbol := range board {
		cells[i] = Cell{
			Index:  i,
			Row:    i / gridCols,
			Col:    i % gridCols,
			Symbol: symbol,
			Empty:  symbol == entity.EmptyCell,
		}
	}

	return cells
}
