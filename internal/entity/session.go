package entity

// Session - the view context that owns one board. It is created when a view
// first connects and deleted when the view leaves, so the board lives exactly
// as long as the session does.
type Session struct {
	ID    string `json:"id"`
	Board Board  `json:"board"`
}

func NewSession(id string) *Session {
	return &Session{
		ID:    id,
		Board: NewBoard(),
	}
}

// MarkCell - marks a single cell on the session board. On success the updated
// board becomes the current one, on error the current board stays as it was.
func (that *Session) MarkCell(cell int) error {
	board, err := that.Board.Mark(cell)
	if err != nil {
		return err
	}

	that.Board = board

	return nil
}
