package apperror

import "errors"

var (
	ErrGameFinished    = errors.New("game is already finished")
	ErrNotYourTurn     = errors.New("it's not your turn")
	ErrCellOccupied    = errors.New("cell is already occupied")
	ErrInvalidCell     = errors.New("invalid cell index")
	ErrInvalidMark     = errors.New("invalid mark")
	ErrInvalidState    = errors.New("no legal move on a terminal board")
	ErrMalformedRecord = errors.New("malformed remote move record")
)
