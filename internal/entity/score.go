package entity

// Score counts wins per mark across games. It outlives any single Game.
type Score struct {
	X int `json:"x"`
	O int `json:"o"`
}

func (that *Score) Record(winner Mark) {
	switch winner {
	case MarkX:
		that.X++
	case MarkO:
		that.O++
	}
}

func (that Score) Wins(mark Mark) int {
	switch mark {
	case MarkX:
		return that.X
	case MarkO:
		return that.O
	default:
		return 0
	}
}
