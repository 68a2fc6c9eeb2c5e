package model

// RankOperation is an admin adjustment to a user's ranking
type RankOperation string

const (
	RankIncrement RankOperation = "increment"
	RankDecrement RankOperation = "decrement"
)

// Delta returns the ranking change for the operation.
// Unrecognized operations change nothing.
func (op RankOperation) Delta() int {
	switch op {
	case RankIncrement:
		return 1
	case RankDecrement:
		return -1
	default:
		return 0
	}
}
