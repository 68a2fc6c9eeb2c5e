package model

// Game identifies one of the tracked games
type Game string

const (
	GameTetris Game = "tetris"
	GameCod    Game = "cod"
)

// Games lists every tracked game in display order
var Games = []Game{GameTetris, GameCod}

// ParseGame validates a game name taken from a URL segment
func ParseGame(name string) (Game, error) {
	switch Game(name) {
	case GameTetris, GameCod:
		return Game(name), nil
	default:
		return "", ErrUnknownGame
	}
}

func (g Game) String() string {
	return string(g)
}

// Column returns the usuarios column holding the game's play counter
func (g Game) Column() string {
	return string(g) + "_count"
}

// Label returns the display name of the game
func (g Game) Label() string {
	switch g {
	case GameTetris:
		return "Tetris"
	case GameCod:
		return "Call of Duty"
	default:
		return string(g)
	}
}

// PlayShare returns each game's percentage of the total plays.
// Both are 0 when nothing has been played; otherwise they sum to 100.
func PlayShare(tetris, cod int) (tetrisPct, codPct float64) {
	total := tetris + cod
	if total == 0 {
		return 0, 0
	}
	tetrisPct = float64(tetris) / float64(total) * 100
	return tetrisPct, 100 - tetrisPct
}
