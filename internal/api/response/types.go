package response

import (
	"github.com/mcoot/playerregistry/internal/model"
)

// Player represents a player in API responses
type Player struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	Title          string `json:"title"`
	Race           string `json:"race"`
	Profession     string `json:"profession"`
	Birthday       int64  `json:"birthday"` // unix milliseconds
	Banned         bool   `json:"banned"`
	Experience     int    `json:"experience"`
	Level          int    `json:"level"`
	UntilNextLevel int    `json:"untilNextLevel"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p *model.Player) Player {
	return Player{
		ID:             int64(p.ID),
		Name:           p.Name,
		Title:          p.Title,
		Race:           string(p.Race),
		Profession:     string(p.Profession),
		Birthday:       p.Birthday.UnixMilli(),
		Banned:         p.Banned,
		Experience:     p.Experience,
		Level:          p.Level,
		UntilNextLevel: p.UntilNextLevel,
	}
}

// PlayersFromModel converts a slice of players, never returning nil
func PlayersFromModel(players []*model.Player) []Player {
	result := make([]Player, len(players))
	for i, p := range players {
		result[i] = PlayerFromModel(p)
	}
	return result
}

// Health is the body of the health endpoint
type Health struct {
	Status string `json:"status"`
}
