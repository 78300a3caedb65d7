package redis

import (
	"fmt"

	"github.com/mcoot/playerregistry/internal/model"
)

// keys builds Redis keys under a common prefix
type keys struct {
	prefix string
}

// player returns the key holding a Player as JSON
func (k keys) player(id model.PlayerID) string {
	return fmt.Sprintf("%s:player:%d", k.prefix, id)
}

// sequence returns the key of the ID counter
func (k keys) sequence() string {
	return fmt.Sprintf("%s:seq", k.prefix)
}

// index returns the key of the ZSET of all player IDs, scored by ID
func (k keys) index() string {
	return fmt.Sprintf("%s:idx:players", k.prefix)
}
