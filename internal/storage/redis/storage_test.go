package redis

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/playerregistry/internal/model"
	"github.com/mcoot/playerregistry/internal/storage"
	"github.com/mcoot/playerregistry/internal/storage/storagetest"
)

type StorageSuite struct {
	storagetest.Suite
	mini *miniredis.Miniredis
}

func TestStorageSuite(t *testing.T) {
	s := new(StorageSuite)
	s.NewStorage = func() storage.Storage {
		s.mini = miniredis.RunT(s.T())
		client := redis.NewClient(&redis.Options{
			Addr: s.mini.Addr(),
		})
		return NewWithClient(client, DefaultConfig())
	}
	suite.Run(t, s)
}

func (s *StorageSuite) TestKeyLayout() {
	player := storagetest.NewPlayer("Alice", 0, 0)
	s.Require().NoError(s.Storage.CreatePlayer(s.Ctx, player))

	s.True(s.mini.Exists("players:player:1"))
	s.Equal("1", s.mustGet("players:seq"))

	members, err := s.mini.ZMembers("players:idx:players")
	s.Require().NoError(err)
	s.Equal([]string{"1"}, members)
}

func (s *StorageSuite) TestDeleteRemovesIndexEntry() {
	player := storagetest.NewPlayer("Alice", 0, 0)
	s.Require().NoError(s.Storage.CreatePlayer(s.Ctx, player))
	s.Require().NoError(s.Storage.DeletePlayer(s.Ctx, player.ID))

	s.False(s.mini.Exists("players:player:1"))
	s.False(s.mini.Exists("players:idx:players"))
}

func (s *StorageSuite) TestListSkipsDanglingIndexEntries() {
	a := storagetest.NewPlayer("A", 0, 0)
	b := storagetest.NewPlayer("B", 0, 0)
	s.Require().NoError(s.Storage.CreatePlayer(s.Ctx, a))
	s.Require().NoError(s.Storage.CreatePlayer(s.Ctx, b))

	// Entity removed out from under the index
	s.mini.Del("players:player:1")

	players, err := s.Storage.ListPlayers(s.Ctx, model.PageRequest{Size: 10, Order: model.OrderID})
	s.Require().NoError(err)
	s.Require().Len(players, 1)
	s.Equal(b.ID, players[0].ID)
}

func (s *StorageSuite) TestUnavailableServer() {
	s.mini.Close()

	_, err := s.Storage.GetPlayer(s.Ctx, 1)
	s.Error(err)
	s.NotErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) mustGet(key string) string {
	val, err := s.mini.Get(key)
	s.Require().NoError(err)
	return val
}
