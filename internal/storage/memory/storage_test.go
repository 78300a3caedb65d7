package memory

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/playerregistry/internal/model"
	"github.com/mcoot/playerregistry/internal/storage"
	"github.com/mcoot/playerregistry/internal/storage/storagetest"
)

type StorageSuite struct {
	storagetest.Suite
}

func TestStorageSuite(t *testing.T) {
	s := new(StorageSuite)
	s.NewStorage = func() storage.Storage { return New() }
	suite.Run(t, s)
}

func (s *StorageSuite) TestConcurrentCreatesGetDistinctIDs() {
	const workers = 20

	var wg sync.WaitGroup
	results := make([]created, workers)
	for i := range workers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p := storagetest.NewPlayer("P", 0, 0)
			err := s.Storage.CreatePlayer(s.Ctx, p)
			results[i] = created{id: p.ID, err: err}
		}(i)
	}
	wg.Wait()

	seen := make(map[model.PlayerID]bool)
	for _, p := range results {
		s.Require().NoError(p.err)
		s.False(seen[p.id], "duplicate id %d", p.id)
		seen[p.id] = true
	}

	count, err := s.Storage.CountPlayers(s.Ctx)
	s.Require().NoError(err)
	s.Equal(int64(workers), count)
}

type created struct {
	id  model.PlayerID
	err error
}
