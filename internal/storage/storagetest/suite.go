// Package storagetest holds a conformance suite run against every storage backend.
package storagetest

import (
	"context"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/playerregistry/internal/model"
	"github.com/mcoot/playerregistry/internal/storage"
)

// Suite exercises the storage contract. Backends embed it and set NewStorage,
// which must return an empty store for each test.
type Suite struct {
	suite.Suite
	NewStorage func() storage.Storage

	Storage storage.Storage
	Ctx     context.Context
}

func (s *Suite) SetupTest() {
	s.Storage = s.NewStorage()
	s.Ctx = context.Background()
}

func (s *Suite) TearDownTest() {
	if s.Storage != nil {
		_ = s.Storage.Close()
	}
}

// Day returns midnight UTC of the given date
func Day(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// NewPlayer builds a valid player with the given name and experience
func NewPlayer(name string, experience, level int) *model.Player {
	return &model.Player{
		Name:           name,
		Title:          "Wanderer",
		Race:           model.RaceHuman,
		Profession:     model.ProfessionWarrior,
		Birthday:       Day(2005, time.June, 15),
		Experience:     experience,
		Level:          level,
		UntilNextLevel: 100,
	}
}

func (s *Suite) create(players ...*model.Player) []*model.Player {
	for _, p := range players {
		s.Require().NoError(s.Storage.CreatePlayer(s.Ctx, p))
	}
	return players
}

func ids(players []*model.Player) []model.PlayerID {
	result := make([]model.PlayerID, len(players))
	for i, p := range players {
		result[i] = p.ID
	}
	return result
}

func names(players []*model.Player) []string {
	result := make([]string, len(players))
	for i, p := range players {
		result[i] = p.Name
	}
	return result
}

func page(number, size int, order model.PlayerOrder) model.PageRequest {
	return model.PageRequest{Number: number, Size: size, Order: order}
}

// Player tests

func (s *Suite) TestCreateAssignsIncreasingIDs() {
	a, b := NewPlayer("Alice", 0, 0), NewPlayer("Bob", 0, 0)
	s.create(a, b)

	s.Positive(int64(a.ID))
	s.Greater(b.ID, a.ID)
}

func (s *Suite) TestCreateAndGetPlayer() {
	player := &model.Player{
		Name:           "Gimli",
		Title:          "Lord of the Glittering Caves",
		Race:           model.RaceDwarf,
		Profession:     model.ProfessionWarrior,
		Birthday:       time.Date(2010, time.March, 4, 5, 6, 7, 890_000_000, time.UTC),
		Banned:         true,
		Experience:     5000,
		Level:          9,
		UntilNextLevel: 500,
	}
	s.create(player)

	retrieved, err := s.Storage.GetPlayer(s.Ctx, player.ID)
	s.Require().NoError(err)
	s.Equal(player.ID, retrieved.ID)
	s.Equal(player.Name, retrieved.Name)
	s.Equal(player.Title, retrieved.Title)
	s.Equal(player.Race, retrieved.Race)
	s.Equal(player.Profession, retrieved.Profession)
	s.Equal(player.Birthday.UnixMilli(), retrieved.Birthday.UnixMilli())
	s.True(retrieved.Banned)
	s.Equal(5000, retrieved.Experience)
	s.Equal(9, retrieved.Level)
	s.Equal(500, retrieved.UntilNextLevel)
}

func (s *Suite) TestGetPlayerNotFound() {
	_, err := s.Storage.GetPlayer(s.Ctx, 999)
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *Suite) TestSavePlayer() {
	player := NewPlayer("Alice", 0, 0)
	s.create(player)

	player.Name = "Alicia"
	player.Experience = 300
	player.Level = 2
	s.Require().NoError(s.Storage.SavePlayer(s.Ctx, player))

	retrieved, err := s.Storage.GetPlayer(s.Ctx, player.ID)
	s.Require().NoError(err)
	s.Equal("Alicia", retrieved.Name)
	s.Equal(300, retrieved.Experience)
	s.Equal(2, retrieved.Level)
}

func (s *Suite) TestSavePlayerNotFound() {
	player := NewPlayer("Ghost", 0, 0)
	player.ID = 12345

	err := s.Storage.SavePlayer(s.Ctx, player)
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *Suite) TestGetReturnsCopy() {
	player := NewPlayer("Alice", 0, 0)
	s.create(player)

	first, err := s.Storage.GetPlayer(s.Ctx, player.ID)
	s.Require().NoError(err)
	first.Name = "Mallory"

	second, err := s.Storage.GetPlayer(s.Ctx, player.ID)
	s.Require().NoError(err)
	s.Equal("Alice", second.Name)
}

func (s *Suite) TestDeletePlayer() {
	player := NewPlayer("Alice", 0, 0)
	s.create(player)

	s.Require().NoError(s.Storage.DeletePlayer(s.Ctx, player.ID))

	_, err := s.Storage.GetPlayer(s.Ctx, player.ID)
	s.ErrorIs(err, model.ErrPlayerNotFound)

	count, err := s.Storage.CountPlayers(s.Ctx)
	s.Require().NoError(err)
	s.Zero(count)
}

func (s *Suite) TestIDsAreNotReused() {
	first := NewPlayer("Alice", 0, 0)
	s.create(first)
	s.Require().NoError(s.Storage.DeletePlayer(s.Ctx, first.ID))

	second := NewPlayer("Bob", 0, 0)
	s.create(second)
	s.Greater(second.ID, first.ID)
}

// Query tests

func (s *Suite) TestCountPlayers() {
	count, err := s.Storage.CountPlayers(s.Ctx)
	s.Require().NoError(err)
	s.Zero(count)

	s.create(NewPlayer("A", 0, 0), NewPlayer("B", 0, 0), NewPlayer("C", 0, 0))

	count, err = s.Storage.CountPlayers(s.Ctx)
	s.Require().NoError(err)
	s.Equal(int64(3), count)
}

func (s *Suite) TestListPlayersPagesByID() {
	created := s.create(
		NewPlayer("A", 0, 0), NewPlayer("B", 0, 0), NewPlayer("C", 0, 0),
		NewPlayer("D", 0, 0), NewPlayer("E", 0, 0),
	)

	first, err := s.Storage.ListPlayers(s.Ctx, page(0, 2, model.OrderID))
	s.Require().NoError(err)
	s.Equal(ids(created[0:2]), ids(first))

	last, err := s.Storage.ListPlayers(s.Ctx, page(2, 2, model.OrderID))
	s.Require().NoError(err)
	s.Equal(ids(created[4:5]), ids(last))

	beyond, err := s.Storage.ListPlayers(s.Ctx, page(3, 2, model.OrderID))
	s.Require().NoError(err)
	s.Empty(beyond)
}

func (s *Suite) TestListPlayersOrderByName() {
	s.create(NewPlayer("Carol", 0, 0), NewPlayer("alice", 0, 0), NewPlayer("Bob", 0, 0))

	players, err := s.Storage.ListPlayers(s.Ctx, page(0, 10, model.OrderName))
	s.Require().NoError(err)
	// Byte order: upper case sorts before lower case
	s.Equal([]string{"Bob", "Carol", "alice"}, names(players))
}

func (s *Suite) TestListPlayersOrderByExperienceBreaksTiesByID() {
	a := NewPlayer("A", 500, 2)
	b := NewPlayer("B", 100, 0)
	c := NewPlayer("C", 500, 2)
	s.create(a, b, c)

	players, err := s.Storage.ListPlayers(s.Ctx, page(0, 10, model.OrderExperience))
	s.Require().NoError(err)
	s.Equal([]model.PlayerID{b.ID, a.ID, c.ID}, ids(players))

	byLevel, err := s.Storage.ListPlayers(s.Ctx, page(0, 10, model.OrderLevel))
	s.Require().NoError(err)
	s.Equal([]model.PlayerID{b.ID, a.ID, c.ID}, ids(byLevel))
}

func (s *Suite) TestListPlayersOrderByBirthday() {
	young := NewPlayer("Young", 0, 0)
	young.Birthday = Day(2020, time.January, 1)
	old := NewPlayer("Old", 0, 0)
	old.Birthday = Day(2001, time.January, 1)
	s.create(young, old)

	players, err := s.Storage.ListPlayers(s.Ctx, page(0, 10, model.OrderBirthday))
	s.Require().NoError(err)
	s.Equal([]string{"Old", "Young"}, names(players))
}

func (s *Suite) TestFindPlayersEmptyFilterMatchesAll() {
	s.create(NewPlayer("A", 0, 0), NewPlayer("B", 0, 0))

	players, err := s.Storage.FindPlayers(s.Ctx, model.Filter{}, page(0, 10, model.OrderID))
	s.Require().NoError(err)
	s.Len(players, 2)
}

func (s *Suite) TestFindPlayersLikeIsCaseSensitive() {
	s.create(NewPlayer("Rogan", 0, 0), NewPlayer("Morgana", 0, 0), NewPlayer("ANGUS", 0, 0))

	filter := model.Filter{{Field: model.FieldName, Op: model.OpLike, Value: "%an%"}}
	players, err := s.Storage.FindPlayers(s.Ctx, filter, page(0, 10, model.OrderID))
	s.Require().NoError(err)
	s.Equal([]string{"Rogan", "Morgana"}, names(players))
}

func (s *Suite) TestFindPlayersLikeWildcards() {
	s.create(NewPlayer("xabcx", 0, 0), NewPlayer("ac", 0, 0), NewPlayer("a*c", 0, 0))

	underscore := model.Filter{{Field: model.FieldName, Op: model.OpLike, Value: "%a_c%"}}
	players, err := s.Storage.FindPlayers(s.Ctx, underscore, page(0, 10, model.OrderID))
	s.Require().NoError(err)
	s.Equal([]string{"xabcx", "a*c"}, names(players))

	// Characters special to other pattern dialects are literal
	star := model.Filter{{Field: model.FieldName, Op: model.OpLike, Value: "%*%"}}
	players, err = s.Storage.FindPlayers(s.Ctx, star, page(0, 10, model.OrderID))
	s.Require().NoError(err)
	s.Equal([]string{"a*c"}, names(players))
}

func (s *Suite) TestFindPlayersConjunction() {
	elf := NewPlayer("Legolas", 2000, 5)
	elf.Race = model.RaceElf
	elf.Title = "Prince of Mirkwood"
	elf.Birthday = Day(2010, time.January, 1)

	banned := NewPlayer("Saruman", 9000, 12)
	banned.Race = model.RaceHuman
	banned.Profession = model.ProfessionSorcerer
	banned.Banned = true
	banned.Birthday = Day(2002, time.January, 1)

	dwarf := NewPlayer("Gimli", 800, 3)
	dwarf.Race = model.RaceDwarf
	dwarf.Birthday = Day(2015, time.January, 1)

	s.create(elf, banned, dwarf)

	tests := []struct {
		name   string
		filter model.Filter
		want   []string
	}{
		{
			name:   "race",
			filter: model.Filter{{Field: model.FieldRace, Op: model.OpEq, Value: model.RaceElf}},
			want:   []string{"Legolas"},
		},
		{
			name:   "profession",
			filter: model.Filter{{Field: model.FieldProfession, Op: model.OpEq, Value: model.ProfessionSorcerer}},
			want:   []string{"Saruman"},
		},
		{
			name:   "banned",
			filter: model.Filter{{Field: model.FieldBanned, Op: model.OpEq, Value: false}},
			want:   []string{"Legolas", "Gimli"},
		},
		{
			name: "birthday window",
			filter: model.Filter{
				{Field: model.FieldBirthday, Op: model.OpGt, Value: Day(2005, time.January, 1)},
				{Field: model.FieldBirthday, Op: model.OpLt, Value: Day(2012, time.January, 1)},
			},
			want: []string{"Legolas"},
		},
		{
			name: "experience bounds inclusive",
			filter: model.Filter{
				{Field: model.FieldExperience, Op: model.OpGte, Value: 800},
				{Field: model.FieldExperience, Op: model.OpLte, Value: 2000},
			},
			want: []string{"Legolas", "Gimli"},
		},
		{
			name: "level and title",
			filter: model.Filter{
				{Field: model.FieldLevel, Op: model.OpGte, Value: 4},
				{Field: model.FieldTitle, Op: model.OpLike, Value: "%Mirk%"},
			},
			want: []string{"Legolas"},
		},
		{
			name: "no match",
			filter: model.Filter{
				{Field: model.FieldRace, Op: model.OpEq, Value: model.RaceOrc},
			},
			want: []string{},
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			players, err := s.Storage.FindPlayers(s.Ctx, tt.filter, page(0, 10, model.OrderID))
			s.Require().NoError(err)
			s.Equal(tt.want, names(players))

			count, err := s.Storage.CountMatching(s.Ctx, tt.filter)
			s.Require().NoError(err)
			s.Equal(int64(len(tt.want)), count)
		})
	}
}

func (s *Suite) TestFindPlayersPagesFilteredResults() {
	s.create(
		NewPlayer("Ann", 0, 0), NewPlayer("Bob", 0, 0), NewPlayer("Anna", 0, 0),
		NewPlayer("Hannah", 0, 0), NewPlayer("Cid", 0, 0),
	)
	filter := model.Filter{{Field: model.FieldName, Op: model.OpLike, Value: "%nn%"}}

	players, err := s.Storage.FindPlayers(s.Ctx, filter, page(1, 2, model.OrderName))
	s.Require().NoError(err)
	s.Equal([]string{"Hannah"}, names(players))

	count, err := s.Storage.CountMatching(s.Ctx, filter)
	s.Require().NoError(err)
	s.Equal(int64(3), count)
}

func (s *Suite) TestFindPlayersFarBirthdayBounds() {
	early := NewPlayer("Early", 0, 0)
	early.Birthday = model.MinBirthday
	late := NewPlayer("Late", 0, 0)
	late.Birthday = model.MaxBirthday.Add(-time.Millisecond)
	s.create(early, late)

	farFuture := time.UnixMilli(1 << 62).UTC()
	farPast := time.UnixMilli(-(1 << 62)).UTC()

	tests := []struct {
		name  string
		pred  model.Predicate
		count int64
	}{
		{"after far future", model.Predicate{Field: model.FieldBirthday, Op: model.OpGt, Value: farFuture}, 0},
		{"before far future", model.Predicate{Field: model.FieldBirthday, Op: model.OpLt, Value: farFuture}, 2},
		{"after far past", model.Predicate{Field: model.FieldBirthday, Op: model.OpGt, Value: farPast}, 2},
		{"before far past", model.Predicate{Field: model.FieldBirthday, Op: model.OpLt, Value: farPast}, 0},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			count, err := s.Storage.CountMatching(s.Ctx, model.Filter{tt.pred})
			s.Require().NoError(err)
			s.Equal(tt.count, count)

			players, err := s.Storage.FindPlayers(s.Ctx, model.Filter{tt.pred}, page(0, 10, model.OrderID))
			s.Require().NoError(err)
			s.Len(players, int(tt.count))
		})
	}
}
