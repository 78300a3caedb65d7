package player

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/playerregistry/internal/model"
)

type FilterSuite struct {
	suite.Suite
}

func TestFilterSuite(t *testing.T) {
	suite.Run(t, new(FilterSuite))
}

func (s *FilterSuite) TestEmptyParamsGiveEmptyFilter() {
	filter, err := BuildFilter(map[string]string{})
	s.Require().NoError(err)
	s.NotNil(filter)
	s.Empty(filter)
}

func (s *FilterSuite) TestUnknownKeysContributeNothing() {
	filter, err := BuildFilter(map[string]string{"foo": "bar", "experience": "5"})
	s.Require().NoError(err)
	s.Empty(filter)
}

func (s *FilterSuite) TestRaceAndMinLevel() {
	filter, err := BuildFilter(map[string]string{"race": "ELF", "minLevel": "5"})
	s.Require().NoError(err)

	s.Equal(model.Filter{
		{Field: model.FieldRace, Op: model.OpEq, Value: model.RaceElf},
		{Field: model.FieldLevel, Op: model.OpGte, Value: 5},
	}, filter)
}

func (s *FilterSuite) TestEveryKey() {
	filter, err := BuildFilter(map[string]string{
		FilterName:          "ar",
		FilterTitle:         "King",
		FilterRace:          "HUMAN",
		FilterProfession:    "PALADIN",
		FilterAfter:         "946684800000",
		FilterBefore:        "1262304000000",
		FilterMinExperience: "10",
		FilterMaxExperience: "20",
		FilterMinLevel:      "1",
		FilterMaxLevel:      "2",
		FilterBanned:        "false",
	})
	s.Require().NoError(err)

	s.Equal(model.Filter{
		{Field: model.FieldName, Op: model.OpLike, Value: "%ar%"},
		{Field: model.FieldTitle, Op: model.OpLike, Value: "%King%"},
		{Field: model.FieldRace, Op: model.OpEq, Value: model.RaceHuman},
		{Field: model.FieldProfession, Op: model.OpEq, Value: model.ProfessionPaladin},
		{Field: model.FieldBirthday, Op: model.OpGt, Value: time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)},
		{Field: model.FieldBirthday, Op: model.OpLt, Value: time.Date(2010, time.January, 1, 0, 0, 0, 0, time.UTC)},
		{Field: model.FieldExperience, Op: model.OpGte, Value: 10},
		{Field: model.FieldExperience, Op: model.OpLte, Value: 20},
		{Field: model.FieldLevel, Op: model.OpGte, Value: 1},
		{Field: model.FieldLevel, Op: model.OpLte, Value: 2},
		{Field: model.FieldBanned, Op: model.OpEq, Value: false},
	}, filter)
}

func (s *FilterSuite) TestEmptyTextMatchesEverything() {
	filter, err := BuildFilter(map[string]string{FilterName: ""})
	s.Require().NoError(err)
	s.True(filter.Matches(&model.Player{Name: "Anyone"}))
}

func (s *FilterSuite) TestUncoercibleValuesRejected() {
	tests := map[string]string{
		FilterRace:          "elf",
		FilterProfession:    "BARD",
		FilterAfter:         "yesterday",
		FilterBefore:        "1.5",
		FilterMinExperience: "lots",
		FilterMaxLevel:      "",
	}

	for key, raw := range tests {
		s.Run(key, func() {
			_, err := BuildFilter(map[string]string{key: raw})
			s.Require().ErrorIs(err, model.ErrValidation)

			var ve *model.ValidationError
			s.Require().ErrorAs(err, &ve)
			s.Equal(key, ve.Field)
		})
	}
}

func (s *FilterSuite) TestBoundsNotChecked() {
	// Filters outside the entity bounds simply match nothing
	filter, err := BuildFilter(map[string]string{FilterMinExperience: "-100", FilterAfter: "0"})
	s.Require().NoError(err)
	s.Len(filter, 2)
}

func (s *FilterSuite) TestSplitParams() {
	page, filter := SplitParams(map[string]string{
		"pageNumber": "1",
		"pageSize":   "5",
		"order":      "NAME",
		"name":       "x",
		"banned":     "true",
	})

	s.Equal(map[string]string{"pageNumber": "1", "pageSize": "5", "order": "NAME"}, page)
	s.Equal(map[string]string{"name": "x", "banned": "true"}, filter)
}
