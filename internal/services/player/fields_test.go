package player

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/playerregistry/internal/model"
)

type FieldsSuite struct {
	suite.Suite
}

func TestFieldsSuite(t *testing.T) {
	suite.Run(t, new(FieldsSuite))
}

func validParams() map[string]string {
	return map[string]string{
		ParamName:       "Gimli",
		ParamTitle:      "Son of Gloin",
		ParamRace:       "DWARF",
		ParamProfession: "WARRIOR",
		ParamBirthday:   "1262304000000",
		ParamExperience: "2500",
	}
}

func (s *FieldsSuite) requireValidationError(err error, field string) {
	s.Require().Error(err)
	s.ErrorIs(err, model.ErrValidation)

	var ve *model.ValidationError
	s.Require().ErrorAs(err, &ve)
	s.Equal(field, ve.Field)
}

// Create (requireAll) tests

func (s *FieldsSuite) TestApplyAllFields() {
	params := validParams()
	params[ParamBanned] = "true"

	var p model.Player
	s.Require().NoError(ApplyFields(&p, params, true))

	s.Equal("Gimli", p.Name)
	s.Equal("Son of Gloin", p.Title)
	s.Equal(model.RaceDwarf, p.Race)
	s.Equal(model.ProfessionWarrior, p.Profession)
	s.True(p.Birthday.Equal(time.Date(2010, time.January, 1, 0, 0, 0, 0, time.UTC)))
	s.Equal(time.UTC, p.Birthday.Location())
	s.Equal(2500, p.Experience)
	s.True(p.Banned)
}

func (s *FieldsSuite) TestEachRequiredFieldIsRequired() {
	for _, field := range RequiredFields {
		s.Run(field, func() {
			params := validParams()
			delete(params, field)

			_, err := StageFields(params, true)
			s.requireValidationError(err, field)
		})
	}
}

func (s *FieldsSuite) TestBannedIsOptional() {
	changes, err := StageFields(validParams(), true)
	s.Require().NoError(err)
	s.Len(changes, 6)
}

func (s *FieldsSuite) TestPartialUpdateNeedsNoRequiredFields() {
	changes, err := StageFields(map[string]string{ParamTitle: "King"}, false)
	s.Require().NoError(err)
	s.Len(changes, 1)
}

func (s *FieldsSuite) TestUnrecognizedKeysIgnored() {
	changes, err := StageFields(map[string]string{
		"foo":            "bar",
		"level":          "50",
		"untilNextLevel": "1",
		"id":             "7",
	}, false)
	s.Require().NoError(err)
	s.True(changes.Empty())
}

// Bounds

func (s *FieldsSuite) TestNameLength() {
	tests := []struct {
		name  string
		valid bool
	}{
		{"", false},
		{"A", true},
		{strings.Repeat("x", 12), true},
		{strings.Repeat("x", 13), false},
		{"Éowyn-Ærwynn", true}, // 12 runes, more bytes
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := StageFields(map[string]string{ParamName: tt.name}, false)
			if tt.valid {
				s.NoError(err)
			} else {
				s.requireValidationError(err, ParamName)
			}
		})
	}
}

func (s *FieldsSuite) TestTitleLength() {
	_, err := StageFields(map[string]string{ParamTitle: ""}, false)
	s.NoError(err)

	_, err = StageFields(map[string]string{ParamTitle: strings.Repeat("t", 30)}, false)
	s.NoError(err)

	_, err = StageFields(map[string]string{ParamTitle: strings.Repeat("t", 31)}, false)
	s.requireValidationError(err, ParamTitle)
}

func (s *FieldsSuite) TestExperienceBounds() {
	tests := []struct {
		raw   string
		valid bool
	}{
		{"0", true},
		{"10000000", true},
		{"10000001", false},
		{"-1", false},
		{"1.5", false},
		{"abc", false},
		{"", false},
		{"99999999999", false},
	}

	for _, tt := range tests {
		s.Run(tt.raw, func() {
			_, err := StageFields(map[string]string{ParamExperience: tt.raw}, false)
			if tt.valid {
				s.NoError(err)
			} else {
				s.requireValidationError(err, ParamExperience)
			}
		})
	}
}

func (s *FieldsSuite) TestBirthdayBounds() {
	tests := []struct {
		name  string
		at    time.Time
		valid bool
	}{
		{"min inclusive", MinBirthday, true},
		{"just before min", MinBirthday.Add(-time.Millisecond), false},
		{"last valid", MaxBirthday.Add(-time.Millisecond), true},
		{"max exclusive", MaxBirthday, false},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			raw := strconvMillis(tt.at)
			_, err := StageFields(map[string]string{ParamBirthday: raw}, false)
			if tt.valid {
				s.NoError(err)
			} else {
				s.requireValidationError(err, ParamBirthday)
			}
		})
	}

	_, err := StageFields(map[string]string{ParamBirthday: "2010-01-01"}, false)
	s.requireValidationError(err, ParamBirthday)
}

func (s *FieldsSuite) TestEnumsAreExactMatch() {
	for _, raw := range []string{"elf", "Elf", " ELF", "ENT"} {
		_, err := StageFields(map[string]string{ParamRace: raw}, false)
		s.requireValidationError(err, ParamRace)
	}

	for _, r := range model.Races {
		_, err := StageFields(map[string]string{ParamRace: string(r)}, false)
		s.NoError(err)
	}
	for _, p := range model.Professions {
		_, err := StageFields(map[string]string{ParamProfession: string(p)}, false)
		s.NoError(err)
	}

	_, err := StageFields(map[string]string{ParamProfession: "BARD"}, false)
	s.requireValidationError(err, ParamProfession)
}

func (s *FieldsSuite) TestBannedIsLiteralTrue() {
	tests := map[string]bool{"true": true, "false": false, "TRUE": false, "1": false, "yes": false}

	for raw, want := range tests {
		p := model.Player{Banned: !want}
		s.Require().NoError(ApplyFields(&p, map[string]string{ParamBanned: raw}, false))
		s.Equal(want, p.Banned, raw)
	}
}

// Atomicity

func (s *FieldsSuite) TestInvalidFieldLeavesEntityUntouched() {
	p := model.Player{Name: "Old", Title: "Unchanged", Experience: 10}

	err := ApplyFields(&p, map[string]string{
		ParamName:       "New",
		ParamTitle:      "Also new",
		ParamExperience: "-5",
	}, false)
	s.requireValidationError(err, ParamExperience)

	s.Equal("Old", p.Name)
	s.Equal("Unchanged", p.Title)
	s.Equal(10, p.Experience)
}

func (s *FieldsSuite) TestFirstInvalidFieldIsReported() {
	_, err := StageFields(map[string]string{
		ParamName:       strings.Repeat("x", 20),
		ParamExperience: "-5",
	}, false)
	s.requireValidationError(err, ParamName)
}

// ParseID

func (s *FieldsSuite) TestParseID() {
	id, err := ParseID("42")
	s.Require().NoError(err)
	s.Equal(model.PlayerID(42), id)

	for _, raw := range []string{"0", "-1", "abc", "", "1.0", "99999999999999999999"} {
		_, err := ParseID(raw)
		s.requireValidationError(err, "id")
	}
}

func strconvMillis(t time.Time) string {
	return strconv.FormatInt(t.UnixMilli(), 10)
}
