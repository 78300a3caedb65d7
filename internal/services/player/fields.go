package player

import (
	"errors"
	"fmt"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/mcoot/playerregistry/internal/model"
)

// Setter writes one coerced field value onto a player
type Setter func(p *model.Player)

// Changes is a validated set of field writes, ready to apply
type Changes []Setter

// Apply writes every staged field onto the player
func (c Changes) Apply(p *model.Player) {
	for _, set := range c {
		set(p)
	}
}

// Empty reports whether no field was staged
func (c Changes) Empty() bool {
	return len(c) == 0
}

// codec turns raw text for one field into a staged write
type codec interface {
	stage(raw string) (Setter, error)
}

// fieldCodec describes one entity field: how to coerce raw text, which bounds
// the coerced value must satisfy and where it is written.
type fieldCodec[T any] struct {
	coerce func(raw string) (T, error)
	check  func(v T) error
	set    func(p *model.Player, v T)
}

func (f fieldCodec[T]) stage(raw string) (Setter, error) {
	v, err := f.coerce(raw)
	if err != nil {
		return nil, err
	}
	if f.check != nil {
		if err := f.check(v); err != nil {
			return nil, err
		}
	}
	return func(p *model.Player) { f.set(p, v) }, nil
}

type fieldDescriptor struct {
	name  string
	codec codec
}

// playerFields is the single table driving both validation and application.
// Fields are processed in this order.
var playerFields = []fieldDescriptor{
	{ParamName, fieldCodec[string]{
		coerce: parseText,
		check:  lengthWithin(1, MaxNameLength),
		set:    func(p *model.Player, v string) { p.Name = v },
	}},
	{ParamTitle, fieldCodec[string]{
		coerce: parseText,
		check:  lengthWithin(0, MaxTitleLength),
		set:    func(p *model.Player, v string) { p.Title = v },
	}},
	{ParamRace, fieldCodec[model.Race]{
		coerce: parseRace,
		set:    func(p *model.Player, v model.Race) { p.Race = v },
	}},
	{ParamProfession, fieldCodec[model.Profession]{
		coerce: parseProfession,
		set:    func(p *model.Player, v model.Profession) { p.Profession = v },
	}},
	{ParamBirthday, fieldCodec[time.Time]{
		coerce: parseMillis,
		check:  timeWithin(MinBirthday, MaxBirthday),
		set:    func(p *model.Player, v time.Time) { p.Birthday = v },
	}},
	{ParamExperience, fieldCodec[int]{
		coerce: parseInt,
		check:  intWithin(MinExperience, MaxExperience),
		set:    func(p *model.Player, v int) { p.Experience = v },
	}},
	{ParamBanned, fieldCodec[bool]{
		coerce: parseBool,
		set:    func(p *model.Player, v bool) { p.Banned = v },
	}},
}

// StageFields validates and coerces every recognized field in params without
// touching any entity. With requireAll set, every field in RequiredFields must be
// present. Validation stops at the first invalid field. Unrecognized keys are ignored.
func StageFields(params map[string]string, requireAll bool) (Changes, error) {
	if requireAll {
		for _, name := range RequiredFields {
			if _, ok := params[name]; !ok {
				return nil, model.NewValidationError(name, "", "required field is missing")
			}
		}
	}

	var changes Changes
	for _, fd := range playerFields {
		raw, ok := params[fd.name]
		if !ok {
			continue
		}
		set, err := fd.codec.stage(raw)
		if err != nil {
			return nil, model.NewValidationError(fd.name, raw, err.Error())
		}
		changes = append(changes, set)
	}
	return changes, nil
}

// ApplyFields validates params and, only if all of them are valid, writes them onto p
func ApplyFields(p *model.Player, params map[string]string, requireAll bool) error {
	changes, err := StageFields(params, requireAll)
	if err != nil {
		return err
	}
	changes.Apply(p)
	return nil
}

// ParseID parses an identifier path parameter; it must be a positive integer
func ParseID(raw string) (model.PlayerID, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, model.NewValidationError("id", raw, "must be a positive integer")
	}
	return model.PlayerID(id), nil
}

// Coercions

var (
	errNotInteger   = errors.New("not an integer")
	errNotTimestamp = errors.New("not an epoch millisecond timestamp")
)

func parseText(raw string) (string, error) {
	return raw, nil
}

func parseInt(raw string) (int, error) {
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return 0, errNotInteger
	}
	return int(v), nil
}

func parseMillis(raw string) (time.Time, error) {
	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, errNotTimestamp
	}
	return time.UnixMilli(ms).UTC(), nil
}

func parseBool(raw string) (bool, error) {
	return raw == "true", nil
}

func parseRace(raw string) (model.Race, error) {
	r, ok := model.ParseRace(raw)
	if !ok {
		return "", fmt.Errorf("unknown race %q", raw)
	}
	return r, nil
}

func parseProfession(raw string) (model.Profession, error) {
	p, ok := model.ParseProfession(raw)
	if !ok {
		return "", fmt.Errorf("unknown profession %q", raw)
	}
	return p, nil
}

// Bound checks

func lengthWithin(minLen, maxLen int) func(string) error {
	return func(s string) error {
		n := utf8.RuneCountInString(s)
		if n < minLen || n > maxLen {
			return fmt.Errorf("length must be between %d and %d", minLen, maxLen)
		}
		return nil
	}
}

func intWithin(lo, hi int) func(int) error {
	return func(v int) error {
		if v < lo || v > hi {
			return fmt.Errorf("must be between %d and %d", lo, hi)
		}
		return nil
	}
}

// timeWithin accepts instants in [from, until)
func timeWithin(from, until time.Time) func(time.Time) error {
	return func(t time.Time) error {
		if t.Before(from) || !t.Before(until) {
			return fmt.Errorf("must be in [%s, %s)", from.Format(time.RFC3339), until.Format(time.RFC3339))
		}
		return nil
	}
}
