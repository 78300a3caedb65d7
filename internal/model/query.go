package model

import (
	"cmp"
	"slices"
	"strings"
	"time"
)

// Field names a filterable or sortable player attribute
type Field string

const (
	FieldID         Field = "id"
	FieldName       Field = "name"
	FieldTitle      Field = "title"
	FieldRace       Field = "race"
	FieldProfession Field = "profession"
	FieldBirthday   Field = "birthday"
	FieldBanned     Field = "banned"
	FieldExperience Field = "experience"
	FieldLevel      Field = "level"
)

// Op is a comparison operator in a predicate
type Op string

const (
	OpLike Op = "like" // SQL LIKE pattern with % and _ wildcards, case-sensitive
	OpEq   Op = "eq"
	OpGt   Op = "gt"
	OpLt   Op = "lt"
	OpGte  Op = "gte"
	OpLte  Op = "lte"
)

// Predicate is a single typed filter condition.
// Value holds the coerced Go value for the field: string for name/title patterns,
// Race, Profession, bool, time.Time for birthday and int for experience/level.
type Predicate struct {
	Field Field
	Op    Op
	Value any
}

// Filter is a conjunction of predicates. An empty filter matches every player.
type Filter []Predicate

// Matches reports whether the player satisfies every predicate
func (f Filter) Matches(p *Player) bool {
	for _, pred := range f {
		if !pred.Matches(p) {
			return false
		}
	}
	return true
}

// Matches reports whether the player satisfies the predicate
func (pr Predicate) Matches(p *Player) bool {
	actual := p.Value(pr.Field)

	if pr.Op == OpLike {
		text, ok1 := actual.(string)
		pattern, ok2 := pr.Value.(string)
		return ok1 && ok2 && MatchLike(text, pattern)
	}

	c, ok := compareValues(actual, pr.Value)
	if !ok {
		return false
	}

	switch pr.Op {
	case OpEq:
		return c == 0
	case OpGt:
		return c > 0
	case OpLt:
		return c < 0
	case OpGte:
		return c >= 0
	case OpLte:
		return c <= 0
	default:
		return false
	}
}

// Value returns the player's value for a field, typed as predicates expect it
func (p *Player) Value(f Field) any {
	switch f {
	case FieldID:
		return p.ID
	case FieldName:
		return p.Name
	case FieldTitle:
		return p.Title
	case FieldRace:
		return p.Race
	case FieldProfession:
		return p.Profession
	case FieldBirthday:
		return p.Birthday
	case FieldBanned:
		return p.Banned
	case FieldExperience:
		return p.Experience
	case FieldLevel:
		return p.Level
	default:
		return nil
	}
}

// compareValues orders two values of the same dynamic type.
// The second result is false when the types differ or are not comparable.
func compareValues(a, b any) (int, bool) {
	switch av := a.(type) {
	case int:
		bv, ok := b.(int)
		return cmp.Compare(av, bv), ok
	case PlayerID:
		bv, ok := b.(PlayerID)
		return cmp.Compare(av, bv), ok
	case string:
		bv, ok := b.(string)
		return strings.Compare(av, bv), ok
	case Race:
		bv, ok := b.(Race)
		return strings.Compare(string(av), string(bv)), ok
	case Profession:
		bv, ok := b.(Profession)
		return strings.Compare(string(av), string(bv)), ok
	case time.Time:
		bv, ok := b.(time.Time)
		return av.Compare(bv), ok
	case bool:
		bv, ok := b.(bool)
		if !ok {
			return 0, false
		}
		switch {
		case av == bv:
			return 0, true
		case !av:
			return -1, true
		default:
			return 1, true
		}
	default:
		return 0, false
	}
}

// MatchLike reports whether s matches a SQL LIKE pattern, where % matches any
// run of characters and _ matches exactly one. Matching is case-sensitive.
func MatchLike(s, pattern string) bool {
	str, pat := []rune(s), []rune(pattern)
	si, pi := 0, 0
	star, mark := -1, 0

	for si < len(str) {
		switch {
		case pi < len(pat) && pat[pi] == '%':
			star, mark = pi, si
			pi++
		case pi < len(pat) && (pat[pi] == '_' || pat[pi] == str[si]):
			si++
			pi++
		case star >= 0:
			pi = star + 1
			mark++
			si = mark
		default:
			return false
		}
	}

	for pi < len(pat) && pat[pi] == '%' {
		pi++
	}
	return pi == len(pat)
}

// PageRequest selects one page of an ordered result set
type PageRequest struct {
	Number int // zero-based
	Size   int
	Order  PlayerOrder
}

// Offset returns the number of rows skipped before this page
func (pr PageRequest) Offset() int {
	return pr.Number * pr.Size
}

// SortPlayers orders players ascending by field, breaking ties by ID
func SortPlayers(players []*Player, f Field) {
	slices.SortStableFunc(players, func(a, b *Player) int {
		if c, ok := compareValues(a.Value(f), b.Value(f)); ok && c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}

// Window sorts players by the page order and returns the requested page
func (pr PageRequest) Window(players []*Player) []*Player {
	SortPlayers(players, pr.Order.Field())

	start := pr.Offset()
	if start >= len(players) {
		return []*Player{}
	}
	end := min(start+pr.Size, len(players))
	return players[start:end]
}
