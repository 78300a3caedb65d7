package model

import "time"

// PlayerID uniquely identifies a player. Assigned by storage, always positive.
type PlayerID int64

var (
	// MinBirthday is the earliest accepted birthday (inclusive)
	MinBirthday = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)
	// MaxBirthday is the first rejected birthday (exclusive)
	MaxBirthday = time.Date(3001, time.January, 1, 0, 0, 0, 0, time.UTC)
)

// ClampBirthdayBound pulls a comparison bound into [MinBirthday-1ms, MaxBirthday].
// Every stored birthday lies in [MinBirthday, MaxBirthday), so comparisons
// against the clamped bound select the same players as against t.
func ClampBirthdayBound(t time.Time) time.Time {
	if floor := MinBirthday.Add(-time.Millisecond); t.Before(floor) {
		return floor
	}
	if t.After(MaxBirthday) {
		return MaxBirthday
	}
	return t
}

// Race is the fixed set of player races
type Race string

const (
	RaceHuman  Race = "HUMAN"
	RaceDwarf  Race = "DWARF"
	RaceElf    Race = "ELF"
	RaceGiant  Race = "GIANT"
	RaceOrc    Race = "ORC"
	RaceTroll  Race = "TROLL"
	RaceHobbit Race = "HOBBIT"
)

// Races lists every declared race in declaration order
var Races = []Race{RaceHuman, RaceDwarf, RaceElf, RaceGiant, RaceOrc, RaceTroll, RaceHobbit}

// Profession is the fixed set of player professions
type Profession string

const (
	ProfessionWarrior  Profession = "WARRIOR"
	ProfessionRogue    Profession = "ROGUE"
	ProfessionSorcerer Profession = "SORCERER"
	ProfessionCleric   Profession = "CLERIC"
	ProfessionPaladin  Profession = "PALADIN"
	ProfessionNazgul   Profession = "NAZGUL"
	ProfessionWarlock  Profession = "WARLOCK"
	ProfessionDruid    Profession = "DRUID"
)

// Professions lists every declared profession in declaration order
var Professions = []Profession{
	ProfessionWarrior, ProfessionRogue, ProfessionSorcerer, ProfessionCleric,
	ProfessionPaladin, ProfessionNazgul, ProfessionWarlock, ProfessionDruid,
}

// PlayerOrder is a symbolic sort key accepted from clients
type PlayerOrder string

const (
	OrderID         PlayerOrder = "ID"
	OrderName       PlayerOrder = "NAME"
	OrderExperience PlayerOrder = "EXPERIENCE"
	OrderBirthday   PlayerOrder = "BIRTHDAY"
	OrderLevel      PlayerOrder = "LEVEL"
)

// PlayerOrders lists every declared order key
var PlayerOrders = []PlayerOrder{OrderID, OrderName, OrderExperience, OrderBirthday, OrderLevel}

// Field returns the sortable player field an order key refers to
func (o PlayerOrder) Field() Field {
	switch o {
	case OrderName:
		return FieldName
	case OrderExperience:
		return FieldExperience
	case OrderBirthday:
		return FieldBirthday
	case OrderLevel:
		return FieldLevel
	default:
		return FieldID
	}
}

// ParseRace looks up a race by its exact variant name
func ParseRace(s string) (Race, bool) {
	return lookup(Races, s)
}

// ParseProfession looks up a profession by its exact variant name
func ParseProfession(s string) (Profession, bool) {
	return lookup(Professions, s)
}

// ParsePlayerOrder looks up an order key by its exact variant name
func ParsePlayerOrder(s string) (PlayerOrder, bool) {
	return lookup(PlayerOrders, s)
}

func lookup[T ~string](variants []T, s string) (T, bool) {
	for _, v := range variants {
		if string(v) == s {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// Player is a game character record
type Player struct {
	ID         PlayerID
	Name       string
	Title      string
	Race       Race
	Profession Profession
	Birthday   time.Time // millisecond precision, UTC
	Banned     bool
	Experience int

	// Derived from Experience before every persist
	Level          int
	UntilNextLevel int
}

// Clone returns a copy of the player
func (p *Player) Clone() *Player {
	c := *p
	return &c
}
