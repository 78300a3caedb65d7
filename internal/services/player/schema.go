package player

import (
	"github.com/mcoot/playerregistry/internal/model"
)

// Entity field names accepted in create/update payloads
const (
	ParamName       = "name"
	ParamTitle      = "title"
	ParamRace       = "race"
	ParamProfession = "profession"
	ParamBirthday   = "birthday"
	ParamExperience = "experience"
	ParamBanned     = "banned"
)

// Filter keys accepted by list and count
const (
	FilterName          = "name"
	FilterTitle         = "title"
	FilterRace          = "race"
	FilterProfession    = "profession"
	FilterAfter         = "after"
	FilterBefore        = "before"
	FilterMinExperience = "minExperience"
	FilterMaxExperience = "maxExperience"
	FilterMinLevel      = "minLevel"
	FilterMaxLevel      = "maxLevel"
	FilterBanned        = "banned"
)

// Reserved pagination parameter names
const (
	ParamPageNumber = "pageNumber"
	ParamPageSize   = "pageSize"
	ParamOrder      = "order"
)

// Field bounds
const (
	MaxNameLength  = 12
	MaxTitleLength = 30
	MinExperience  = 0
	MaxExperience  = 10_000_000
)

// Pagination defaults
const (
	DefaultPageNumber = 0
	DefaultPageSize   = 3
	DefaultOrder      = model.OrderID
)

var (
	// MinBirthday is the earliest accepted birthday (inclusive)
	MinBirthday = model.MinBirthday
	// MaxBirthday is the first rejected birthday (exclusive)
	MaxBirthday = model.MaxBirthday
)

// RequiredFields must all be present when creating a player
var RequiredFields = []string{
	ParamName, ParamTitle, ParamRace, ParamProfession, ParamBirthday, ParamExperience,
}

func isReserved(key string) bool {
	switch key {
	case ParamPageNumber, ParamPageSize, ParamOrder:
		return true
	default:
		return false
	}
}

// SplitParams separates pagination directives from filter parameters
func SplitParams(params map[string]string) (page, filter map[string]string) {
	page = make(map[string]string)
	filter = make(map[string]string)
	for k, v := range params {
		if isReserved(k) {
			page[k] = v
		} else {
			filter[k] = v
		}
	}
	return page, filter
}
