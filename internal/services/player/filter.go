package player

import (
	"github.com/mcoot/playerregistry/internal/model"
)

type filterRule struct {
	key   string
	build func(raw string) (model.Predicate, error)
}

// filterRules lists every recognized filter key; predicates are emitted in this order
var filterRules = []filterRule{
	{FilterName, contains(model.FieldName)},
	{FilterTitle, contains(model.FieldTitle)},
	{FilterRace, compareWith(model.FieldRace, model.OpEq, parseRace)},
	{FilterProfession, compareWith(model.FieldProfession, model.OpEq, parseProfession)},
	{FilterAfter, compareWith(model.FieldBirthday, model.OpGt, parseMillis)},
	{FilterBefore, compareWith(model.FieldBirthday, model.OpLt, parseMillis)},
	{FilterMinExperience, compareWith(model.FieldExperience, model.OpGte, parseInt)},
	{FilterMaxExperience, compareWith(model.FieldExperience, model.OpLte, parseInt)},
	{FilterMinLevel, compareWith(model.FieldLevel, model.OpGte, parseInt)},
	{FilterMaxLevel, compareWith(model.FieldLevel, model.OpLte, parseInt)},
	{FilterBanned, compareWith(model.FieldBanned, model.OpEq, parseBool)},
}

// BuildFilter turns filter parameters into a conjunction of typed predicates.
// Unrecognized keys contribute nothing; an empty mapping yields an empty filter.
func BuildFilter(params map[string]string) (model.Filter, error) {
	filter := model.Filter{}
	for _, rule := range filterRules {
		raw, ok := params[rule.key]
		if !ok {
			continue
		}
		pred, err := rule.build(raw)
		if err != nil {
			return nil, model.NewValidationError(rule.key, raw, err.Error())
		}
		filter = append(filter, pred)
	}
	return filter, nil
}

// contains matches the raw text anywhere in the field
func contains(field model.Field) func(string) (model.Predicate, error) {
	return func(raw string) (model.Predicate, error) {
		return model.Predicate{Field: field, Op: model.OpLike, Value: "%" + raw + "%"}, nil
	}
}

func compareWith[T any](field model.Field, op model.Op, coerce func(string) (T, error)) func(string) (model.Predicate, error) {
	return func(raw string) (model.Predicate, error) {
		v, err := coerce(raw)
		if err != nil {
			return model.Predicate{}, err
		}
		return model.Predicate{Field: field, Op: op, Value: v}, nil
	}
}
