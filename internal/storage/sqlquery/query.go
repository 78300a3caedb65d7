// Package sqlquery renders player filters and orderings as SQL for the relational backends.
package sqlquery

import (
	"fmt"
	"strings"
	"time"

	"github.com/mcoot/playerregistry/internal/model"
)

// Columns lists the players table columns in scan order
const Columns = "id, name, title, race, profession, birthday, banned, experience, level, until_next_level"

var columns = map[model.Field]string{
	model.FieldID:         "id",
	model.FieldName:       "name",
	model.FieldTitle:      "title",
	model.FieldRace:       "race",
	model.FieldProfession: "profession",
	model.FieldBirthday:   "birthday",
	model.FieldBanned:     "banned",
	model.FieldExperience: "experience",
	model.FieldLevel:      "level",
}

var operators = map[model.Op]string{
	model.OpEq:  "=",
	model.OpGt:  ">",
	model.OpLt:  "<",
	model.OpGte: ">=",
	model.OpLte: "<=",
}

// Dialect captures the differences between SQL engines
type Dialect interface {
	// Placeholder returns the bind marker for the n-th argument (1-based)
	Placeholder(n int) string
	// Like renders a case-sensitive LIKE match of column against the bound pattern
	Like(column, placeholder string) string
	// LikeArg converts a LIKE pattern into the argument bound for Like
	LikeArg(pattern string) any
	// Time converts a timestamp into its stored representation
	Time(t time.Time) any
	// TextOrder renders an ORDER BY term comparing text by code point
	TextOrder(column string) string
}

// Query accumulates a WHERE clause and its bound arguments
type Query struct {
	dialect Dialect
	where   []string
	args    []any
}

// New starts an empty query for the dialect
func New(d Dialect) *Query {
	return &Query{dialect: d}
}

// Bind appends an argument and returns its placeholder
func (q *Query) Bind(v any) string {
	q.args = append(q.args, v)
	return q.dialect.Placeholder(len(q.args))
}

// Args returns every bound argument in placeholder order
func (q *Query) Args() []any {
	return q.args
}

// Filter adds one condition per predicate
func (q *Query) Filter(filter model.Filter) error {
	for _, pred := range filter {
		column, ok := columns[pred.Field]
		if !ok {
			return fmt.Errorf("unsupported filter field %q", pred.Field)
		}

		if pred.Op == model.OpLike {
			pattern, ok := pred.Value.(string)
			if !ok {
				return fmt.Errorf("like on %s needs a string pattern, got %T", pred.Field, pred.Value)
			}
			q.where = append(q.where, q.dialect.Like(column, q.Bind(q.dialect.LikeArg(pattern))))
			continue
		}

		op, ok := operators[pred.Op]
		if !ok {
			return fmt.Errorf("unsupported operator %q", pred.Op)
		}
		q.where = append(q.where, fmt.Sprintf("%s %s %s", column, op, q.Bind(q.value(pred.Value))))
	}
	return nil
}

// Where renders the WHERE clause, or an empty string when there are no conditions
func (q *Query) Where() string {
	if len(q.where) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(q.where, " AND ")
}

// Page renders ORDER BY, LIMIT and OFFSET for the page
func (q *Query) Page(page model.PageRequest) string {
	column := columns[page.Order.Field()]

	var order string
	switch page.Order.Field() {
	case model.FieldID:
		order = "id"
	case model.FieldName:
		order = q.dialect.TextOrder(column) + ", id"
	default:
		order = column + ", id"
	}

	return fmt.Sprintf(" ORDER BY %s LIMIT %s OFFSET %s",
		order, q.Bind(page.Size), q.Bind(page.Offset()))
}

// value converts a predicate value to its driver representation
func (q *Query) value(v any) any {
	switch val := v.(type) {
	case model.PlayerID:
		return int64(val)
	case model.Race:
		return string(val)
	case model.Profession:
		return string(val)
	case time.Time:
		return q.dialect.Time(val)
	default:
		return v
	}
}
