package query

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// Clause is one node of a predicate tree over the complexes table. Clauses
// compile to a SQL fragment plus its bind arguments.
type Clause interface {
	expr() (string, []interface{})
}

type equalsClause struct {
	column string
	value  interface{}
}

func (c equalsClause) expr() (string, []interface{}) {
	return c.column + " = ?", []interface{}{c.value}
}

type anyEqualsClause struct {
	columns []string
	value   interface{}
}

func (c anyEqualsClause) expr() (string, []interface{}) {
	parts := make([]string, len(c.columns))
	args := make([]interface{}, len(c.columns))
	for i, col := range c.columns {
		parts[i] = col + " = ?"
		args[i] = c.value
	}
	return "(" + strings.Join(parts, " OR ") + ")", args
}

type containsAnyClause struct {
	columns []string
	term    string
}

func (c containsAnyClause) expr() (string, []interface{}) {
	pattern := "%" + strings.ToLower(c.term) + "%"
	parts := make([]string, len(c.columns))
	args := make([]interface{}, len(c.columns))
	for i, col := range c.columns {
		parts[i] = fmt.Sprintf("LOWER(%s) LIKE ?", col)
		args[i] = pattern
	}
	return "(" + strings.Join(parts, " OR ") + ")", args
}

type rangeClause struct {
	column   string
	min, max *int
}

func (c rangeClause) expr() (string, []interface{}) {
	var parts []string
	var args []interface{}
	if c.min != nil {
		parts = append(parts, c.column+" >= ?")
		args = append(args, *c.min)
	}
	if c.max != nil {
		parts = append(parts, c.column+" <= ?")
		args = append(args, *c.max)
	}
	return strings.Join(parts, " AND "), args
}

// Equals matches rows where column equals value exactly.
func Equals(column string, value interface{}) Clause {
	return equalsClause{column: column, value: value}
}

// AnyEquals matches rows where any of the columns equals value (OR group).
func AnyEquals(columns []string, value interface{}) Clause {
	return anyEqualsClause{columns: columns, value: value}
}

// ContainsAny matches rows where any of the columns contains term,
// case-insensitively (OR group).
func ContainsAny(columns []string, term string) Clause {
	return containsAnyClause{columns: columns, term: term}
}

// Range matches rows where column lies within [min, max]. Either bound may be
// nil to leave that side open; with both nil the clause matches everything.
func Range(column string, min, max *int) Clause {
	return rangeClause{column: column, min: min, max: max}
}

// Predicate is an AND-combined set of clauses. The zero value matches all
// rows. Predicates are immutable; And returns a new predicate.
type Predicate struct {
	clauses []Clause
}

func NewPredicate() Predicate {
	return Predicate{}
}

// And returns a predicate with the clause appended.
func (p Predicate) And(c Clause) Predicate {
	clauses := make([]Clause, len(p.clauses), len(p.clauses)+1)
	copy(clauses, p.clauses)
	return Predicate{clauses: append(clauses, c)}
}

// Scope compiles the predicate into a gorm scope applying every clause.
func (p Predicate) Scope() func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		for _, c := range p.clauses {
			sql, args := c.expr()
			if sql == "" {
				continue
			}
			db = db.Where(sql, args...)
		}
		return db
	}
}
