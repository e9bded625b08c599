package querybuilder

import (
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

type QueryBuilder interface {
	Select(cols ...string) QueryBuilder
	From(table string) QueryBuilder
	Into(table string) QueryBuilder
	Where(clause string, args ...interface{}) QueryBuilder

	Or(clause string, args ...interface{}) QueryBuilder
	And(clause string, args ...interface{}) QueryBuilder

	AndGroup(fn func(qb QueryBuilder)) QueryBuilder
	OrGroup(fn func(qb QueryBuilder)) QueryBuilder

	OrderBy(col string, asc bool) QueryBuilder
	Limit(n int) QueryBuilder

	Insert(cols ...string) QueryBuilder
	Values(values ...interface{}) QueryBuilder
	OnConflict(cols ...string) QueryBuilder
	DoNothing() QueryBuilder

	// Build returns the statement with placeholders rebound for PostgreSQL
	Build() (string, []interface{}, error)

	getConditions() []Condition
}

type queryBuilder struct {
	schema     string
	table      string
	cols       []string
	conditions []Condition
	values     [][]interface{}
	orderBy    []string
	limit      int
	isInsert   bool
	onConflict []string
	doNothing  bool
}

func NewQueryBuilder(schema string) QueryBuilder {
	return &queryBuilder{
		schema: schema,
	}
}

func (q *queryBuilder) getConditions() []Condition {
	return q.conditions
}

func (q *queryBuilder) Select(cols ...string) QueryBuilder {
	q.cols = append(q.cols, cols...)
	return q
}

func (q *queryBuilder) From(table string) QueryBuilder {
	q.table = table
	return q
}

func (q *queryBuilder) Into(table string) QueryBuilder {
	q.table = table
	return q
}

func (q *queryBuilder) Where(clause string, args ...interface{}) QueryBuilder {
	return q.And(clause, args...)
}

func (q *queryBuilder) Or(clause string, args ...interface{}) QueryBuilder {
	q.conditions = append(q.conditions, Condition{
		condType: CondTypeOr,
		clause:   clause,
		args:     args,
	})
	return q
}

func (q *queryBuilder) And(clause string, args ...interface{}) QueryBuilder {
	q.conditions = append(q.conditions, Condition{
		condType: CondTypeAnd,
		clause:   clause,
		args:     args,
	})
	return q
}

func (q *queryBuilder) group(condType CondType, fn func(qb QueryBuilder)) QueryBuilder {
	sub := NewQueryBuilder(q.schema)
	fn(sub)
	q.conditions = append(q.conditions, Condition{
		condType:   condType,
		subCond:    sub.getConditions(),
		isSubGroup: true,
	})
	return q
}

func (q *queryBuilder) AndGroup(fn func(qb QueryBuilder)) QueryBuilder {
	return q.group(CondTypeAnd, fn)
}

func (q *queryBuilder) OrGroup(fn func(qb QueryBuilder)) QueryBuilder {
	return q.group(CondTypeOr, fn)
}

func (q *queryBuilder) OrderBy(col string, asc bool) QueryBuilder {
	direction := "ASC"
	if !asc {
		direction = "DESC"
	}
	q.orderBy = append(q.orderBy, fmt.Sprintf("%s %s", col, direction))
	return q
}

func (q *queryBuilder) Limit(n int) QueryBuilder {
	q.limit = n
	return q
}

func (q *queryBuilder) Insert(cols ...string) QueryBuilder {
	q.isInsert = true
	q.cols = cols
	return q
}

func (q *queryBuilder) Values(values ...interface{}) QueryBuilder {
	q.values = append(q.values, values)
	return q
}

func (q *queryBuilder) OnConflict(cols ...string) QueryBuilder {
	q.onConflict = cols
	return q
}

func (q *queryBuilder) DoNothing() QueryBuilder {
	q.doNothing = true
	return q
}

func (q *queryBuilder) Build() (string, []interface{}, error) {
	var (
		query string
		args  []interface{}
		err   error
	)
	if q.isInsert {
		query, args, err = q.buildInsert()
	} else {
		query, args, err = q.buildSelect()
	}
	if err != nil {
		return "", nil, err
	}
	return sqlx.Rebind(sqlx.DOLLAR, query), args, nil
}

func (q *queryBuilder) qualifiedTable() string {
	return QualifiedTable(q.schema, q.table)
}

// QualifiedTable prefixes table with schema unless schema is empty
func QualifiedTable(schema, table string) string {
	if schema == "" {
		return table
	}
	return fmt.Sprintf("%s.%s", schema, table)
}

func buildCondition(conditions []Condition) (string, []interface{}) {
	parts := make([]string, 0, len(conditions)*2)
	args := make([]interface{}, 0)

	for _, cond := range conditions {
		clause, condArgs := cond.clause, cond.args
		if cond.isSubGroup {
			if len(cond.subCond) == 0 {
				continue
			}
			sub, subArgs := buildCondition(cond.subCond)
			clause, condArgs = fmt.Sprintf("(%s)", sub), subArgs
		}
		if len(parts) > 0 {
			parts = append(parts, cond.condType.ToString())
		}
		parts = append(parts, clause)
		args = append(args, condArgs...)
	}

	return strings.Join(parts, " "), args
}

func (q *queryBuilder) buildSelect() (string, []interface{}, error) {
	if q.table == "" || len(q.cols) == 0 {
		return "", nil, fmt.Errorf("select needs a table and columns")
	}
	query := fmt.Sprintf("SELECT %s FROM %s", strings.Join(q.cols, ", "), q.qualifiedTable())

	var args []interface{}
	if len(q.conditions) > 0 {
		condition, condArgs := buildCondition(q.conditions)
		if condition != "" {
			query += fmt.Sprintf(" WHERE %s", condition)
			args = append(args, condArgs...)
		}
	}
	if len(q.orderBy) > 0 {
		query += fmt.Sprintf(" ORDER BY %s", strings.Join(q.orderBy, ", "))
	}
	if q.limit > 0 {
		query += " LIMIT ?"
		args = append(args, q.limit)
	}
	return query, args, nil
}

func (q *queryBuilder) buildInsert() (string, []interface{}, error) {
	if q.table == "" || len(q.cols) == 0 || len(q.values) == 0 {
		return "", nil, fmt.Errorf("insert needs a table, columns and values")
	}

	tuples := make([]string, 0, len(q.values))
	args := make([]interface{}, 0, len(q.values)*len(q.cols))
	placeholders := "(" + strings.TrimSuffix(strings.Repeat("?, ", len(q.cols)), ", ") + ")"
	for i, row := range q.values {
		if len(row) != len(q.cols) {
			return "", nil, fmt.Errorf("row %d has %d values for %d columns", i, len(row), len(q.cols))
		}
		tuples = append(tuples, placeholders)
		args = append(args, row...)
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s",
		q.qualifiedTable(), strings.Join(q.cols, ", "), strings.Join(tuples, ", "))
	if len(q.onConflict) > 0 && q.doNothing {
		query += fmt.Sprintf(" ON CONFLICT (%s) DO NOTHING", strings.Join(q.onConflict, ", "))
	}
	return query, args, nil
}
