package querybuilder

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lib/pq"
)

type Condition interface {
	appendSQL(buf *strings.Builder, args *[]any, argIndex *int)
}

type compareCondition struct {
	column string
	op     string
	value  any
}

func Eq(column string, value any) Condition {
	return compareCondition{column: column, op: "=", value: value}
}

func Gte(column string, value any) Condition {
	return compareCondition{column: column, op: ">=", value: value}
}

func Lte(column string, value any) Condition {
	return compareCondition{column: column, op: "<=", value: value}
}

func (c compareCondition) appendSQL(buf *strings.Builder, args *[]any, argIndex *int) {
	buf.WriteString(c.column)
	buf.WriteString(" ")
	buf.WriteString(c.op)
	buf.WriteString(" ")
	buf.WriteString(placeholder(*argIndex))
	*args = append(*args, c.value)
	*argIndex = *argIndex + 1
}

type anyCondition struct {
	column string
	values any
	empty  bool
}

// Any binds a whole slice as one postgres array parameter: column = ANY($n).
// An empty slice matches nothing.
func Any[T any](column string, values []T) Condition {
	return anyCondition{column: column, values: pq.Array(values), empty: len(values) == 0}
}

func (c anyCondition) appendSQL(buf *strings.Builder, args *[]any, argIndex *int) {
	if c.empty {
		buf.WriteString("1=0")
		return
	}
	buf.WriteString(c.column)
	buf.WriteString(" = ANY(")
	buf.WriteString(placeholder(*argIndex))
	buf.WriteString(")")
	*args = append(*args, c.values)
	*argIndex = *argIndex + 1
}

type exprCondition struct {
	expr string
	args []any
}

func Expr(expr string, args ...any) Condition {
	return exprCondition{expr: expr, args: args}
}

func (c exprCondition) appendSQL(buf *strings.Builder, args *[]any, argIndex *int) {
	buf.WriteString(rewritePlaceholders(c.expr, c.args, args, argIndex))
}

type SelectBuilder struct {
	columns []string
	table   string
	joins   []string
	where   []Condition
	groupBy []string
	orderBy []string
	limit   int
	offset  int
}

func Select(columns ...string) *SelectBuilder {
	return &SelectBuilder{columns: append([]string(nil), columns...)}
}

func (b *SelectBuilder) From(table string) *SelectBuilder {
	b.table = table
	return b
}

// Join appends a raw join clause, e.g. "JOIN matches m ON m.id = p.match_id".
func (b *SelectBuilder) Join(clause string) *SelectBuilder {
	b.joins = append(b.joins, strings.TrimSpace(clause))
	return b
}

func (b *SelectBuilder) Where(conditions ...Condition) *SelectBuilder {
	b.where = append(b.where, conditions...)
	return b
}

func (b *SelectBuilder) OrderBy(parts ...string) *SelectBuilder {
	b.orderBy = append(b.orderBy, parts...)
	return b
}

func (b *SelectBuilder) GroupBy(parts ...string) *SelectBuilder {
	b.groupBy = append(b.groupBy, parts...)
	return b
}

func (b *SelectBuilder) Limit(limit int) *SelectBuilder {
	b.limit = limit
	return b
}

func (b *SelectBuilder) Offset(offset int) *SelectBuilder {
	b.offset = offset
	return b
}

func (b *SelectBuilder) ToSQL() (string, []any, error) {
	if len(b.columns) == 0 {
		return "", nil, fmt.Errorf("select columns are required")
	}
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("select table is required")
	}

	var buf strings.Builder
	buf.WriteString("SELECT ")
	buf.WriteString(strings.Join(b.columns, ", "))
	buf.WriteString(" FROM ")
	buf.WriteString(b.table)
	for _, join := range b.joins {
		buf.WriteString(" ")
		buf.WriteString(join)
	}

	args := make([]any, 0, len(b.where))
	argIndex := 1
	appendWhereClause(&buf, b.where, &args, &argIndex)
	appendGroupByClause(&buf, b.groupBy)
	appendOrderByClause(&buf, b.orderBy)
	if b.limit > 0 {
		buf.WriteString(" LIMIT ")
		buf.WriteString(strconv.Itoa(b.limit))
	}
	if b.offset > 0 {
		buf.WriteString(" OFFSET ")
		buf.WriteString(strconv.Itoa(b.offset))
	}

	return buf.String(), args, nil
}

type unnestColumn struct {
	name    string
	sqlType string
	values  any
	length  int
}

// UnnestBuilder produces column-oriented bulk statements: each column is bound
// once as a typed array and expanded server-side with UNNEST, so the statement
// size does not grow with the row count.
type UnnestBuilder struct {
	table   string
	columns []unnestColumn
	exprs   map[string]string
	suffix  string
	err     error
}

func Unnest(table string) *UnnestBuilder {
	return &UnnestBuilder{table: table}
}

// Column binds values as $n::sqlType[]. All columns must have equal length.
func Column[T any](b *UnnestBuilder, name, sqlType string, values []T) *UnnestBuilder {
	if b.err == nil && len(b.columns) > 0 && b.columns[0].length != len(values) {
		b.err = fmt.Errorf("unnest column %s has %d values, expected %d", name, len(values), b.columns[0].length)
	}
	b.columns = append(b.columns, unnestColumn{
		name:    name,
		sqlType: sqlType,
		values:  pq.Array(values),
		length:  len(values),
	})
	return b
}

// Project replaces the inserted value of column with expr, evaluated over the
// unnested row aliased as data. Only InsertSQL honours projections.
func (b *UnnestBuilder) Project(column, expr string) *UnnestBuilder {
	if b.exprs == nil {
		b.exprs = make(map[string]string)
	}
	b.exprs[column] = expr
	return b
}

func (b *UnnestBuilder) Suffix(sql string) *UnnestBuilder {
	b.suffix = strings.TrimSpace(sql)
	return b
}

func (b *UnnestBuilder) validate() error {
	if b.err != nil {
		return b.err
	}
	if strings.TrimSpace(b.table) == "" {
		return fmt.Errorf("unnest table is required")
	}
	if len(b.columns) == 0 {
		return fmt.Errorf("unnest columns are required")
	}
	return nil
}

// InsertSQL renders INSERT INTO t (cols) SELECT * FROM UNNEST(...) [suffix],
// or an explicit select list over data(cols) when a column is projected.
func (b *UnnestBuilder) InsertSQL() (string, []any, error) {
	if err := b.validate(); err != nil {
		return "", nil, err
	}

	names := make([]string, 0, len(b.columns))
	casts := make([]string, 0, len(b.columns))
	args := make([]any, 0, len(b.columns))
	for i, col := range b.columns {
		names = append(names, col.name)
		casts = append(casts, placeholder(i+1)+"::"+col.sqlType+"[]")
		args = append(args, col.values)
	}

	var buf strings.Builder
	buf.WriteString("INSERT INTO ")
	buf.WriteString(b.table)
	buf.WriteString(" (")
	buf.WriteString(strings.Join(names, ", "))
	if len(b.exprs) == 0 {
		buf.WriteString(") SELECT * FROM UNNEST(")
		buf.WriteString(strings.Join(casts, ", "))
		buf.WriteString(")")
	} else {
		selects := make([]string, 0, len(names))
		for _, name := range names {
			if expr, ok := b.exprs[name]; ok {
				selects = append(selects, expr)
				continue
			}
			selects = append(selects, "data."+name)
		}
		buf.WriteString(") SELECT ")
		buf.WriteString(strings.Join(selects, ", "))
		buf.WriteString(" FROM UNNEST(")
		buf.WriteString(strings.Join(casts, ", "))
		buf.WriteString(") AS data(")
		buf.WriteString(strings.Join(names, ", "))
		buf.WriteString(")")
	}
	if b.suffix != "" {
		buf.WriteString(" ")
		buf.WriteString(b.suffix)
	}

	return buf.String(), args, nil
}

// UpdateSQL renders UPDATE t SET c = data.c FROM (SELECT UNNEST(...) AS c, ...) AS data
// WHERE t.key = data.key [AND extra]. The key column is not updated.
func (b *UnnestBuilder) UpdateSQL(key string, extra ...string) (string, []any, error) {
	if err := b.validate(); err != nil {
		return "", nil, err
	}

	sets := make([]string, 0, len(b.columns))
	selects := make([]string, 0, len(b.columns))
	args := make([]any, 0, len(b.columns))
	hasKey := false
	for i, col := range b.columns {
		selects = append(selects, "UNNEST("+placeholder(i+1)+"::"+col.sqlType+"[]) AS "+col.name)
		args = append(args, col.values)
		if col.name == key {
			hasKey = true
			continue
		}
		sets = append(sets, col.name+" = data."+col.name)
	}
	if !hasKey {
		return "", nil, fmt.Errorf("unnest update key %s is not a column", key)
	}
	if len(sets) == 0 {
		return "", nil, fmt.Errorf("unnest update has no columns to set")
	}

	var buf strings.Builder
	buf.WriteString("UPDATE ")
	buf.WriteString(b.table)
	buf.WriteString(" SET ")
	buf.WriteString(strings.Join(sets, ", "))
	buf.WriteString(" FROM (SELECT ")
	buf.WriteString(strings.Join(selects, ", "))
	buf.WriteString(") AS data WHERE ")
	buf.WriteString(b.table + "." + key + " = data." + key)
	for _, cond := range extra {
		buf.WriteString(" AND ")
		buf.WriteString(cond)
	}
	if b.suffix != "" {
		buf.WriteString(" ")
		buf.WriteString(b.suffix)
	}

	return buf.String(), args, nil
}

type setClause struct {
	column string
	value  any
	expr   bool
}

type UpdateBuilder struct {
	table  string
	sets   []setClause
	where  []Condition
	suffix string
}

func Update(table string) *UpdateBuilder {
	return &UpdateBuilder{table: table}
}

func (b *UpdateBuilder) Set(column string, value any) *UpdateBuilder {
	b.sets = append(b.sets, setClause{column: column, value: value})
	return b
}

func (b *UpdateBuilder) SetExpr(column, expr string, args ...any) *UpdateBuilder {
	b.sets = append(b.sets, setClause{
		column: column,
		value:  exprCondition{expr: expr, args: args},
		expr:   true,
	})
	return b
}

func (b *UpdateBuilder) Where(conditions ...Condition) *UpdateBuilder {
	b.where = append(b.where, conditions...)
	return b
}

func (b *UpdateBuilder) Suffix(sql string) *UpdateBuilder {
	b.suffix = strings.TrimSpace(sql)
	return b
}

func (b *UpdateBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("update table is required")
	}
	if len(b.sets) == 0 {
		return "", nil, fmt.Errorf("update sets are required")
	}

	var buf strings.Builder
	buf.WriteString("UPDATE ")
	buf.WriteString(b.table)
	buf.WriteString(" SET ")

	args := make([]any, 0, len(b.sets)+len(b.where))
	argIndex := 1
	for i, s := range b.sets {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(s.column)
		buf.WriteString(" = ")

		if s.expr {
			expr := s.value.(exprCondition)
			buf.WriteString(rewritePlaceholders(expr.expr, expr.args, &args, &argIndex))
			continue
		}

		buf.WriteString(placeholder(argIndex))
		args = append(args, s.value)
		argIndex++
	}

	appendWhereClause(&buf, b.where, &args, &argIndex)
	if b.suffix != "" {
		buf.WriteString(" ")
		buf.WriteString(b.suffix)
	}

	return buf.String(), args, nil
}

func appendWhereClause(buf *strings.Builder, conditions []Condition, args *[]any, argIndex *int) {
	if len(conditions) == 0 {
		return
	}
	buf.WriteString(" WHERE ")
	for i, c := range conditions {
		if i > 0 {
			buf.WriteString(" AND ")
		}
		c.appendSQL(buf, args, argIndex)
	}
}

func appendOrderByClause(buf *strings.Builder, orderBy []string) {
	if len(orderBy) == 0 {
		return
	}
	buf.WriteString(" ORDER BY ")
	buf.WriteString(strings.Join(orderBy, ", "))
}

func appendGroupByClause(buf *strings.Builder, groupBy []string) {
	if len(groupBy) == 0 {
		return
	}
	buf.WriteString(" GROUP BY ")
	buf.WriteString(strings.Join(groupBy, ", "))
}

func placeholder(i int) string {
	return "$" + strconv.Itoa(i)
}

func rewritePlaceholders(expr string, exprArgs []any, args *[]any, argIndex *int) string {
	if len(exprArgs) == 0 {
		return expr
	}

	var out strings.Builder
	next := 0
	for i := 0; i < len(expr); i++ {
		if expr[i] == '?' {
			if next >= len(exprArgs) {
				out.WriteByte('?')
				continue
			}
			out.WriteString(placeholder(*argIndex))
			*args = append(*args, exprArgs[next])
			*argIndex = *argIndex + 1
			next++
			continue
		}
		out.WriteByte(expr[i])
	}
	return out.String()
}
