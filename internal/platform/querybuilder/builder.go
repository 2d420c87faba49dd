// Package querybuilder composes the small set of parameterized SQL
// statements the snapshot repository needs, with Postgres-style numbered
// placeholders.
package querybuilder

import (
	"fmt"
	"strconv"
	"strings"
)

// Condition renders one WHERE predicate and returns the next placeholder
// index.
type Condition func(sql *strings.Builder, args *[]any, next int) int

func Eq(column string, value any) Condition {
	return func(sql *strings.Builder, args *[]any, next int) int {
		fmt.Fprintf(sql, "%s = $%d", column, next)
		*args = append(*args, value)
		return next + 1
	}
}

func In(column string, values []any) Condition {
	return func(sql *strings.Builder, args *[]any, next int) int {
		if len(values) == 0 {
			sql.WriteString("1=0")
			return next
		}
		sql.WriteString(column)
		sql.WriteString(" IN (")
		for i, v := range values {
			if i > 0 {
				sql.WriteString(", ")
			}
			fmt.Fprintf(sql, "$%d", next)
			*args = append(*args, v)
			next++
		}
		sql.WriteString(")")
		return next
	}
}

type SelectBuilder struct {
	columns []string
	table   string
	where   []Condition
	orderBy []string
	limit   int
}

func Select(columns ...string) *SelectBuilder {
	return &SelectBuilder{columns: append([]string(nil), columns...)}
}

func (b *SelectBuilder) From(table string) *SelectBuilder {
	b.table = table
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

func (b *SelectBuilder) Limit(limit int) *SelectBuilder {
	b.limit = limit
	return b
}

func (b *SelectBuilder) ToSQL() (string, []any, error) {
	if len(b.columns) == 0 {
		return "", nil, fmt.Errorf("select columns are required")
	}
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("select table is required")
	}

	var sql strings.Builder
	sql.WriteString("SELECT ")
	sql.WriteString(strings.Join(b.columns, ", "))
	sql.WriteString(" FROM ")
	sql.WriteString(b.table)

	var args []any
	next := 1
	for i, cond := range b.where {
		if i == 0 {
			sql.WriteString(" WHERE ")
		} else {
			sql.WriteString(" AND ")
		}
		next = cond(&sql, &args, next)
	}

	if len(b.orderBy) > 0 {
		sql.WriteString(" ORDER BY ")
		sql.WriteString(strings.Join(b.orderBy, ", "))
	}
	if b.limit > 0 {
		sql.WriteString(" LIMIT ")
		sql.WriteString(strconv.Itoa(b.limit))
	}

	return sql.String(), args, nil
}

type InsertBuilder struct {
	table   string
	columns []string
	values  []any
}

func InsertInto(table string) *InsertBuilder {
	return &InsertBuilder{table: table}
}

// Set adds one column/value pair to the row being inserted.
func (b *InsertBuilder) Set(column string, value any) *InsertBuilder {
	b.columns = append(b.columns, column)
	b.values = append(b.values, value)
	return b
}

func (b *InsertBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("insert table is required")
	}
	if len(b.columns) == 0 {
		return "", nil, fmt.Errorf("insert columns are required")
	}

	placeholders := make([]string, len(b.columns))
	for i := range placeholders {
		placeholders[i] = "$" + strconv.Itoa(i+1)
	}

	sql := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		b.table,
		strings.Join(b.columns, ", "),
		strings.Join(placeholders, ", "),
	)
	return sql, append([]any(nil), b.values...), nil
}
