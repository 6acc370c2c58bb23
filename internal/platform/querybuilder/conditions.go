package querybuilder

import (
	"strconv"
	"strings"
)

// Condition renders one predicate of a WHERE clause using postgres positional placeholders.
type Condition interface {
	appendSQL(buf *strings.Builder, args *[]any, argIndex *int)
}

type cmpCondition struct {
	column string
	op     string
	value  any
}

func (c cmpCondition) appendSQL(buf *strings.Builder, args *[]any, argIndex *int) {
	buf.WriteString(c.column)
	buf.WriteByte(' ')
	buf.WriteString(c.op)
	buf.WriteByte(' ')
	bind(buf, args, argIndex, c.value)
}

func Eq(column string, value any) Condition  { return cmpCondition{column, "=", value} }
func Neq(column string, value any) Condition { return cmpCondition{column, "<>", value} }
func Gt(column string, value any) Condition  { return cmpCondition{column, ">", value} }
func Gte(column string, value any) Condition { return cmpCondition{column, ">=", value} }
func Lt(column string, value any) Condition  { return cmpCondition{column, "<", value} }
func Lte(column string, value any) Condition { return cmpCondition{column, "<=", value} }

// ILike matches case-insensitively; the caller supplies any % wildcards.
func ILike(column string, pattern string) Condition { return cmpCondition{column, "ILIKE", pattern} }

// Between is inclusive on both ends, matching SQL BETWEEN.
func Between(column string, from, to any) Condition {
	return betweenCondition{column: column, from: from, to: to}
}

type betweenCondition struct {
	column   string
	from, to any
}

func (c betweenCondition) appendSQL(buf *strings.Builder, args *[]any, argIndex *int) {
	buf.WriteString(c.column)
	buf.WriteString(" BETWEEN ")
	bind(buf, args, argIndex, c.from)
	buf.WriteString(" AND ")
	bind(buf, args, argIndex, c.to)
}

type inCondition struct {
	column string
	values []any
}

// In renders an always-false predicate for an empty value list.
func In(column string, values []any) Condition {
	return inCondition{column: column, values: values}
}

func (c inCondition) appendSQL(buf *strings.Builder, args *[]any, argIndex *int) {
	if len(c.values) == 0 {
		buf.WriteString("1=0")
		return
	}

	buf.WriteString(c.column)
	buf.WriteString(" IN (")
	for i, v := range c.values {
		if i > 0 {
			buf.WriteString(", ")
		}
		bind(buf, args, argIndex, v)
	}
	buf.WriteByte(')')
}

type rawCondition string

func (c rawCondition) appendSQL(buf *strings.Builder, _ *[]any, _ *int) {
	buf.WriteString(string(c))
}

func IsNull(column string) Condition    { return rawCondition(column + " IS NULL") }
func IsNotNull(column string) Condition { return rawCondition(column + " IS NOT NULL") }

// EqLiteral inlines a quoted string, for constants that should stay visible in query plans.
func EqLiteral(column, value string) Condition {
	return rawCondition(column + " = " + quoteLiteral(value))
}

type exprCondition struct {
	expr string
	args []any
}

// Expr embeds a raw fragment; each '?' is bound to the next arg.
func Expr(expr string, args ...any) Condition {
	return exprCondition{expr: expr, args: args}
}

func (c exprCondition) appendSQL(buf *strings.Builder, args *[]any, argIndex *int) {
	buf.WriteString(rewritePlaceholders(c.expr, c.args, args, argIndex))
}

type orCondition []Condition

// Or groups conditions in parentheses joined by OR.
func Or(conditions ...Condition) Condition {
	return orCondition(conditions)
}

func (c orCondition) appendSQL(buf *strings.Builder, args *[]any, argIndex *int) {
	if len(c) == 0 {
		buf.WriteString("1=0")
		return
	}
	buf.WriteByte('(')
	for i, cond := range c {
		if i > 0 {
			buf.WriteString(" OR ")
		}
		cond.appendSQL(buf, args, argIndex)
	}
	buf.WriteByte(')')
}

func bind(buf *strings.Builder, args *[]any, argIndex *int, value any) {
	buf.WriteString(placeholder(*argIndex))
	*args = append(*args, value)
	*argIndex++
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
		if expr[i] != '?' || next >= len(exprArgs) {
			out.WriteByte(expr[i])
			continue
		}
		bind(&out, args, argIndex, exprArgs[next])
		next++
	}
	return out.String()
}

func quoteLiteral(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "''") + "'"
}
