// Package query builds the dynamic predicates and pagination primitives the
// controllers compose their SQL from. A Conj is a value: methods return a
// derived conjunction and never mutate the receiver, so a base predicate
// (for example the mandatory role-derived scope) can be shared and extended
// per request without hidden ordering effects.
package query

import (
	"fmt"
	"strings"
)

type term struct {
	expr string // contains one $%d placeholder per argument unless bare
	arg  any
	bare bool
}

// Conj is an immutable conjunction of SQL predicate terms.
type Conj struct {
	terms []term
}

func (c Conj) with(t term) Conj {
	terms := make([]term, len(c.terms), len(c.terms)+1)
	copy(terms, c.terms)
	return Conj{terms: append(terms, t)}
}

// Eq appends "column = $n".
func (c Conj) Eq(column string, v any) Conj {
	return c.with(term{expr: column + " = $%d", arg: v})
}

// Gt appends "column > $n".
func (c Conj) Gt(column string, v any) Conj {
	return c.with(term{expr: column + " > $%d", arg: v})
}

// Gte appends "column >= $n".
func (c Conj) Gte(column string, v any) Conj {
	return c.with(term{expr: column + " >= $%d", arg: v})
}

// Lt appends "column < $n".
func (c Conj) Lt(column string, v any) Conj {
	return c.with(term{expr: column + " < $%d", arg: v})
}

// Lte appends "column <= $n".
func (c Conj) Lte(column string, v any) Conj {
	return c.with(term{expr: column + " <= $%d", arg: v})
}

// Ne appends "column <> $n".
func (c Conj) Ne(column string, v any) Conj {
	return c.with(term{expr: column + " <> $%d", arg: v})
}

// IsNull appends "column IS NULL".
func (c Conj) IsNull(column string) Conj {
	return c.with(term{expr: column + " IS NULL", bare: true})
}

// RowGt appends a row-value comparison "(a, b, ...) > ($n, $n+1, ...)" used
// for compound keyset cursors.
func (c Conj) RowGt(columns []string, values []any) Conj {
	if len(columns) != len(values) || len(columns) == 0 {
		return c
	}
	placeholders := make([]string, len(columns))
	for i := range columns {
		placeholders[i] = "$%d"
	}
	expr := "(" + strings.Join(columns, ", ") + ") > (" + strings.Join(placeholders, ", ") + ")"
	return c.with(term{expr: expr, arg: values})
}

// Empty reports whether the conjunction constrains anything.
func (c Conj) Empty() bool {
	return len(c.terms) == 0
}

// SQL renders the conjunction with positional placeholders starting at
// startIdx and returns it together with the argument list. An empty
// conjunction renders to "" and no args (the unconstrained predicate).
func (c Conj) SQL(startIdx int) (string, []any) {
	if len(c.terms) == 0 {
		return "", nil
	}

	parts := make([]string, 0, len(c.terms))
	args := make([]any, 0, len(c.terms))
	n := startIdx

	for _, t := range c.terms {
		switch {
		case t.bare:
			parts = append(parts, t.expr)
		default:
			if vs, ok := t.arg.([]any); ok {
				nums := make([]any, 0, len(vs))
				for range vs {
					nums = append(nums, n)
					n++
				}
				parts = append(parts, fmt.Sprintf(t.expr, nums...))
				args = append(args, vs...)
				continue
			}
			parts = append(parts, fmt.Sprintf(t.expr, n))
			args = append(args, t.arg)
			n++
		}
	}

	return strings.Join(parts, " AND "), args
}

// Where renders " WHERE ..." or "" when the conjunction is empty.
func (c Conj) Where(startIdx int) (string, []any) {
	sql, args := c.SQL(startIdx)
	if sql == "" {
		return "", nil
	}
	return " WHERE " + sql, args
}
