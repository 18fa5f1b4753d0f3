package postgres

import (
	"fmt"
	"strings"
)

// conditions accumulates WHERE clauses with positional placeholders.
// Each clause is a format string whose %s (or %[1]s) verbs receive the placeholder
// of the argument being added.
type conditions struct {
	clauses []string
	args    []interface{}
}

func (c *conditions) add(clause string, arg interface{}) {
	c.args = append(c.args, arg)
	c.clauses = append(c.clauses, fmt.Sprintf(clause, fmt.Sprintf("$%d", len(c.args))))
}

// addRaw appends a clause that takes no argument
func (c *conditions) addRaw(clause string) {
	c.clauses = append(c.clauses, clause)
}

func (c *conditions) where() string {
	if len(c.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(c.clauses, " AND ")
}

// paginate appends LIMIT/OFFSET placeholders and returns the suffix plus full args
func (c *conditions) paginate(limit, offset int32) (string, []interface{}) {
	n := len(c.args)
	args := append(append([]interface{}{}, c.args...), limit, offset)
	return fmt.Sprintf(" LIMIT $%d OFFSET $%d", n+1, n+2), args
}
