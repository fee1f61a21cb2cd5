package legacy

import "strings"

// Clause is one source table's contribution to the unioned search statement.
type Clause struct {
	selects []string
	from    string
	joins   []string
	where   []string
}

// NewClause starts a clause reading from the given table expression.
func NewClause(from string) *Clause {
	return &Clause{from: from}
}

// Select appends a select expression, aliased when alias is non-empty.
func (c *Clause) Select(expr, alias string) *Clause {
	if alias != "" {
		expr += " as " + alias
	}
	c.selects = append(c.selects, expr)
	return c
}

// Join appends a join expression, e.g. "join T t on t.ID = x.ID".
func (c *Clause) Join(expr string) *Clause {
	c.joins = append(c.joins, expr)
	return c
}

// Where appends a predicate; predicates are AND-combined.
func (c *Clause) Where(pred string) *Clause {
	c.where = append(c.where, pred)
	return c
}

// SQL renders the clause as a standalone select.
func (c *Clause) SQL() string {
	var sb strings.Builder
	sb.WriteString("select ")
	sb.WriteString(strings.Join(c.selects, ", "))
	sb.WriteString("\nfrom ")
	sb.WriteString(c.from)
	for _, j := range c.joins {
		sb.WriteString("\n")
		sb.WriteString(j)
	}
	if len(c.where) > 0 {
		sb.WriteString("\nwhere ")
		sb.WriteString(strings.Join(c.where, " and "))
	}
	return sb.String()
}
