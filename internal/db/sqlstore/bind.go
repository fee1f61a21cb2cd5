package sqlstore

import (
	"database/sql"
	"fmt"
	"regexp"

	"github.com/kailas-cloud/forumsearch/internal/db"
)

var namedParamRe = regexp.MustCompile(`:(Search\d+)\b`)

// positional rewrites :SearchN placeholders to ? in textual order and
// orders the arguments to match. Every placeholder needs a named argument.
func positional(stmt db.Statement) (string, []any, error) {
	named := make(map[string]any, len(stmt.Args))
	for _, a := range stmt.Args {
		na, ok := a.(sql.NamedArg)
		if !ok {
			return "", nil, fmt.Errorf("argument %v is not named", a)
		}
		named[na.Name] = na.Value
	}

	var missing string
	args := make([]any, 0, len(stmt.Args))
	query := namedParamRe.ReplaceAllStringFunc(stmt.SQL, func(tok string) string {
		name := tok[1:]
		v, ok := named[name]
		if !ok {
			missing = name
			return tok
		}
		args = append(args, v)
		return "?"
	})
	if missing != "" {
		return "", nil, fmt.Errorf("no argument bound for :%s", missing)
	}
	return query, args, nil
}
