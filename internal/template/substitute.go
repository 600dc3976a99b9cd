// Package template expands value expressions used by the answer
// generator. Expressions mix profile variables (${age}) and built-in
// generator functions (${random(16,25)}, ${pick(a,b,c)}).
package template

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// varPattern matches ${...} placeholders.
var varPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// Variables resolves named values, typically a participant profile row.
type Variables interface {
	Get(key string) (any, bool)
}

// MapVariables is a simple map-based Variables implementation.
type MapVariables map[string]any

func (v MapVariables) Get(key string) (any, bool) {
	val, ok := v[key]
	return val, ok
}

// NoVariables resolves nothing; use when no profile source is configured.
var NoVariables Variables = MapVariables(nil)

// Substitute replaces ${name} and ${fn(args)} placeholders in expr.
// Function calls are tried first, then variable lookup. Returns all
// errors joined if multiple placeholders fail.
// If expr contains no placeholders, it is returned unchanged (fast path).
func Substitute(expr string, vars Variables) (string, error) {
	if !strings.Contains(expr, "${") {
		return expr, nil
	}
	if vars == nil {
		vars = NoVariables
	}

	var errs []error
	result := varPattern.ReplaceAllStringFunc(expr, func(match string) string {
		name := match[2 : len(match)-1] // content between ${ and }

		if val, handled, err := evalFunction(name); handled {
			if err != nil {
				errs = append(errs, err)
				return match
			}
			return val
		}

		if val, ok := vars.Get(name); ok {
			return fmt.Sprintf("%v", val)
		}
		errs = append(errs, fmt.Errorf("variable %q not found", name))
		return match
	})

	if len(errs) > 0 {
		return "", errors.Join(errs...)
	}
	return result, nil
}
