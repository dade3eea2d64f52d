// Package console runs the tiny Python subset used by the lesson playground:
// variable assignment and print(...) of literals, variables and arithmetic.
package console

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

type Status string

const (
	StatusOutput          Status = "output"
	StatusNoVisibleOutput Status = "executed_no_output"
	StatusNoOutput        Status = "no_output"
	StatusError           Status = "error"
)

const (
	MessageNoVisibleOutput = "Code executed successfully (no visible output).\nTip: use print() to see results."
	MessageNoOutput        = "No output detected.\nMake sure you use print() to show results."
	MessageRuntimeError    = "Error while running the code."
)

type Result struct {
	Output    string           `json:"output"`
	Status    Status           `json:"status"`
	Variables map[string]Value `json:"variables,omitempty"`
}

var (
	assignPattern     = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)\s*=\s*(.+)$`)
	printPattern      = regexp.MustCompile(`^print\s*\(\s*(.+?)\s*\)$`)
	integerPattern    = regexp.MustCompile(`^\d+$`)
	decimalPattern    = regexp.MustCompile(`^\d+\.\d+$`)
	arithmeticPattern = regexp.MustCompile(`^[\d+\-*/\s()]+$`)
)

// Evaluate interprets source line by line. Assignments are recognised before
// print calls; any other line is ignored.
func Evaluate(source string) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = Result{Output: MessageRuntimeError, Status: StatusError}
		}
	}()

	vars := make(map[string]Value)
	var out []string

	for _, raw := range strings.Split(source, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if name, rhs, ok := matchAssignment(line); ok {
			vars[name] = assignedValue(rhs, vars)
			continue
		}

		if m := printPattern.FindStringSubmatch(line); m != nil {
			out = append(out, printed(m[1], vars))
		}
	}

	switch {
	case len(out) > 0:
		transcript := strings.TrimRightFunc(strings.Join(out, "\n"), unicode.IsSpace)
		return Result{Output: transcript, Status: StatusOutput, Variables: vars}
	case len(vars) > 0:
		return Result{Output: MessageNoVisibleOutput, Status: StatusNoVisibleOutput, Variables: vars}
	default:
		return Result{Output: MessageNoOutput, Status: StatusNoOutput}
	}
}

func matchAssignment(line string) (name, rhs string, ok bool) {
	m := assignPattern.FindStringSubmatch(line)
	if m == nil {
		return "", "", false
	}
	// "x == 1" is a comparison, not an assignment.
	if strings.HasPrefix(m[2], "=") {
		return "", "", false
	}
	return m[1], strings.TrimSpace(m[2]), true
}

// stringLiteral reports whether s is exactly one quoted literal and returns its content.
func stringLiteral(s string) (string, bool) {
	if len(s) < 2 || !isQuote(s[0]) || s[len(s)-1] != s[0] {
		return "", false
	}
	inner := s[1 : len(s)-1]
	if strings.IndexByte(inner, s[0]) >= 0 {
		return "", false
	}
	return inner, true
}

func assignedValue(rhs string, vars map[string]Value) Value {
	if s, ok := stringLiteral(rhs); ok {
		return StringValue(s)
	}
	if integerPattern.MatchString(rhs) || decimalPattern.MatchString(rhs) {
		if v, err := parseNumber(rhs); err == nil {
			return v
		}
	}
	if arithmeticPattern.MatchString(rhs) {
		if v, err := EvalExpression(rhs, nil); err == nil {
			return v
		}
		return StringValue(rhs)
	}
	if v, ok := vars[rhs]; ok {
		return v
	}
	return StringValue(rhs)
}

func printed(arg string, vars map[string]Value) string {
	if s, ok := stringLiteral(arg); ok {
		return s
	}
	if v, ok := vars[arg]; ok {
		return v.String()
	}
	if arithmeticPattern.MatchString(arg) {
		v, err := EvalExpression(arg, nil)
		if err != nil {
			return "Error evaluating: " + arg
		}
		return v.String()
	}
	if strings.Contains(arg, "+") {
		v, err := EvalExpression(arg, vars)
		if err != nil {
			return "Error: could not evaluate expression"
		}
		return v.String()
	}
	return fmt.Sprintf("Error: undefined variable '%s'", arg)
}
