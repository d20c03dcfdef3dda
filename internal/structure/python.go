package structure

import (
	"fmt"
	"regexp"
	"strings"
)

// pythonExtractor recovers structure from Python source lexically. It does
// not evaluate the code; it scans declaration lines, indentation, imports
// and comments, which is enough to enrich generation prompts.
type pythonExtractor struct{}

var (
	pyDefPattern    = regexp.MustCompile(`^(\s*)def\s+(\w+)\s*\(([^)]*)\)\s*(->[^:]+)?:`)
	pyClassPattern  = regexp.MustCompile(`^(\s*)class\s+(\w+)\s*(\([^)]*\))?\s*:`)
	pyImportPattern = regexp.MustCompile(`^\s*import\s+([\w., ]+)$`)
	pyFromPattern   = regexp.MustCompile(`^\s*from\s+([\w.]+)\s+import\s+(.+)`)
)

type pyClassFrame struct {
	index  int // position in Info.Types
	indent int
}

func (p *pythonExtractor) Extract(source string) (*Info, error) {
	lines := strings.Split(source, "\n")
	info := &Info{}
	var stack []pyClassFrame

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "#") {
			info.Comments = append(info.Comments, strings.TrimSpace(strings.TrimLeft(trimmed, "#")))
			continue
		}
		if trimmed == "" {
			continue
		}

		if m := pyFromPattern.FindStringSubmatch(line); m != nil {
			module := m[1]
			for _, name := range strings.Split(m[2], ",") {
				name = importedName(name)
				if name != "" {
					info.Imports = append(info.Imports, module+"."+name)
				}
			}
			continue
		}
		if m := pyImportPattern.FindStringSubmatch(line); m != nil {
			for _, name := range strings.Split(m[1], ",") {
				if name = importedName(name); name != "" {
					info.Imports = append(info.Imports, name)
				}
			}
			continue
		}

		if m := pyClassPattern.FindStringSubmatch(line); m != nil {
			indent := len(m[1])
			stack = popLeftClasses(stack, indent)
			info.Types = append(info.Types, Declaration{
				Name:      m[2],
				Docstring: pyDocstring(lines, i+1),
			})
			stack = append(stack, pyClassFrame{index: len(info.Types) - 1, indent: indent})
			continue
		}

		if strings.HasPrefix(trimmed, "def ") {
			m := pyDefPattern.FindStringSubmatch(line)
			if m == nil {
				// Signatures may span lines; retry against the joined header.
				m = pyDefPattern.FindStringSubmatch(joinHeader(lines, i))
			}
			if m == nil {
				return nil, &ParseError{Lang: "python", Err: fmt.Errorf("malformed def at line %d", i+1)}
			}
			indent := len(m[1])
			stack = popLeftClasses(stack, indent)
			info.Functions = append(info.Functions, Declaration{
				Name:      m[2],
				Docstring: pyDocstring(lines, i+1),
				Params:    splitParams(m[3]),
			})
			if len(stack) > 0 {
				owner := stack[len(stack)-1].index
				info.Types[owner].Members = append(info.Types[owner].Members, m[2])
			}
			continue
		}

		if strings.HasPrefix(trimmed, "class ") {
			return nil, &ParseError{Lang: "python", Err: fmt.Errorf("malformed class at line %d", i+1)}
		}

		// Any other statement at or left of a class's indent ends its body.
		stack = popLeftClasses(stack, indentOf(line))
	}

	info.Imports = dedupe(info.Imports)
	return info, nil
}

// popLeftClasses drops class frames the current indentation has stepped out of.
func popLeftClasses(stack []pyClassFrame, indent int) []pyClassFrame {
	for len(stack) > 0 && indent <= stack[len(stack)-1].indent {
		stack = stack[:len(stack)-1]
	}
	return stack
}

// joinHeader folds a declaration header that spans multiple lines into one.
func joinHeader(lines []string, start int) string {
	joined := lines[start]
	for j := start + 1; j < len(lines) && j < start+10; j++ {
		joined += " " + strings.TrimSpace(lines[j])
		if strings.Contains(lines[j], ":") {
			break
		}
	}
	return joined
}

func indentOf(line string) int {
	return len(line) - len(strings.TrimLeft(line, " \t"))
}

func importedName(raw string) string {
	name := strings.TrimSpace(raw)
	if idx := strings.Index(name, " as "); idx >= 0 {
		name = strings.TrimSpace(name[:idx])
	}
	name = strings.Trim(name, "()")
	return name
}

func splitParams(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var params []string
	for _, part := range strings.Split(raw, ",") {
		name := strings.TrimSpace(part)
		if cut := strings.IndexAny(name, "=:"); cut >= 0 {
			name = strings.TrimSpace(name[:cut])
		}
		name = strings.TrimLeft(name, "*")
		if name != "" {
			params = append(params, name)
		}
	}
	return params
}

// pyDocstring returns the string literal directly under a declaration, or "".
func pyDocstring(lines []string, start int) string {
	for i := start; i < len(lines); i++ {
		trimmed := strings.TrimSpace(lines[i])
		if trimmed == "" {
			continue
		}
		var quote string
		switch {
		case strings.HasPrefix(trimmed, `"""`):
			quote = `"""`
		case strings.HasPrefix(trimmed, `'''`):
			quote = `'''`
		default:
			return ""
		}
		body := trimmed[len(quote):]
		if end := strings.Index(body, quote); end >= 0 {
			return strings.TrimSpace(body[:end])
		}
		parts := []string{}
		if body != "" {
			parts = append(parts, body)
		}
		for j := i + 1; j < len(lines); j++ {
			line := strings.TrimSpace(lines[j])
			if end := strings.Index(line, quote); end >= 0 {
				if chunk := strings.TrimSpace(line[:end]); chunk != "" {
					parts = append(parts, chunk)
				}
				return strings.TrimSpace(strings.Join(parts, " "))
			}
			parts = append(parts, line)
		}
		return strings.TrimSpace(strings.Join(parts, " "))
	}
	return ""
}
