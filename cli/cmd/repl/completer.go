package repl

import (
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/gate/lang"
)

// completer suggests function names for the word under the cursor.
type completer struct {
	names []string // built-ins plus registered extensions
}

func newCompleter(reg *lang.Registry) completer {
	names := lang.BuiltinNames()

	for _, name := range reg.Names() {
		if ext, ok := reg.Lookup(name); ok {
			names = append(names, ext.Name)
		}
	}

	return completer{names: names}
}

// complete replaces the trailing identifier of line with its best fuzzy
// match among the known function names. Lines ending outside an
// identifier are returned unchanged.
func (c completer) complete(line string) string {
	head, partial := splitPartial(line)
	if partial == "" {
		return line
	}

	matches := fuzzy.Find(partial, c.names)
	if len(matches) == 0 {
		return line
	}

	return head + matches[0].Str
}

// splitPartial splits line into everything before the trailing
// identifier and the identifier itself.
func splitPartial(line string) (head, partial string) {
	i := len(line)

	for i > 0 {
		c := line[i-1]

		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') ||
			(c >= '0' && c <= '9') || c == '_' {
			i--

			continue
		}

		break
	}

	return line[:i], line[i:]
}
