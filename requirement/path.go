package requirement

import "strings"

// rootPrefix is stripped from field paths: taxonomy rules address fields as
// "requirement.<field>" but records are traversed from their own root.
const rootPrefix = "requirement."

// Resolve resolves a dotted field path against a record and returns the
// semantic value found there, or Absent when any step of the traversal
// fails. Resolution never panics: a non-mapping value mid-path, a missing
// key, or an empty path all resolve to Absent.
func Resolve(rec Record, dotted string) Value {
	path := strings.TrimSpace(dotted)
	if path == "" {
		return Absent
	}

	if path == "requirement" {
		return ValueOf(map[string]any(rec))
	}
	path = strings.TrimPrefix(path, rootPrefix)

	cur := ValueOf(map[string]any(rec))
	for _, part := range strings.Split(path, ".") {
		m, ok := cur.Map()
		if !ok {
			return Absent
		}
		cur = ValueOf(m[part])
	}
	return cur
}
