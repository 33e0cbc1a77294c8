package firestore

import "strings"

// matchKeywords reports whether any keyword appears in any of the given
// text columns, case-insensitively. Firestore queries cannot express a
// substring OR filter, so adapters fetch a bounded candidate window and
// apply this filter on the client. Empty keywords match everything.
func matchKeywords(keywords []string, columns ...string) bool {
	if len(keywords) == 0 {
		return true
	}

	for _, col := range columns {
		lowered := strings.ToLower(col)
		for _, kw := range keywords {
			if kw == "" {
				continue
			}
			if strings.Contains(lowered, strings.ToLower(kw)) {
				return true
			}
		}
	}

	return false
}
