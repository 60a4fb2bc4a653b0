package utils

import (
	"sort"
	"strings"
)

// SplitList splits a comma-separated list, trimming blanks and dropping duplicates.
func SplitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{}
	}
	seen := make(map[string]bool)
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" || seen[part] {
			continue
		}
		seen[part] = true
		out = append(out, part)
	}
	return out
}

// ContainsFold reports whether any of fields contains query, ignoring case.
// query is expected to be lower-cased and trimmed already.
func ContainsFold(query string, fields ...string) bool {
	for _, f := range fields {
		if f != "" && strings.Contains(strings.ToLower(f), query) {
			return true
		}
	}
	return false
}

// SortedUnique returns the deduplicated, sorted union of the given tag lists.
func SortedUnique(lists ...[]string) []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, list := range lists {
		for _, v := range list {
			if !seen[v] {
				seen[v] = true
				out = append(out, v)
			}
		}
	}
	sort.Strings(out)
	return out
}
