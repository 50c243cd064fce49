// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dedup

import (
	"strings"

	"github.com/pdiddy/sysreview/pkg/types"
)

// RemoveUnwanted drops records that are not papers: titles on the removal
// list (index pages, tables of contents), missing or boilerplate abstracts,
// and excluded document types (compared case-insensitively).
func RemoveUnwanted(records []types.Record, cfg types.DedupConfig) []types.Record {
	titles := toSet(cfg.TitlesToRemove, false)
	abstracts := toSet(cfg.AbstractsToRemove, false)
	docTypes := toSet(cfg.ExcludedDocumentTypes, true)

	var out []types.Record
	for _, r := range records {
		switch {
		case titles[r.Title]:
		case missing(r.Abstract) || abstracts[r.Abstract]:
		case docTypes[strings.ToLower(r.DocumentIdentifier)]:
		default:
			out = append(out, r)
		}
	}
	return out
}

func toSet(values []string, lower bool) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		if lower {
			v = strings.ToLower(v)
		}
		set[v] = true
	}
	return set
}
