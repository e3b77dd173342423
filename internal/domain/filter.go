package domain

// FilterSelection holds the multi-select filter state from the detail view.
//
// The empty-selection semantics are asymmetric and deliberately preserved
// from the observed UI behavior: a non-nil empty Sectors or Severities slice
// excludes every record (the user deselected everything), while an empty or
// nil Organizations slice applies no organization filter at all (the control
// defaults to an empty selection meaning "all"). A nil Sectors or Severities
// slice means the control was never touched and applies no filter.
type FilterSelection struct {
	Sectors       []string `json:"sectors"`
	Severities    []string `json:"severities"`
	Organizations []string `json:"organizations"`
}

// Matches reports whether a record passes the selection.
func (f *FilterSelection) Matches(r *Record) bool {
	if f == nil {
		return true
	}
	if f.Sectors != nil && !contains(f.Sectors, r.Sector) {
		return false
	}
	if f.Severities != nil && !contains(f.Severities, r.Severity) {
		return false
	}
	if len(f.Organizations) > 0 && !contains(f.Organizations, r.Organization) {
		return false
	}
	return true
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
