package form

// Schema maps draft field names to the form section (tab) that renders them.
// Multi-section forms use it to route the user to the first offending tab.
type Schema map[string]string

// FirstSectionWithError returns the first section in display order that
// contains at least one field with an error, or "" when none does. Fields
// missing from the schema never steer the tab choice.
func FirstSectionWithError(errors map[string]string, schema Schema, order []string) string {
	if len(errors) == 0 {
		return ""
	}

	flagged := make(map[string]bool, len(order))
	for field := range errors {
		if section, ok := schema[field]; ok {
			flagged[section] = true
		}
	}

	for _, section := range order {
		if flagged[section] {
			return section
		}
	}
	return ""
}
