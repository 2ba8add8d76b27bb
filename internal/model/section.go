package model

import "strings"

// Section is one titled block of strategy text, either from the static
// playbook or returned by the LLM.
type Section struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

// JoinSections renders sections as markdown with a level-two heading each
func JoinSections(sections []Section) string {
	var b strings.Builder
	for i, s := range sections {
		if i > 0 {
			b.WriteString("\n\n")
		}
		if s.Title != "" {
			b.WriteString("## ")
			b.WriteString(s.Title)
			b.WriteString("\n\n")
		}
		b.WriteString(strings.TrimSpace(s.Text))
	}
	return b.String()
}
