package domain

import "strings"

// Note is a curated fact note used as authoritative context for the food
// normalizer. Only ID and Text are persisted; Name and NameNorm are derived
// on every read by the store and never written back.
type Note struct {
	ID   int    `json:"id"`
	Text string `json:"text"`

	// Name is the substring of Text before the first comma, trimmed.
	Name string `json:"-"`
	// NameNorm is Normalize(Name).
	NameNorm string `json:"-"`
}

// DeriveName recomputes the Name and NameNorm fields from Text.
func (n *Note) DeriveName() {
	name, _, _ := strings.Cut(n.Text, ",")
	n.Name = strings.TrimSpace(name)
	n.NameNorm = Normalize(n.Name)
}

// NextNoteID returns the id to assign to a newly added note: one past the
// highest existing id, so ids are strictly increasing and never reused
// after a deletion.
func NextNoteID(notes []*Note) int {
	max := 0
	for _, n := range notes {
		if n.ID > max {
			max = n.ID
		}
	}
	return max + 1
}
