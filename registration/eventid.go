package registration

import "fmt"

const (
	// EventIDPrefix matches the numbering printed on symposium passes.
	EventIDPrefix = "SYMPO"

	eventIDMinWidth = 2
)

// FormatEventID renders a sequence number as a pass ID: SYMPO01, SYMPO02,
// ... SYMPO99, SYMPO100. The width never shrinks below two digits so early
// IDs sort and read consistently.
func FormatEventID(seq int) string {
	return fmt.Sprintf("%s%0*d", EventIDPrefix, eventIDMinWidth, seq)
}
