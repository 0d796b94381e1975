package domain

// Source is a citation attached to an entry.
type Source struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Entry is one calendar-day record of the generated book. Entries are
// immutable once produced by the synthesizer; jobs only append them and the
// finalizer only reorders them.
type Entry struct {
	// Day is the calendar day the entry is written for, e.g. "March 12".
	Day string `json:"day"`

	// Year is the historical year of the event. Free-form so BCE notation
	// like "44 BC" round-trips untouched.
	Year string `json:"year"`

	Headline     string `json:"headline"`
	HistoryEvent string `json:"historyEvent"`

	// NameLink is an optional personalization connective tying the event
	// back to the subject.
	NameLink string `json:"nameLink,omitempty"`

	WhyIncluded string   `json:"whyIncluded"`
	Sources     []Source `json:"sources,omitempty"`
}
