package fetcher

// Summary records the outcome of one FetchAll pass, in manifest order
// within each outcome class.
type Summary struct {
	Fetched []string
	Skipped []string
	Failed  []string
}

// Attempted returns the total number of manifest entries processed.
func (s Summary) Attempted() int {
	return len(s.Fetched) + len(s.Skipped) + len(s.Failed)
}

// Complete reports whether every entry is now present locally.
func (s Summary) Complete() bool {
	return len(s.Failed) == 0
}

// Status returns the outcome for a single entry.
func (s Summary) Status(entry string) EntryStatus {
	for _, e := range s.Fetched {
		if e == entry {
			return StatusFetched
		}
	}
	for _, e := range s.Skipped {
		if e == entry {
			return StatusSkipped
		}
	}
	for _, e := range s.Failed {
		if e == entry {
			return StatusFailed
		}
	}
	return StatusUnknown
}

// EntryStatus classifies the outcome of a single manifest entry.
type EntryStatus string

const (
	StatusFetched EntryStatus = "fetched"
	StatusSkipped EntryStatus = "skipped"
	StatusFailed  EntryStatus = "failed"
	StatusUnknown EntryStatus = "unknown"
)
