package domain

import "fmt"

// CardStatus is the read-only classification of a flashcard derived from
// its ledger entry.
type CardStatus string

// Possible card status values
const (
	CardStatusUnseen     CardStatus = "unseen"
	CardStatusSeen       CardStatus = "seen"
	CardStatusMastered   CardStatus = "mastered"
	CardStatusStruggling CardStatus = "struggling"
)

// LedgerEntry holds the cumulative study counters for one flashcard.
// The zero value is the entry of a card that has never been answered.
type LedgerEntry struct {
	Correct   int `json:"correct"`
	Incorrect int `json:"incorrect"`
	Visits    int `json:"visits"`
}

// Validate checks that all counters are non-negative and that
// Visits == Correct + Incorrect.
func (e LedgerEntry) Validate() error {
	if e.Correct < 0 || e.Incorrect < 0 || e.Visits < 0 {
		return fmt.Errorf("%w: negative counter (%d/%d/%d)",
			ErrInvalidLedgerEntry, e.Correct, e.Incorrect, e.Visits)
	}
	if e.Visits != e.Correct+e.Incorrect {
		return fmt.Errorf("%w: visits %d != correct %d + incorrect %d",
			ErrInvalidLedgerEntry, e.Visits, e.Correct, e.Incorrect)
	}
	return nil
}

// Record returns a new entry with one more response applied.
func (e LedgerEntry) Record(wasCorrect bool) LedgerEntry {
	next := e
	if wasCorrect {
		next.Correct++
	} else {
		next.Incorrect++
	}
	next.Visits++
	return next
}

// IsZero reports whether the card has never been answered.
func (e LedgerEntry) IsZero() bool {
	return e == LedgerEntry{}
}

// Status classifies the entry: mastered when correct answers outnumber
// incorrect ones, struggling for the reverse, seen when tied with at least
// one visit, unseen otherwise.
func (e LedgerEntry) Status() CardStatus {
	switch {
	case e.Correct > e.Incorrect:
		return CardStatusMastered
	case e.Incorrect > e.Correct:
		return CardStatusStruggling
	case e.Visits > 0:
		return CardStatusSeen
	default:
		return CardStatusUnseen
	}
}

// StatusSummary counts cards per status.
type StatusSummary struct {
	Unseen     int `json:"unseen"`
	Seen       int `json:"seen"`
	Mastered   int `json:"mastered"`
	Struggling int `json:"struggling"`
}

// Summarize tallies the status of every entry.
func Summarize(entries []LedgerEntry) StatusSummary {
	var s StatusSummary
	for _, e := range entries {
		switch e.Status() {
		case CardStatusMastered:
			s.Mastered++
		case CardStatusStruggling:
			s.Struggling++
		case CardStatusSeen:
			s.Seen++
		default:
			s.Unseen++
		}
	}
	return s
}
