package aggregate

import (
	"jobreach/internal/extract"
	"jobreach/internal/ledger"
	"jobreach/lib/textutil"
)

type Outcome int

const (
	// first occurrence of this address in the run, kept
	Added Outcome = iota
	// same address already seen earlier in this run, dropped
	DuplicateInRun
	// address present in the sent ledger, never handed to delivery
	AlreadyContacted
)

// Aggregator collects candidates across every query of the run, keyed
// on the normalized address. the first occurrence of each address wins,
// including its post context; conflicting author or title from later
// posts is discarded.
type Aggregator struct {
	ledger *ledger.Ledger
	seen   map[string]bool
	kept   []extract.Candidate
}

func New(sent *ledger.Ledger) *Aggregator {
	return &Aggregator{
		ledger: sent,
		seen:   map[string]bool{},
	}
}

func (a *Aggregator) Add(c extract.Candidate) Outcome {
	key := textutil.NormalizeEmail(c.Email)
	if a.seen[key] {
		return DuplicateInRun
	}
	a.seen[key] = true

	if a.ledger != nil && a.ledger.Contains(key) {
		return AlreadyContacted
	}
	a.kept = append(a.kept, c)
	return Added
}

// Candidates returns the kept candidates in discovery order.
func (a *Aggregator) Candidates() []extract.Candidate {
	return a.kept
}
