package calculator

// Source names the kind of record behind a balance adjustment.
type Source string

const (
	SourceExpense    Source = "expense"
	SourceSettlement Source = "settlement"
)

// Adjustment describes one change to a counterparty tally while a balance
// view is being folded.
type Adjustment struct {
	Counterparty string
	Source       Source
	RecordID     string
	Delta        float64
	Balance      float64 // tally after Delta was applied
}

// Observer receives every Adjustment made by a balance fold. It is a
// side-channel for tracing only; a nil Observer is valid.
type Observer func(Adjustment)

func (o Observer) emit(a Adjustment) {
	if o != nil {
		o(a)
	}
}

// tally accumulates signed balances per counterparty.
// Positive means the counterparty owes the subject.
type tally struct {
	net map[string]float64
	obs Observer
}

func newTally(obs Observer) *tally {
	return &tally{net: make(map[string]float64), obs: obs}
}

func (t *tally) add(counterparty string, src Source, recordID string, delta float64) {
	t.net[counterparty] += delta
	t.obs.emit(Adjustment{
		Counterparty: counterparty,
		Source:       src,
		RecordID:     recordID,
		Delta:        delta,
		Balance:      t.net[counterparty],
	})
}
