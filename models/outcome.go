package models

// Counts holds how many times an address appeared in each role within the
// known leak corpora.
type Counts struct {
	RealSender int
	FakeSender int
	Recipient  int
}

// Outcome is the classified lookup result. The zero value is NotFound.
type Outcome struct {
	Found  bool
	Counts Counts
}

// NotFound is the negative outcome; its counts are always zero.
var NotFound = Outcome{}

// FoundWith returns a positive outcome carrying c.
func FoundWith(c Counts) Outcome {
	return Outcome{Found: true, Counts: c}
}

// Record is one processed address, written as a single output line.
type Record struct {
	Address string
	Outcome Outcome
}
