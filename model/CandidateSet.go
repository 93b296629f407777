package model

import "iter"

// WitnessBundle holds the witness stack of every input of one accepted
// transaction, in input order.
type WitnessBundle [][][]byte

// Items returns the total number of witness items in the bundle.
func (wb WitnessBundle) Items() int {
	n := 0
	for _, stack := range wb {
		n += len(stack)
	}

	return n
}

// Candidate is a transaction accepted for inclusion together with its witnesses.
type Candidate struct {
	Tx      []byte
	Witness WitnessBundle
}

// CandidateSet collects accepted transactions. Insertion order is block order.
type CandidateSet struct {
	candidates []Candidate
}

func NewCandidateSet() *CandidateSet {
	return &CandidateSet{}
}

// Add appends an accepted transaction.
func (cs *CandidateSet) Add(tx []byte, witness WitnessBundle) {
	cs.candidates = append(cs.candidates, Candidate{Tx: tx, Witness: witness})
}

func (cs *CandidateSet) Len() int {
	if cs == nil {
		return 0
	}

	return len(cs.candidates)
}

// All iterates the candidates in insertion order.
func (cs *CandidateSet) All() iter.Seq2[int, Candidate] {
	return func(yield func(int, Candidate) bool) {
		if cs == nil {
			return
		}

		for i, c := range cs.candidates {
			if !yield(i, c) {
				return
			}
		}
	}
}
