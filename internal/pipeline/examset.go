package pipeline

import "cbctcli/internal/header"

// ExamSet holds at most one record per series instance UID, in first-seen
// order. First wins: a CBCT examination is often split across several
// near-identical header files (one per reconstructed stack), and only one
// representative belongs in the statistics table.
type ExamSet struct {
	order   []string
	records map[string]*header.Record
}

// NewExamSet creates an empty examination set
func NewExamSet() *ExamSet {
	return &ExamSet{records: make(map[string]*header.Record)}
}

// Contains reports whether a record with this UID has been added
func (s *ExamSet) Contains(uid string) bool {
	_, ok := s.records[uid]
	return ok
}

// Add inserts a record under its UID. It returns false, without replacing
// anything, when the UID is already present.
func (s *ExamSet) Add(uid string, rec *header.Record) bool {
	if s.Contains(uid) {
		return false
	}
	s.order = append(s.order, uid)
	s.records[uid] = rec
	return true
}

// Len returns the number of unique examinations
func (s *ExamSet) Len() int {
	return len(s.order)
}

// Records returns the retained records in first-seen order
func (s *ExamSet) Records() []*header.Record {
	out := make([]*header.Record, len(s.order))
	for i, uid := range s.order {
		out[i] = s.records[uid]
	}
	return out
}
