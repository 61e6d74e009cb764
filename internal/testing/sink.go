package testing

import (
	"sync"

	"github.com/Alia5/pawd/motion"
)

// Report is one call to motion.Sink.ReportRelative.
type Report struct {
	Axis  motion.Axis
	Value int16
	Final bool
}

// RecordingSink keeps every report it receives.
type RecordingSink struct {
	mu      sync.Mutex
	reports []Report
	err     error
}

var _ motion.Sink = (*RecordingSink)(nil)

func (s *RecordingSink) ReportRelative(axis motion.Axis, value int16, final bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.reports = append(s.reports, Report{Axis: axis, Value: value, Final: final})
	return nil
}

func (s *RecordingSink) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *RecordingSink) Reports() []Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Report(nil), s.reports...)
}

func (s *RecordingSink) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports = nil
}
