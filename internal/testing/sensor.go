package testing

import (
	"sync"

	"github.com/Alia5/pawd/motion"
)

// Sample is one latched motion delta.
type Sample struct {
	DX, DY int16
}

// FakeSensor is a scripted motion.Sensor. Motion reports true while queued
// samples remain; ReadDelta pops the oldest one.
type FakeSensor struct {
	mu         sync.Mutex
	samples    []Sample
	motionErr  error
	deltaErr   error
	cpiErr     error
	resumeErr  error
	suspendErr error

	cpiCalls   []uint16
	deltaReads int
	suspends   int
	resumes    int
}

var _ motion.Sensor = (*FakeSensor)(nil)

func (s *FakeSensor) Push(samples ...Sample) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.samples = append(s.samples, samples...)
}

func (s *FakeSensor) FailMotion(err error) { s.set(&s.motionErr, err) }
func (s *FakeSensor) FailDelta(err error)  { s.set(&s.deltaErr, err) }
func (s *FakeSensor) FailCPI(err error)    { s.set(&s.cpiErr, err) }
func (s *FakeSensor) FailResume(err error) { s.set(&s.resumeErr, err) }
func (s *FakeSensor) FailSuspend(err error) {
	s.set(&s.suspendErr, err)
}

func (s *FakeSensor) set(dst *error, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	*dst = err
}

func (s *FakeSensor) Motion() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.motionErr != nil {
		return false, s.motionErr
	}
	return len(s.samples) > 0, nil
}

func (s *FakeSensor) ReadDelta() (int16, int16, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deltaReads++
	if s.deltaErr != nil {
		return 0, 0, s.deltaErr
	}
	if len(s.samples) == 0 {
		return 0, 0, nil
	}
	smp := s.samples[0]
	s.samples = s.samples[1:]
	return smp.DX, smp.DY, nil
}

func (s *FakeSensor) SetCPI(cpi uint16) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cpiCalls = append(s.cpiCalls, cpi)
	return s.cpiErr
}

func (s *FakeSensor) Suspend() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.suspends++
	return s.suspendErr
}

func (s *FakeSensor) Resume() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resumes++
	return s.resumeErr
}

// CPICalls returns every value passed to SetCPI, including failed ones.
func (s *FakeSensor) CPICalls() []uint16 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]uint16(nil), s.cpiCalls...)
}

func (s *FakeSensor) DeltaReads() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deltaReads
}

func (s *FakeSensor) Suspends() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.suspends
}

func (s *FakeSensor) Resumes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resumes
}
