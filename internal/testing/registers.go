package testing

import "sync"

// RegisterWrite is one recorded register write.
type RegisterWrite struct {
	Addr  uint8
	Value uint8
}

// FakeRegisters is an in-memory register file that satisfies
// paw3222.Transport.
type FakeRegisters struct {
	mu        sync.Mutex
	regs      [256]uint8
	writes    []RegisterWrite
	deltas    []Sample
	readErr   map[uint8]error
	writeErr  map[uint8]error
	burstErr  error
	burstRead int
}

func (f *FakeRegisters) Set(addr, value uint8) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.regs[addr] = value
}

func (f *FakeRegisters) Get(addr uint8) uint8 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.regs[addr]
}

func (f *FakeRegisters) FailRead(addr uint8, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.readErr == nil {
		f.readErr = make(map[uint8]error)
	}
	f.readErr[addr] = err
}

func (f *FakeRegisters) FailWrite(addr uint8, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr == nil {
		f.writeErr = make(map[uint8]error)
	}
	f.writeErr[addr] = err
}

func (f *FakeRegisters) FailBurst(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.burstErr = err
}

// PushDelta queues a sample for the next burst read.
func (f *FakeRegisters) PushDelta(s Sample) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deltas = append(f.deltas, s)
}

func (f *FakeRegisters) ReadRegister(addr uint8) (uint8, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.readErr[addr]; err != nil {
		return 0, err
	}
	return f.regs[addr], nil
}

func (f *FakeRegisters) WriteRegister(addr, value uint8) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.writeErr[addr]; err != nil {
		return err
	}
	f.regs[addr] = value
	f.writes = append(f.writes, RegisterWrite{Addr: addr, Value: value})
	return nil
}

func (f *FakeRegisters) ReadMotionDelta() (int16, int16, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.burstRead++
	if f.burstErr != nil {
		return 0, 0, f.burstErr
	}
	if len(f.deltas) == 0 {
		return 0, 0, nil
	}
	s := f.deltas[0]
	f.deltas = f.deltas[1:]
	return s.DX, s.DY, nil
}

// Writes returns the successful writes in order.
func (f *FakeRegisters) Writes() []RegisterWrite {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]RegisterWrite(nil), f.writes...)
}

func (f *FakeRegisters) ResetWrites() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes = nil
}

func (f *FakeRegisters) BurstReads() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.burstRead
}

// FakePower records supply switching.
type FakePower struct {
	mu     sync.Mutex
	states []bool
}

func (p *FakePower) SetPower(on bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.states = append(p.states, on)
	return nil
}

func (p *FakePower) States() []bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]bool(nil), p.states...)
}
