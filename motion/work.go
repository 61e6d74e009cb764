package motion

// work is a coalescing single-slot work item. Submitting while a run is
// pending is a no-op; submitting while a run executes queues exactly one more.
type work chan struct{}

func newWork() work { return make(work, 1) }

func (w work) submit() bool {
	select {
	case w <- struct{}{}:
		return true
	default:
		return false
	}
}

// cancel drops a pending run, if any.
func (w work) cancel() bool {
	select {
	case <-w:
		return true
	default:
		return false
	}
}
