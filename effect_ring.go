package reactor

// effectRing is a fixed-size ring buffer of recent effect failures.
// A nil ring is disabled; only the element's last error is then retained.
type effectRing struct {
	failures []*EffectExecutionError
	size     int
	head     int
	count    int
}

// newEffectRing creates an effect failure ring with the given capacity.
// If size is 0, the ring is disabled.
func newEffectRing(size int) *effectRing {
	if size <= 0 {
		return nil
	}
	return &effectRing{
		failures: make([]*EffectExecutionError, size),
		size:     size,
	}
}

// push records an effect failure, evicting the oldest when full.
func (r *effectRing) push(err *EffectExecutionError) {
	if r == nil {
		return
	}
	r.failures[r.head] = err
	r.head = (r.head + 1) % r.size
	if r.count < r.size {
		r.count++
	}
}

// all returns the recorded failures, oldest first.
func (r *effectRing) all() []error {
	if r == nil || r.count == 0 {
		return nil
	}
	result := make([]error, r.count)
	start := (r.head - r.count + r.size) % r.size
	for i := 0; i < r.count; i++ {
		result[i] = r.failures[(start+i)%r.size]
	}
	return result
}
