package resilience

import "sync"

type flightResult struct {
	done chan struct{}
	val  any
	err  error
}

// SingleFlight coalesces concurrent calls for the same key into one
// execution. The third return value reports whether the result was shared
// from another caller's execution.
type SingleFlight struct {
	mu       sync.Mutex
	inFlight map[string]*flightResult
}

func (g *SingleFlight) Do(key string, fn func() (any, error)) (any, error, bool) {
	g.mu.Lock()
	if g.inFlight == nil {
		g.inFlight = make(map[string]*flightResult)
	}
	if existing, ok := g.inFlight[key]; ok {
		g.mu.Unlock()
		<-existing.done
		return existing.val, existing.err, true
	}

	res := &flightResult{done: make(chan struct{})}
	g.inFlight[key] = res
	g.mu.Unlock()

	res.val, res.err = fn()
	close(res.done)

	g.mu.Lock()
	delete(g.inFlight, key)
	g.mu.Unlock()

	return res.val, res.err, false
}
