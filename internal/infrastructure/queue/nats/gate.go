package nats

import "sync"

// jobGate counts running handlers and refuses new ones once closed, so
// Add never races with the final Wait.
type jobGate struct {
	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

func (g *jobGate) enter() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return false
	}
	g.wg.Add(1)
	return true
}

func (g *jobGate) leave() { g.wg.Done() }

// closeAndWait stops admission and blocks until every admitted handler has left.
func (g *jobGate) closeAndWait() {
	g.mu.Lock()
	g.closed = true
	g.mu.Unlock()
	g.wg.Wait()
}
