package stream

import (
	"sync"
	"time"

	"github.com/prateushsharma/sei-Firewall/types"
)

// CallOutcome is the terminal state of a pending call
type CallOutcome struct {
	Result interface{}
	Err    error
}

// PendingCall is a registered call waiting for its response. The outcome
// channel delivers exactly one value.
type PendingCall struct {
	ID        string
	SessionID string
	IssuedAt  time.Time

	outcome chan CallOutcome
	timer   *time.Timer
}

// Outcome returns the channel the single terminal outcome arrives on
func (p *PendingCall) Outcome() <-chan CallOutcome {
	return p.outcome
}

// Correlator matches asynchronous responses back to the calls that
// issued them. Every registered call settles exactly once: with its
// response, or with a timeout.
type Correlator struct {
	mu      sync.Mutex
	pending map[string]*PendingCall
	timeout time.Duration
}

// NewCorrelator creates a correlator whose calls expire after timeout
func NewCorrelator(timeout time.Duration) *Correlator {
	return &Correlator{
		pending: make(map[string]*PendingCall),
		timeout: timeout,
	}
}

// Register tracks a new call under id. Reusing a live id settles the
// older call with an error; the newer registration wins.
func (c *Correlator) Register(id, sessionID string) *PendingCall {
	call := &PendingCall{
		ID:        id,
		SessionID: sessionID,
		IssuedAt:  time.Now(),
		outcome:   make(chan CallOutcome, 1),
	}

	c.mu.Lock()
	superseded := c.pending[id]
	// the timer must exist before the map entry is visible to expire
	call.timer = time.AfterFunc(c.timeout, func() { c.expire(call) })
	c.pending[id] = call
	c.mu.Unlock()

	if superseded != nil {
		superseded.timer.Stop()
		superseded.outcome <- CallOutcome{
			Err: types.NewGatewayError(types.ErrKindInternal, "call id %s reused by a newer request", id),
		}
	}

	return call
}

// Resolve settles the call registered under id with a result. Responses
// for unknown or already settled calls are dropped and counted.
func (c *Correlator) Resolve(id string, result interface{}) bool {
	return c.finish(id, CallOutcome{Result: result})
}

// Reject settles the call registered under id with an error
func (c *Correlator) Reject(id string, err error) bool {
	return c.finish(id, CallOutcome{Err: err})
}

func (c *Correlator) finish(id string, outcome CallOutcome) bool {
	c.mu.Lock()
	call, ok := c.pending[id]
	c.mu.Unlock()

	if !ok {
		unmatchedResponses.Inc()
		return false
	}
	if !c.complete(call, outcome) {
		unmatchedResponses.Inc()
		return false
	}
	return true
}

// complete removes the call and delivers its outcome. The remover owns
// the single send, so an outcome can never be delivered twice.
func (c *Correlator) complete(call *PendingCall, outcome CallOutcome) bool {
	c.mu.Lock()
	current, ok := c.pending[call.ID]
	if !ok || current != call {
		c.mu.Unlock()
		return false
	}
	delete(c.pending, call.ID)
	c.mu.Unlock()

	call.timer.Stop()
	call.outcome <- outcome
	return true
}

func (c *Correlator) expire(call *PendingCall) {
	timedOut := c.complete(call, CallOutcome{
		Err: types.NewGatewayError(types.ErrKindTimeout, "request timed out after %s", c.timeout),
	})
	if timedOut {
		expiredCalls.Inc()
	}
}

// Pending reports how many calls are still waiting for a response
func (c *Correlator) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}
