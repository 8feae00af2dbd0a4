package server

import (
	"github.com/oomph-ac/locomotion/actor"
	"github.com/oomph-ac/locomotion/session"
	"github.com/sasha-s/go-deadlock"
	"github.com/sirupsen/logrus"
)

// peer is a connection to a client. Every peer owns exactly one character, which shares its ID.
type peer struct {
	id         uint64
	sess       *session.Session
	replicator *session.Replicator
	log        *logrus.Entry

	// actor is only accessed by the ticking goroutine.
	actor *actor.Actor

	mu     deadlock.Mutex
	inbox  []session.Message
	closed bool
}

// push appends messages read from the connection to the inbox of the peer.
func (p *peer) push(msgs []session.Message) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.inbox = append(p.inbox, msgs...)
}

// drain returns the messages received since the last call.
func (p *peer) drain() []session.Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	msgs := p.inbox
	p.inbox = nil
	return msgs
}

// markClosed marks the peer closed and reports whether it was still open.
func (p *peer) markClosed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return false
	}
	p.closed = true
	return true
}
