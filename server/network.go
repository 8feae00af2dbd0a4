package server

import (
	"time"

	"github.com/oomph-ac/locomotion/packet"
)

// network routes the packets of an authority character to the peers observing it. Every peer
// observes every character.
type network struct {
	srv   *Server
	owner *peer
}

func (n network) Send(target packet.Target, pk packet.Packet) {
	if target == packet.TargetServer {
		n.srv.log.Warnf("authority of character %d tried to send %T to the server", n.owner.id, pk)
		return
	}
	for el := n.srv.peers.Front(); el != nil; el = el.Next() {
		p := el.Value
		switch {
		case target == packet.TargetOwner && p != n.owner:
			continue
		case target == packet.TargetOthers && p == n.owner:
			continue
		}
		p.sess.Queue(n.owner.id, pk)
	}
}

// Latency returns the one way latency to the owner of the character.
func (n network) Latency() time.Duration {
	return n.owner.sess.Latency()
}
