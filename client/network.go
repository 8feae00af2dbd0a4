package client

import (
	"time"

	"github.com/oomph-ac/locomotion/packet"
	"github.com/oomph-ac/locomotion/session"
)

// network sends the packets of a proxy to the server. Proxies only ever address the server.
type network struct {
	sess *session.Session
	id   uint64
}

func (n network) Send(target packet.Target, pk packet.Packet) {
	if target != packet.TargetServer {
		return
	}
	n.sess.Queue(n.id, pk)
}

func (n network) Latency() time.Duration {
	return n.sess.Latency()
}
