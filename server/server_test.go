package server

import (
	"io"
	"net"
	"testing"
	"time"

	"github.com/oomph-ac/locomotion/character"
	"github.com/oomph-ac/locomotion/client"
	"github.com/oomph-ac/locomotion/game"
	"github.com/oomph-ac/locomotion/packet"
	"github.com/oomph-ac/locomotion/session"
	"github.com/oomph-ac/locomotion/settings"
	"github.com/sirupsen/logrus"
)

const dt = float32(1) / 60

type memConn struct {
	written [][]byte
	closed  bool
}

func (c *memConn) ReadPacket() ([]byte, error) { return nil, net.ErrClosed }
func (c *memConn) RemoteAddr() net.Addr        { return &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)} }

func (c *memConn) Write(b []byte) (int, error) {
	c.written = append(c.written, append([]byte(nil), b...))
	return len(b), nil
}

func (c *memConn) Close() error {
	c.closed = true
	return nil
}

func (c *memConn) take() [][]byte {
	w := c.written
	c.written = nil
	return w
}

// remote is a client connected to the server through a pair of in memory connections.
type remote struct {
	*client.Client
	peer       *peer
	serverSide *memConn
	clientSide *memConn
}

type harness struct {
	t       *testing.T
	srv     *Server
	remotes []*remote
	now     time.Time
}

func newHarness(t *testing.T, conf settings.Settings) *harness {
	log := logrus.New()
	log.SetOutput(io.Discard)

	h := &harness{t: t, now: time.Unix(1000, 0)}
	h.srv = New(Config{Settings: conf, Log: log, Clock: h.clock})
	t.Cleanup(func() { _ = h.srv.Close() })
	return h
}

func (h *harness) clock() time.Time {
	return h.now
}

func (h *harness) connect() *remote {
	h.t.Helper()
	sc, cc := &memConn{}, &memConn{}
	p, ok := h.srv.join(sc)
	if !ok {
		h.t.Fatalf("expected the server to accept the connection")
	}
	log := logrus.New()
	log.SetOutput(io.Discard)
	r := &remote{
		Client:     client.New(cc, client.Config{Settings: h.srv.conf.Settings, Log: log, Clock: h.clock}),
		peer:       p,
		serverSide: sc,
		clientSide: cc,
	}
	h.remotes = append(h.remotes, r)
	return r
}

// step ticks the server, delivers everything it sent, ticks every client and delivers what the
// clients sent back.
func (h *harness) step(n int) {
	h.t.Helper()
	for i := 0; i < n; i++ {
		h.now = h.now.Add(time.Second / 60)
		h.srv.Tick(dt)
		for _, r := range h.remotes {
			for _, d := range r.serverSide.take() {
				if err := r.Receive(d); err != nil {
					h.t.Fatalf("client receive: %v", err)
				}
			}
			if err := r.Tick(dt); err != nil {
				h.t.Fatalf("client tick: %v", err)
			}
			for _, d := range r.clientSide.take() {
				if err := h.srv.receive(r.peer, d); err != nil {
					h.t.Fatalf("server receive: %v", err)
				}
			}
		}
	}
}

func TestClientsSpawnEachOther(t *testing.T) {
	h := newHarness(t, settings.DefaultSettings())
	a, b := h.connect(), h.connect()
	h.step(2)

	if a.Local() == nil || a.Local().Role() != character.RoleAutonomousProxy || a.Local().ID() != a.peer.id {
		t.Fatalf("expected the first client to control its own character")
	}
	other, ok := a.Actor(b.peer.id)
	if !ok {
		t.Fatalf("expected the first client to see the second character")
	}
	if other.Role() != character.RoleSimulatedProxy {
		t.Fatalf("expected a simulated proxy, got %v", other.Role())
	}
	if _, ok := b.Actor(a.peer.id); !ok {
		t.Fatalf("expected the second client to see the first character")
	}
}

func TestIntentReachesObservers(t *testing.T) {
	h := newHarness(t, settings.DefaultSettings())
	a, b := h.connect(), h.connect()
	h.step(2)

	a.Local().SetDesiredGait(game.GaitWalking, true)
	h.step(3)

	if g := a.peer.actor.DesiredGait(); g != game.GaitWalking {
		t.Fatalf("expected the authority to take the owner's intent, got %v", g)
	}
	proxy, _ := b.Actor(a.peer.id)
	if g := proxy.DesiredGait(); g != game.GaitWalking {
		t.Fatalf("expected the observer to receive the desired gait, got %v", g)
	}
}

func TestOwnerPredictionIsNotOverwritten(t *testing.T) {
	h := newHarness(t, settings.DefaultSettings())
	a := h.connect()
	h.step(2)

	// Predicted locally without telling the server.
	a.Local().SetDesiredGait(game.GaitSprinting, false)
	h.step(5)

	if g := a.Local().DesiredGait(); g != game.GaitSprinting {
		t.Fatalf("expected the prediction to survive replication, got %v", g)
	}
	if g := a.peer.actor.DesiredGait(); g != game.GaitRunning {
		t.Fatalf("expected the authority to keep its own value, got %v", g)
	}
}

func TestPeerCannotAddressOtherCharacters(t *testing.T) {
	h := newHarness(t, settings.DefaultSettings())
	a, b := h.connect(), h.connect()
	h.step(2)

	a.peer.push([]session.Message{{
		Character: b.peer.id,
		Packet:    &packet.Intent{Kind: packet.IntentDesiredGait, Value: uint8(game.GaitWalking)},
	}})
	h.step(1)

	if g := b.peer.actor.DesiredGait(); g != game.GaitRunning {
		t.Fatalf("expected the foreign intent to be dropped, got %v", g)
	}
}

func TestDisconnectDespawnsAndFreesSlot(t *testing.T) {
	conf := settings.DefaultSettings()
	conf.Server.MaxPeers = 2
	h := newHarness(t, conf)
	a, b := h.connect(), h.connect()
	h.step(2)

	if _, ok := h.srv.join(&memConn{}); ok {
		t.Fatalf("expected a full server to refuse the connection")
	}

	h.srv.disconnect(b.peer, nil)
	h.remotes = h.remotes[:1]
	h.step(2)

	if !b.serverSide.closed {
		t.Fatalf("expected the connection to be closed")
	}
	if _, ok := a.Actor(b.peer.id); ok {
		t.Fatalf("expected the character to despawn")
	}
	if _, ok := h.srv.join(&memConn{}); !ok {
		t.Fatalf("expected the slot to be freed")
	}
}
