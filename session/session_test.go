package session

import (
	"net"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/locomotion/game"
	"github.com/oomph-ac/locomotion/packet"
)

type mockConn struct {
	written [][]byte
}

func (c *mockConn) ReadPacket() ([]byte, error) { return nil, net.ErrClosed }
func (c *mockConn) Close() error                { return nil }
func (c *mockConn) RemoteAddr() net.Addr        { return &net.UDPAddr{} }

func (c *mockConn) Write(b []byte) (int, error) {
	c.written = append(c.written, b)
	return len(b), nil
}

// take returns and clears the datagrams written so far.
func (c *mockConn) take() [][]byte {
	w := c.written
	c.written = nil
	return w
}

type clock struct {
	now time.Time
}

func (c *clock) Now() time.Time {
	return c.now
}

func newPair(conf Config) (a, b *Session, ca, cb *mockConn, clk *clock) {
	clk = &clock{now: time.Unix(1000, 0)}
	conf.Clock = clk.Now
	ca, cb = &mockConn{}, &mockConn{}
	return New(ca, conf), New(cb, conf), ca, cb, clk
}

func deliver(t *testing.T, to *Session, datagrams [][]byte) []Message {
	t.Helper()
	var out []Message
	for _, d := range datagrams {
		msgs, err := to.Receive(d)
		if err != nil {
			t.Fatalf("unexpected receive error: %v", err)
		}
		out = append(out, msgs...)
	}
	return out
}

func TestReliableDeliveryInOrderDespiteLoss(t *testing.T) {
	a, b, ca, cb, clk := newPair(Config{ResendInterval: 100 * time.Millisecond, MaxPendingBatches: 16})

	a.Queue(1, &packet.Intent{Kind: packet.IntentDesiredGait, Value: 0})
	if err := a.Flush(); err != nil {
		t.Fatal(err)
	}
	lost := ca.take()

	a.Queue(1, &packet.Intent{Kind: packet.IntentDesiredGait, Value: 2})
	if err := a.Flush(); err != nil {
		t.Fatal(err)
	}
	if msgs := deliver(t, b, ca.take()); len(msgs) != 0 {
		t.Fatalf("the second batch must wait for the lost first one, got %d messages", len(msgs))
	}
	if len(lost) != 1 {
		t.Fatalf("expected one datagram for the first batch, got %d", len(lost))
	}

	clk.now = clk.now.Add(150 * time.Millisecond)
	if err := a.Flush(); err != nil {
		t.Fatal(err)
	}
	msgs := deliver(t, b, ca.take())
	if len(msgs) != 2 {
		t.Fatalf("expected both messages after the resend, got %d", len(msgs))
	}
	for i, want := range []uint8{0, 2} {
		if v := msgs[i].Packet.(*packet.Intent).Value; v != want {
			t.Fatalf("message %d: expected value %d, got %d", i, want, v)
		}
	}

	// The acknowledgement releases both batches on the sender.
	if err := b.Flush(); err != nil {
		t.Fatal(err)
	}
	deliver(t, a, cb.take())
	if pending := a.Stats().GetOrDefault("pending", -1); pending != 0 {
		t.Fatalf("expected no pending batches after the acknowledgement, got %v", pending)
	}
	if resends := a.Stats().GetOrDefault("resends", -1); resends != 2 {
		t.Fatalf("expected both overdue batches to be resent, got %v", resends)
	}
}

func TestDuplicateReliableBatchIsDeliveredOnce(t *testing.T) {
	a, b, ca, _, _ := newPair(Config{ResendInterval: time.Second})
	a.Queue(7, &packet.StartRagdollingRequest{})
	if err := a.Flush(); err != nil {
		t.Fatal(err)
	}
	d := ca.take()
	if msgs := deliver(t, b, d); len(msgs) != 1 || msgs[0].Character != 7 {
		t.Fatalf("expected the message for character 7, got %+v", msgs)
	}
	if msgs := deliver(t, b, d); len(msgs) != 0 {
		t.Fatalf("a duplicate batch must not be delivered again")
	}
}

func TestUnreliableLatestWins(t *testing.T) {
	a, b, ca, _, _ := newPair(Config{})
	a.Queue(1, &packet.Move{Location: mgl32.Vec3{1, 0, 0}})
	a.Queue(1, &packet.Move{Location: mgl32.Vec3{2, 0, 0}})
	if err := a.Flush(); err != nil {
		t.Fatal(err)
	}
	d := ca.take()
	if len(d) != 2 {
		t.Fatalf("expected one datagram per unreliable message, got %d", len(d))
	}

	// Reordered by the network: the newer move arrives first.
	if msgs := deliver(t, b, [][]byte{d[1], d[0]}); len(msgs) != 1 || msgs[0].Packet.(*packet.Move).Location.X() != 2 {
		t.Fatalf("expected only the newest move, got %+v", msgs)
	}
}

func TestLatencyIsHalfTheRoundTrip(t *testing.T) {
	a, b, ca, cb, clk := newPair(Config{PingInterval: time.Second, LatencySamples: 4})
	if err := a.Flush(); err != nil {
		t.Fatal(err)
	}
	ping := ca.take()
	clk.now = clk.now.Add(80 * time.Millisecond)
	deliver(t, b, ping)
	deliver(t, a, cb.take())

	if l := a.Latency(); l != 40*time.Millisecond {
		t.Fatalf("expected 40ms latency, got %v", l)
	}
}

func TestUnresponsivePeer(t *testing.T) {
	a, _, _, _, _ := newPair(Config{ResendInterval: time.Hour, MaxPendingBatches: 2})
	var err error
	for i := 0; i < 3; i++ {
		a.Queue(1, &packet.Jumped{})
		err = a.Flush()
	}
	if err == nil {
		t.Fatalf("expected the peer to count as unresponsive")
	}
}

func TestRateLimit(t *testing.T) {
	a, b, ca, _, _ := newPair(Config{RateLimit: RateLimit{Interval: time.Second, MaxNormal: 2, MaxSpammed: 100}})
	for i := 0; i < 3; i++ {
		a.Queue(1, &packet.Intent{Kind: packet.IntentDesiredAiming, Value: 1})
	}
	if err := a.Flush(); err != nil {
		t.Fatal(err)
	}
	msgs, err := b.Receive(ca.take()[0])
	if err != ErrRateLimited || len(msgs) != 2 {
		t.Fatalf("expected two messages and a rate limit error, got %d (%v)", len(msgs), err)
	}
}

func TestMalformedFrames(t *testing.T) {
	_, b, _, _, _ := newPair(Config{})
	for _, d := range [][]byte{{}, {99}, {frameReliable, 1}, {frameReliable, 1, 0, 200}} {
		if _, err := b.Receive(d); err == nil {
			t.Fatalf("expected an error for %v", d)
		}
	}
}

func TestTruncatedFramesAreRejected(t *testing.T) {
	frames := []frame{
		{kind: frameUnreliable, seq: 3, messages: []rawMessage{{character: 1, payload: []byte{1, 2, 3, 4, 5}}}},
		{kind: frameReliable, seq: 1, messages: []rawMessage{{character: 1, payload: []byte{1, 2}}, {character: 2, payload: []byte{3, 4, 5, 6}}}},
	}
	_, b, _, _, _ := newPair(Config{})
	for _, f := range frames {
		d := encodeFrame(f)
		if _, err := decodeFrame(d); err != nil {
			t.Fatalf("expected intact frame %d to decode: %v", f.kind, err)
		}
		for cut := 1; cut < len(d); cut++ {
			if _, err := decodeFrame(d[:len(d)-cut]); err == nil {
				t.Fatalf("expected frame %d cut by %d bytes to be rejected", f.kind, cut)
			}
		}
		if _, err := b.Receive(d[:len(d)-2]); err == nil {
			t.Fatalf("expected truncated frame %d to be rejected by the session", f.kind)
		}
	}
}

func TestReplicatorSendsOnlyChangedFields(t *testing.T) {
	r := NewReplicator()
	fields := packet.Fields{Gait: game.GaitRunning, ViewRotation: game.YawRotator(10)}

	update, ok := r.Diff(1, fields, packet.OwnerPredictedFields)
	if !ok || update.Mask.Has(packet.FieldViewRotation) || !update.Mask.Has(packet.FieldGait) {
		t.Fatalf("expected every field but the skipped ones, got mask %b", update.Mask)
	}
	if _, ok := r.Diff(1, fields, packet.OwnerPredictedFields); ok {
		t.Fatalf("unchanged fields must not be sent again")
	}

	fields.Gait = game.GaitSprinting
	update, ok = r.Diff(1, fields, packet.OwnerPredictedFields)
	if !ok || update.Mask != packet.FieldMask(0).With(packet.FieldGait) {
		t.Fatalf("expected only the gait to be sent, got mask %b", update.Mask)
	}

	r.Forget(1)
	if update, ok := r.Diff(1, fields, 0); !ok || update.Mask != packet.AllFields {
		t.Fatalf("a forgotten character must be sent in full")
	}
}
