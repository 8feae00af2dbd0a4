package session

import (
	"sync"
	"time"

	"github.com/elliotchance/orderedmap/v2"
	"github.com/oomph-ac/locomotion/oerror"
	"github.com/oomph-ac/locomotion/packet"
	"github.com/oomph-ac/locomotion/utils"
	"github.com/sasha-s/go-deadlock"
	"github.com/sirupsen/logrus"
)

// ErrRateLimited is returned by Receive when the remote side exceeded its rate limit.
var ErrRateLimited = oerror.New("inbound rate limit exceeded")

// ErrUnresponsive is returned by Flush when too many reliable batches are left unacknowledged.
var ErrUnresponsive = oerror.New("too many unacknowledged reliable batches")

var batchPool = sync.Pool{
	New: func() any {
		return &batch{messages: make([]rawMessage, 0, 8)}
	},
}

// batch is a reliable batch waiting for its acknowledgement.
type batch struct {
	seq      uint32
	messages []rawMessage
	sentAt   time.Time
}

// Config configures a Session.
type Config struct {
	// ResendInterval is how long a reliable batch waits for its acknowledgement before it is
	// sent again.
	ResendInterval time.Duration
	// MaxPendingBatches is the amount of unacknowledged reliable batches after which the remote
	// side counts as unresponsive. It also bounds the batches buffered out of order.
	MaxPendingBatches int
	// LatencySamples is the amount of round trip samples latency is averaged over.
	LatencySamples int
	// PingInterval is how often a round trip sample is taken.
	PingInterval time.Duration
	RateLimit    RateLimit

	Log *logrus.Entry
	// Clock defaults to time.Now.
	Clock func() time.Time
}

// Session runs the locomotion protocol over a Conn. Reliable messages are batched per flush,
// delivered in order and acknowledged cumulatively. Unreliable messages are sent once and only
// the newest message per character and packet type is delivered.
//
// A raknet connection delivers every datagram reliably and in order, so over raknet an
// unreliable frame is never lost and may wait behind a reliable one. Latest wins then only
// drops samples that arrive after a newer one was already delivered.
//
// Receive is called by the goroutine reading the connection while Queue and Flush are called by
// the ticking goroutine.
type Session struct {
	conn Conn
	conf Config
	log  *logrus.Entry

	mu deadlock.Mutex

	sendSeq    uint32
	pending    []*batch
	queued     []rawMessage
	unreliable []rawMessage
	resends    int

	recvSeq    uint32
	outOfOrder map[uint32][]rawMessage
	ackDirty   bool

	unreliableSeq    uint32
	latestUnreliable map[unreliableKey]uint32

	limiter  *RateLimiter
	rtt      *utils.CircularQueue[time.Duration]
	latency  time.Duration
	lastPing time.Time
}

type unreliableKey struct {
	character uint64
	id        uint32
}

func New(conn Conn, conf Config) *Session {
	if conf.Clock == nil {
		conf.Clock = time.Now
	}
	if conf.Log == nil {
		conf.Log = logrus.NewEntry(logrus.StandardLogger())
	}
	if conf.LatencySamples <= 0 {
		conf.LatencySamples = 1
	}
	return &Session{
		conn:             conn,
		conf:             conf,
		log:              conf.Log,
		outOfOrder:       make(map[uint32][]rawMessage),
		latestUnreliable: make(map[unreliableKey]uint32),
		limiter:          NewRateLimiter(conf.RateLimit, conf.Clock()),
		rtt:              utils.NewCircularQueue[time.Duration](conf.LatencySamples),
	}
}

func (s *Session) Conn() Conn {
	return s.conn
}

// Queue queues a packet for a character. It is written on the next Flush.
func (s *Session) Queue(character uint64, pk packet.Packet) {
	msg := rawMessage{character: character, payload: packet.Encode(pk)}

	s.mu.Lock()
	defer s.mu.Unlock()
	if packet.Unreliable(pk) {
		s.unreliable = append(s.unreliable, msg)
		return
	}
	s.queued = append(s.queued, msg)
}

// Flush writes the queued messages, resends reliable batches whose acknowledgement is overdue
// and takes a latency sample when one is due.
func (s *Session) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.conf.Clock()
	if len(s.queued) > 0 {
		s.sendSeq++
		b := batchPool.Get().(*batch)
		b.seq, b.sentAt = s.sendSeq, now
		b.messages = append(b.messages, s.queued...)
		s.queued = s.queued[:0]
		s.pending = append(s.pending, b)

		if err := s.write(frame{kind: frameReliable, seq: b.seq, ack: s.recvSeq, messages: b.messages}); err != nil {
			return err
		}
		s.ackDirty = false
	}
	for _, b := range s.pending {
		if now.Sub(b.sentAt) < s.conf.ResendInterval {
			continue
		}
		b.sentAt = now
		s.resends++
		if err := s.write(frame{kind: frameReliable, seq: b.seq, ack: s.recvSeq, messages: b.messages}); err != nil {
			return err
		}
		s.ackDirty = false
	}
	if s.ackDirty {
		if err := s.write(frame{kind: frameAck, ack: s.recvSeq}); err != nil {
			return err
		}
		s.ackDirty = false
	}

	for _, msg := range s.unreliable {
		s.unreliableSeq++
		if err := s.write(frame{kind: frameUnreliable, seq: s.unreliableSeq, messages: []rawMessage{msg}}); err != nil {
			return err
		}
	}
	s.unreliable = s.unreliable[:0]

	if s.conf.PingInterval > 0 && now.Sub(s.lastPing) >= s.conf.PingInterval {
		s.lastPing = now
		if err := s.write(frame{kind: framePing, timestamp: now.UnixNano()}); err != nil {
			return err
		}
	}

	if s.conf.MaxPendingBatches > 0 && len(s.pending) > s.conf.MaxPendingBatches {
		return oerror.New("%d batches pending: %w", len(s.pending), ErrUnresponsive)
	}
	return nil
}

func (s *Session) write(f frame) error {
	if _, err := s.conn.Write(encodeFrame(f)); err != nil {
		return oerror.New("write frame: %w", err)
	}
	return nil
}

// Receive handles a datagram read from the connection and returns the messages that became
// deliverable, in order. Malformed messages are logged and skipped. ErrRateLimited is returned
// once the remote side sends too much, together with the messages accepted before that.
func (s *Session) Receive(data []byte) ([]Message, error) {
	f, err := decodeFrame(data)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch f.kind {
	case frameReliable:
		s.handleAck(f.ack)
		return s.receiveReliable(f)
	case frameAck:
		s.handleAck(f.ack)
	case frameUnreliable:
		return s.receiveUnreliable(f)
	case framePing:
		return nil, s.write(frame{kind: framePong, timestamp: f.timestamp})
	case framePong:
		s.handlePong(f.timestamp)
	}
	return nil, nil
}

// handleAck releases every pending batch up to and including ack.
func (s *Session) handleAck(ack uint32) {
	n := 0
	for _, b := range s.pending {
		if b.seq > ack {
			break
		}
		b.messages = b.messages[:0]
		b.seq = 0
		batchPool.Put(b)
		n++
	}
	s.pending = s.pending[n:]
}

func (s *Session) receiveReliable(f frame) ([]Message, error) {
	s.ackDirty = true
	switch {
	case f.seq <= s.recvSeq:
		// Already delivered, the acknowledgement got lost.
		return nil, nil
	case f.seq != s.recvSeq+1:
		if len(s.outOfOrder) < max(s.conf.MaxPendingBatches, 1) {
			s.outOfOrder[f.seq] = f.messages
		}
		return nil, nil
	}

	var out []Message
	msgs := f.messages
	for {
		s.recvSeq++
		for _, raw := range msgs {
			msg, ok := s.decode(raw)
			if !ok {
				continue
			}
			if !s.limiter.Allow(msg.Packet, s.conf.Clock()) {
				return out, ErrRateLimited
			}
			out = append(out, msg)
		}
		next, ok := s.outOfOrder[s.recvSeq+1]
		if !ok {
			return out, nil
		}
		delete(s.outOfOrder, s.recvSeq+1)
		msgs = next
	}
}

func (s *Session) receiveUnreliable(f frame) ([]Message, error) {
	msg, ok := s.decode(f.messages[0])
	if !ok {
		return nil, nil
	}
	key := unreliableKey{character: msg.Character, id: msg.Packet.ID()}
	if latest, ok := s.latestUnreliable[key]; ok && f.seq <= latest {
		return nil, nil
	}
	s.latestUnreliable[key] = f.seq
	if !s.limiter.Allow(msg.Packet, s.conf.Clock()) {
		return nil, ErrRateLimited
	}
	return []Message{msg}, nil
}

func (s *Session) decode(raw rawMessage) (Message, bool) {
	pk, err := packet.Decode(raw.payload)
	if err != nil {
		s.log.WithField("character", raw.character).Warnf("dropped message: %v", err)
		return Message{}, false
	}
	return Message{Character: raw.character, Packet: pk}, true
}

func (s *Session) handlePong(timestamp int64) {
	rtt := s.conf.Clock().Sub(time.Unix(0, timestamp))
	if rtt < 0 {
		return
	}
	_ = s.rtt.Append(rtt)

	var sum time.Duration
	for sample := range s.rtt.Iter() {
		sum += sample
	}
	s.latency = sum / time.Duration(s.rtt.Len()) / 2
}

// Latency returns the one-way latency, half the mean round trip time.
func (s *Session) Latency() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latency
}

// Forget drops the unreliable ordering state of a character that was removed.
func (s *Session) Forget(character uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key := range s.latestUnreliable {
		if key.character == character {
			delete(s.latestUnreliable, key)
		}
	}
}

// Stats returns the state of the session for debugging.
func (s *Session) Stats() *orderedmap.OrderedMap[string, any] {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := orderedmap.NewOrderedMap[string, any]()
	m.Set("latency", s.latency)
	m.Set("sent", s.sendSeq)
	m.Set("received", s.recvSeq)
	m.Set("pending", len(s.pending))
	m.Set("outOfOrder", len(s.outOfOrder))
	m.Set("resends", s.resends)
	return m
}

func (s *Session) Close() error {
	return s.conn.Close()
}
