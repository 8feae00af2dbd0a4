package server

import (
	"context"
	"errors"
	"net"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/elliotchance/orderedmap/v2"
	"github.com/getsentry/sentry-go"
	"github.com/oomph-ac/locomotion/actor"
	"github.com/oomph-ac/locomotion/character"
	"github.com/oomph-ac/locomotion/game"
	"github.com/oomph-ac/locomotion/oerror"
	"github.com/oomph-ac/locomotion/packet"
	"github.com/oomph-ac/locomotion/session"
	"github.com/oomph-ac/locomotion/settings"
	"github.com/oomph-ac/locomotion/utils"
	"github.com/oomph-ac/locomotion/worker"
	"github.com/oomph-ac/locomotion/world"
	"github.com/sandertv/go-raknet"
	"github.com/sasha-s/go-deadlock"
	"github.com/sirupsen/logrus"
)

// statsInterval is the amount of ticks between two statistics log lines.
const statsInterval = 600

// Config configures a Server.
type Config struct {
	Settings settings.Settings
	Log      *logrus.Logger
	// World defaults to world.Arena.
	World *world.BoxWorld
	// Clock defaults to time.Now. It is passed on to the sessions of every peer.
	Clock func() time.Time
}

// Server hosts the authority of every character. Each connected client owns one character and
// observes all others.
type Server struct {
	conf  Config
	log   *logrus.Logger
	world *world.BoxWorld
	pool  *worker.Pool

	listener *raknet.Listener
	nextID   atomic.Uint64
	ticks    uint64

	mu      deadlock.Mutex
	joining []*peer
	leaving []*peer
	count   int

	// peers is only accessed by the ticking goroutine.
	peers *orderedmap.OrderedMap[uint64, *peer]
}

func New(conf Config) *Server {
	if conf.Log == nil {
		conf.Log = logrus.StandardLogger()
	}
	if conf.World == nil {
		conf.World = world.Arena()
	}
	if conf.Clock == nil {
		conf.Clock = time.Now
	}
	return &Server{
		conf:  conf,
		log:   conf.Log,
		world: conf.World,
		pool:  worker.New(0),
		peers: orderedmap.NewOrderedMap[uint64, *peer](),
	}
}

// ListenAndServe listens on the configured address and runs the server until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context) error {
	addr := s.conf.Settings.Server.Address
	l, err := raknet.Listen(addr)
	if err != nil {
		return oerror.New("listen on %s: %w", addr, err)
	}
	s.listener = l
	s.log.Infof("locomotion server listening on %v", l.Addr())

	go s.accept(l)
	return s.Run(ctx)
}

func (s *Server) accept(l *raknet.Listener) {
	defer sentry.Recover()
	for {
		conn, err := l.Accept()
		if err != nil {
			return
		}
		s.Join(conn.(*raknet.Conn))
	}
}

// Join adds a connection to the server. Its character spawns on the next tick.
func (s *Server) Join(conn session.Conn) {
	if p, ok := s.join(conn); ok {
		go s.read(p)
	}
}

func (s *Server) join(conn session.Conn) (*peer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.count >= s.conf.Settings.Server.MaxPeers {
		s.log.Warnf("refused %v: server is full", conn.RemoteAddr())
		_ = conn.Close()
		return nil, false
	}
	s.count++

	id := s.nextID.Add(1)
	log := s.log.WithFields(logrus.Fields{"peer": id, "addr": conn.RemoteAddr()})
	conf := s.conf.Settings.Session()
	conf.Log, conf.Clock = log, s.conf.Clock

	p := &peer{
		id:         id,
		sess:       session.New(conn, conf),
		replicator: session.NewReplicator(),
		log:        log,
	}
	s.joining = append(s.joining, p)
	log.Info("peer joined")
	return p, true
}

// read reads datagrams from the connection of p until it fails. A panic is reported with the
// peer attached and only drops that peer.
func (s *Server) read(p *peer) {
	defer s.disconnect(p, nil)

	hub := sentry.CurrentHub().Clone()
	hub.Scope().SetTag("peer", strconv.FormatUint(p.id, 10))
	defer func() {
		if r := recover(); r != nil {
			hub.Recover(r)
			hub.Flush(2 * time.Second)
			s.disconnect(p, oerror.New("panic while reading: %v", r))
		}
	}()

	for {
		data, err := p.sess.Conn().ReadPacket()
		if err != nil {
			return
		}
		if err := s.receive(p, data); err != nil {
			s.disconnect(p, err)
			return
		}
	}
}

// receive hands a datagram to the session of p and queues the resulting messages for the next
// tick.
func (s *Server) receive(p *peer, data []byte) error {
	msgs, err := p.sess.Receive(data)
	p.push(msgs)
	if errors.Is(err, session.ErrRateLimited) {
		s.block(p)
	}
	return err
}

// block stops the listener from accepting datagrams from the address of p for a while.
func (s *Server) block(p *peer) {
	if s.listener == nil {
		return
	}
	if addr, ok := p.sess.Conn().RemoteAddr().(*net.UDPAddr); ok {
		utils.BlockAddress(s.listener, addr.IP, time.Duration(s.conf.Settings.Server.RateLimitIntervalSeconds)*time.Second)
	}
}

// disconnect closes the connection of p. Its character despawns on the next tick.
func (s *Server) disconnect(p *peer, reason error) {
	if !p.markClosed() {
		return
	}
	if reason != nil {
		p.log.Warnf("disconnected: %v", reason)
	} else {
		p.log.Info("peer left")
	}
	_ = p.sess.Close()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.leaving = append(s.leaving, p)
}

// Run ticks the server until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	interval := s.conf.Settings.TickInterval()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	dt := float32(interval.Seconds())
	for {
		select {
		case <-ctx.Done():
			return s.Close()
		case <-ticker.C:
			s.Tick(dt)
		}
	}
}

// Tick advances the server by dt seconds. It must only be called from one goroutine.
func (s *Server) Tick(dt float32) {
	s.mu.Lock()
	joining, leaving := s.joining, s.leaving
	s.joining, s.leaving = nil, nil
	s.mu.Unlock()

	for _, p := range joining {
		s.spawn(p)
	}
	for _, p := range leaving {
		s.despawn(p)
	}

	for el := s.peers.Front(); el != nil; el = el.Next() {
		s.handleMessages(el.Value)
	}

	world.Animate(s.world, dt)
	for el := s.peers.Front(); el != nil; el = el.Next() {
		el.Value.actor.Step(dt)
	}

	s.replicate()
	s.flush()

	s.ticks++
	if s.ticks%statsInterval == 0 && s.log.IsLevelEnabled(logrus.DebugLevel) {
		s.logStats()
	}
}

// spawn creates the character of p and introduces it to every peer.
func (s *Server) spawn(p *peer) {
	p.mu.Lock()
	closed := p.closed
	p.mu.Unlock()
	if closed {
		// The peer is released by despawn, which runs in the same tick.
		return
	}

	s.peers.Set(p.id, p)
	p.actor = actor.New(character.Config{
		ID:                 p.id,
		Role:               character.RoleAuthority,
		RemotelyControlled: true,
		Settings:           s.conf.Settings.Character,
		Network:            network{srv: s, owner: p},
		Log:                s.log,
	}, s.world, world.SpawnLocation(p.id), game.Rotator{}, game.MovementModeWalking)

	for el := s.peers.Front(); el != nil; el = el.Next() {
		other := el.Value
		other.sess.Queue(p.id, spawnPacket(p.actor, other == p))
		if other != p {
			p.sess.Queue(other.id, spawnPacket(other.actor, false))
		}
	}
}

func spawnPacket(a *actor.Actor, owned bool) *packet.Spawn {
	return &packet.Spawn{
		Owned:        owned,
		Location:     a.Body.Location(),
		Rotation:     a.Body.Rotation(),
		MovementMode: a.Body.MovementMode(),
	}
}

// despawn removes the character of p from every other peer.
func (s *Server) despawn(p *peer) {
	defer s.release()
	if _, ok := s.peers.Get(p.id); !ok {
		return
	}
	s.peers.Delete(p.id)
	for el := s.peers.Front(); el != nil; el = el.Next() {
		other := el.Value
		other.sess.Queue(p.id, &packet.Despawn{})
		other.sess.Forget(p.id)
		other.replicator.Forget(p.id)
	}
}

func (s *Server) release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.count--
}

// handleMessages applies the messages p sent since the last tick. A peer may only address the
// character it owns.
func (s *Server) handleMessages(p *peer) {
	for _, msg := range p.drain() {
		if msg.Character != p.id {
			p.log.Debugf("dropped %T addressed to character %d", msg.Packet, msg.Character)
			continue
		}
		if !p.actor.HandlePacket(msg.Packet) {
			p.log.Debugf("rejected %T", msg.Packet)
		}
	}
}

// replicate queues the replicated fields every peer has not seen yet. Owners never receive the
// fields they predict themselves.
func (s *Server) replicate() {
	for el := s.peers.Front(); el != nil; el = el.Next() {
		p := el.Value
		for c := s.peers.Front(); c != nil; c = c.Next() {
			owner := c.Value
			var skip packet.FieldMask
			if owner == p {
				skip = packet.OwnerPredictedFields
			}
			if update, ok := p.replicator.Diff(owner.id, owner.actor.ReplicatedFields(), skip); ok {
				p.sess.Queue(owner.id, update)
			}
		}
	}
}

// flush flushes the sessions of every peer in parallel.
func (s *Server) flush() {
	peers := make([]*peer, 0, s.peers.Len())
	fs := make([]func(), 0, s.peers.Len())
	errs := make([]error, s.peers.Len())
	for el := s.peers.Front(); el != nil; el = el.Next() {
		i, p := len(peers), el.Value
		peers = append(peers, p)
		fs = append(fs, func() {
			errs[i] = p.sess.Flush()
		})
	}
	s.pool.Run(fs...)

	for i, err := range errs {
		if err != nil {
			s.disconnect(peers[i], err)
		}
	}
}

func (s *Server) logStats() {
	for el := s.peers.Front(); el != nil; el = el.Next() {
		p := el.Value
		fields := logrus.Fields{"character": p.actor.String()}
		stats := p.sess.Stats()
		for _, k := range stats.Keys() {
			v, _ := stats.Get(k)
			fields[k] = v
		}
		p.log.WithFields(fields).Debug("peer statistics")
	}
}

// Close disconnects every peer and closes the listener.
func (s *Server) Close() error {
	for el := s.peers.Front(); el != nil; el = el.Next() {
		s.disconnect(el.Value, nil)
	}
	s.pool.Close()
	if s.listener != nil {
		return s.listener.Close()
	}
	return nil
}
