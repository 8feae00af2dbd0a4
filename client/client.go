package client

import (
	"context"
	"time"

	"github.com/elliotchance/orderedmap/v2"
	"github.com/getsentry/sentry-go"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/locomotion/actor"
	"github.com/oomph-ac/locomotion/character"
	"github.com/oomph-ac/locomotion/oerror"
	"github.com/oomph-ac/locomotion/packet"
	"github.com/oomph-ac/locomotion/session"
	"github.com/oomph-ac/locomotion/settings"
	"github.com/oomph-ac/locomotion/world"
	"github.com/sandertv/go-raknet"
	"github.com/sasha-s/go-deadlock"
	"github.com/sirupsen/logrus"
)

// ErrClosed is returned by Tick once the connection to the server is gone.
var ErrClosed = oerror.New("connection to the server closed")

// Config configures a Client.
type Config struct {
	Settings settings.Settings
	Log      *logrus.Logger
	// World defaults to world.Arena.
	World *world.BoxWorld
	// Handler observes the character the client controls.
	Handler character.Handler
	Clock   func() time.Time
}

// Client is a connection to a server. It controls one character as its autonomous proxy and
// simulates every other character as a simulated proxy.
type Client struct {
	conf  Config
	log   *logrus.Logger
	world *world.BoxWorld
	sess  *session.Session

	mu     deadlock.Mutex
	inbox  []session.Message
	err    error
	closed bool

	// The following fields are only accessed by the ticking goroutine.
	actors *orderedmap.OrderedMap[uint64, *actor.Actor]
	local  *actor.Actor
}

// Dial connects to the configured server address.
func Dial(ctx context.Context, conf Config) (*Client, error) {
	addr := conf.Settings.Server.Address
	conn, err := raknet.DialContext(ctx, addr)
	if err != nil {
		return nil, oerror.New("dial %s: %w", addr, err)
	}
	c := New(conn, conf)
	go c.read()
	return c, nil
}

// New creates a client on an established connection. The caller feeds it datagrams, either by
// running a reader or through Receive.
func New(conn session.Conn, conf Config) *Client {
	if conf.Log == nil {
		conf.Log = logrus.StandardLogger()
	}
	if conf.World == nil {
		conf.World = world.Arena()
	}
	sessConf := conf.Settings.Session()
	sessConf.Log = conf.Log.WithField("server", conn.RemoteAddr())
	sessConf.Clock = conf.Clock
	// The server is trusted, only peers of the server are rate limited.
	sessConf.RateLimit = session.RateLimit{}
	return &Client{
		conf:   conf,
		log:    conf.Log,
		world:  conf.World,
		sess:   session.New(conn, sessConf),
		actors: orderedmap.NewOrderedMap[uint64, *actor.Actor](),
	}
}

func (c *Client) read() {
	defer sentry.Recover()
	for {
		data, err := c.sess.Conn().ReadPacket()
		if err != nil {
			c.fail(err)
			return
		}
		if err := c.Receive(data); err != nil {
			c.fail(err)
			return
		}
	}
}

// Receive hands a datagram read from the connection to the client. The messages it carries are
// handled on the next Tick.
func (c *Client) Receive(data []byte) error {
	msgs, err := c.sess.Receive(data)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inbox = append(c.inbox, msgs...)
	return err
}

func (c *Client) fail(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err == nil {
		c.err = err
	}
}

// Local returns the character the client controls, or nil if the server has not spawned it yet.
func (c *Client) Local() *actor.Actor {
	return c.local
}

// Actor returns the character with the given ID.
func (c *Client) Actor(id uint64) (*actor.Actor, bool) {
	return c.actors.Get(id)
}

// Latency returns the one way latency to the server.
func (c *Client) Latency() time.Duration {
	return c.sess.Latency()
}

// Tick handles the messages received since the last tick, advances every character by dt
// seconds and sends what the controlled character produced.
func (c *Client) Tick(dt float32) error {
	c.mu.Lock()
	msgs, err, closed := c.inbox, c.err, c.closed
	c.inbox = nil
	c.mu.Unlock()
	if closed {
		return ErrClosed
	}

	for _, msg := range msgs {
		c.handle(msg)
	}
	if err != nil {
		return oerror.New("read: %w", err)
	}

	world.Animate(c.world, dt)
	for el := c.actors.Front(); el != nil; el = el.Next() {
		el.Value.Step(dt)
	}
	return c.sess.Flush()
}

func (c *Client) handle(msg session.Message) {
	switch pk := msg.Packet.(type) {
	case *packet.Spawn:
		c.spawn(msg.Character, pk)
		return
	case *packet.Despawn:
		c.actors.Delete(msg.Character)
		c.sess.Forget(msg.Character)
		if c.local != nil && c.local.ID() == msg.Character {
			c.local = nil
		}
		return
	}

	a, ok := c.actors.Get(msg.Character)
	if !ok {
		c.log.Debugf("dropped %T for unknown character %d", msg.Packet, msg.Character)
		return
	}
	if !a.HandlePacket(msg.Packet) {
		c.log.Debugf("character %d rejected %T", msg.Character, msg.Packet)
	}
}

func (c *Client) spawn(id uint64, pk *packet.Spawn) {
	if _, ok := c.actors.Get(id); ok {
		return
	}
	conf := character.Config{
		ID:       id,
		Role:     character.RoleSimulatedProxy,
		Settings: c.conf.Settings.Character,
		Network:  network{sess: c.sess, id: id},
		Log:      c.log,
	}
	if pk.Owned {
		conf.Role = character.RoleAutonomousProxy
		conf.LocallyControlled = true
		conf.Handler = c.conf.Handler
	}
	a := actor.New(conf, c.world, pk.Location, pk.Rotation, pk.MovementMode)
	c.actors.Set(id, a)
	if pk.Owned {
		c.local = a
	}
	c.log.Debugf("spawned character %d as %v", id, conf.Role)
}

// SetInput sets the movement input of the controlled character.
func (c *Client) SetInput(input mgl32.Vec3) {
	if c.local != nil {
		c.local.Body.SetInput(input)
	}
}

// Run ticks the client until ctx is done or the connection fails. control is called before
// every tick once the controlled character exists.
func (c *Client) Run(ctx context.Context, control func(a *actor.Actor, dt float32)) error {
	interval := c.conf.Settings.TickInterval()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	dt := float32(interval.Seconds())
	for {
		select {
		case <-ctx.Done():
			return c.Close()
		case <-ticker.C:
			if c.local != nil && control != nil {
				control(c.local, dt)
			}
			if err := c.Tick(dt); err != nil {
				_ = c.Close()
				return err
			}
		}
	}
}

// Close closes the connection to the server.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()
	return c.sess.Close()
}
