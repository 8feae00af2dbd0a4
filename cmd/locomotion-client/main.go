package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/locomotion/actor"
	"github.com/oomph-ac/locomotion/character"
	"github.com/oomph-ac/locomotion/client"
	"github.com/oomph-ac/locomotion/game"
	"github.com/oomph-ac/locomotion/settings"
	"github.com/sirupsen/logrus"
)

// The following program connects to a server and drives its character around in circles,
// jumping, sprinting and rolling on a fixed schedule.
func main() {
	configPath := flag.String("config", "locomotion.toml", "path to the settings file, created if missing")
	address := flag.String("address", "", "server address, overriding the settings file")
	debugModes := flag.String("debug-modes", "", "comma separated debug modes to enable on the controlled character")
	flag.Parse()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{ForceColors: true})

	conf, err := settings.Load(*configPath)
	if err != nil {
		log.Fatalf("error loading settings: %v", err)
	}
	if *address != "" {
		conf.Server.Address = *address
	}
	modes := parseDebugModes(log, *debugModes)
	if len(modes) > 0 {
		log.SetLevel(logrus.DebugLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, err := client.Dial(ctx, client.Config{Settings: conf, Log: log, Handler: logHandler{log: log}})
	if err != nil {
		log.Fatalf("error connecting: %v", err)
	}
	log.Infof("connected to %v", conf.Server.Address)

	b := &bot{}
	err = c.Run(ctx, func(a *actor.Actor, dt float32) {
		if !b.started {
			b.started = true
			for _, m := range modes {
				a.Dbg().Toggle(m)
			}
		}
		b.control(a, dt)
	})
	if err != nil {
		log.Errorf("client stopped: %v", err)
	}
}

func parseDebugModes(log *logrus.Logger, s string) []character.DebugMode {
	var modes []character.DebugMode
	for _, name := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' }) {
		m, ok := character.ParseDebugMode(name)
		if !ok {
			log.Warnf("unknown debug mode %q", name)
			continue
		}
		modes = append(modes, m)
	}
	return modes
}

// bot drives a character through every locomotion feature.
type bot struct {
	started bool
	time    float32
	next    int
}

func (b *bot) control(a *actor.Actor, dt float32) {
	b.time += dt

	yaw := b.time * 20
	a.SetViewRotation(game.Rotator{Yaw: yaw, Pitch: -10})
	rad := mgl32.DegToRad(yaw)
	a.Body.SetInput(mgl32.Vec3{math32.Cos(rad), math32.Sin(rad), 0})

	// Every two seconds the next action of the schedule runs.
	if b.time < float32(b.next+1)*2 {
		return
	}
	switch b.next % 6 {
	case 0:
		a.SetDesiredGait(game.GaitSprinting, true)
	case 1:
		a.Jump()
	case 2:
		a.SetDesiredGait(game.GaitRunning, true)
		a.StartRolling(1)
	case 3:
		a.SetDesiredStance(game.StanceCrouching, true)
	case 4:
		a.SetDesiredStance(game.StanceStanding, true)
		a.StartMantlingGrounded()
	case 5:
		a.SetDesiredAiming(!a.DesiredAiming(), true)
	}
	b.next++
}

// logHandler logs the locomotion events of the controlled character.
type logHandler struct {
	character.NopHandler
	log *logrus.Logger
}

func (h logHandler) HandleLocomotionActionChanged(prev game.LocomotionAction) {
	h.log.Infof("locomotion action changed (was %v)", prev)
}

func (h logHandler) HandleLocomotionModeChanged(prev game.LocomotionMode) {
	h.log.Infof("locomotion mode changed (was %v)", prev)
}

func (h logHandler) HandleMantlingStarted(params game.MantlingParameters) {
	h.log.Infof("mantling %v ledge of %.0fcm", params.MantlingType, params.MantlingHeight)
}

func (h logHandler) HandleRagdollingStarted() {
	h.log.Info("ragdolling")
}

func (h logHandler) HandleJumped() {
	h.log.Info("jumped")
}
