package character

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestSchedulerRunsDueCallbacksOnce(t *testing.T) {
	s := NewScheduler()
	var order []string
	s.Schedule("b", 1, func() { order = append(order, "b") })
	s.Schedule("a", 0.5, func() { order = append(order, "a") })

	s.Tick(0.4)
	if len(order) != 0 {
		t.Fatalf("nothing is due yet, ran %v", order)
	}
	s.Tick(1)
	s.Tick(2)
	if strings.Join(order, ",") != "b,a" {
		t.Fatalf("expected both callbacks once in scheduling order, got %v", order)
	}
	if s.Pending("a") || s.Pending("b") {
		t.Fatalf("callbacks that ran must not stay pending")
	}
}

func TestSchedulerReplacesAndCancels(t *testing.T) {
	s := NewScheduler()
	var ran int
	s.Schedule("reset", 1, func() { ran = 1 })
	s.Schedule("reset", 2, func() { ran = 2 })

	s.Tick(1.5)
	if ran != 0 {
		t.Fatalf("the replaced callback must not run")
	}
	s.Cancel("reset")
	s.Tick(3)
	if ran != 0 || s.Pending("reset") {
		t.Fatalf("a cancelled callback must not run")
	}
}

func TestSchedulerCallbackCanReschedule(t *testing.T) {
	s := NewScheduler()
	var runs int
	var f func()
	f = func() {
		runs++
		s.Schedule("loop", 0, f)
	}
	s.Schedule("loop", 0, f)

	s.Tick(1)
	if runs != 1 || !s.Pending("loop") {
		t.Fatalf("a rescheduled callback must wait for the next tick, ran %d times", runs)
	}
}

func TestDebuggerOnlyLogsEnabledModes(t *testing.T) {
	buf := &bytes.Buffer{}
	log := logrus.New()
	log.SetOutput(buf)
	log.SetLevel(logrus.DebugLevel)

	d := NewDebugger(log.WithField("character", 1))
	d.Notify(DebugModeRolling, true, "hidden")
	d.Toggle(DebugModeRolling)
	d.Notify(DebugModeRolling, false, "hidden")
	d.Notify(DebugModeRolling, true, "visible %d", 42)

	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "visible 42") || !strings.Contains(out, "debug=rolling") {
		t.Fatalf("unexpected debug output %q", out)
	}

	d.Toggle(DebugModeRolling)
	if d.Enabled(DebugModeRolling) {
		t.Fatalf("toggling twice must disable the mode")
	}
}

func TestParseDebugMode(t *testing.T) {
	m, ok := ParseDebugMode(" Ragdolling ")
	if !ok || m != DebugModeRagdolling {
		t.Fatalf("expected ragdolling, got %v (%v)", m, ok)
	}
	if _, ok := ParseDebugMode("teleport"); ok {
		t.Fatalf("unknown modes must not parse")
	}
}
