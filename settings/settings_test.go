package settings

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/oomph-ac/locomotion/game"
)

func TestLoadCreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")

	s, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected the settings file to be created: %v", err)
	}
	if s.Server.TickRate != 60 {
		t.Fatalf("expected the default tick rate, got %d", s.Server.TickRate)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error reading the created file: %v", err)
	}
	if loaded.Character.Rolling.RotationCurve.Eval(0.5) != s.Character.Rolling.RotationCurve.Eval(0.5) {
		t.Fatalf("the rolling curve did not survive a round trip")
	}
	if loaded.Character.Mantling.High.Montage != s.Character.Mantling.High.Montage {
		t.Fatalf("expected montage %v, got %v", s.Character.Mantling.High.Montage, loaded.Character.Mantling.High.Montage)
	}
	if loaded.Session().ResendInterval != s.Session().ResendInterval {
		t.Fatalf("the resend interval did not survive a round trip")
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	if _, err := Load(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	edited := strings.Replace(string(data), "TickRate = 60", "TickRate = 30", 1)
	if edited == string(data) {
		t.Fatalf("expected the created file to contain the default tick rate")
	}
	if err := os.WriteFile(path, []byte(edited), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Server.TickRate != 30 {
		t.Fatalf("expected the file to override the tick rate, got %d", s.Server.TickRate)
	}
	if s.TickInterval() != time.Second/30 {
		t.Fatalf("unexpected tick interval %v", s.TickInterval())
	}
}

func TestLoadRejectsInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	if _, err := Load(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	edited := strings.Replace(string(data), "TickRate = 60", "TickRate = 0", 1)
	if err := os.WriteFile(path, []byte(edited), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected a zero tick rate to be rejected")
	}
}

func TestValidateRejectsDecreasingStartTimeCurve(t *testing.T) {
	s := DefaultSettings()
	s.Character.Mantling.High.StartTimeCurve = game.NewCurve(game.Key{Time: 125, Value: 0.4}, game.Key{Time: 225, Value: 0.1})

	err := s.Validate()
	if err == nil || !strings.Contains(err.Error(), "start time curve") {
		t.Fatalf("expected the start time curve to be rejected, got %v", err)
	}
}

func TestValidateRejectsSmoothingWindow(t *testing.T) {
	s := DefaultSettings()
	s.Character.View.NetworkSmoothingDuration = 0
	if err := s.Validate(); err == nil {
		t.Fatalf("expected a zero smoothing window to be rejected")
	}
}
