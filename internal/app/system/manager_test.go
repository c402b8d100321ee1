package system

import (
	"context"
	"errors"
	"testing"
)

type recordedService struct {
	name     string
	events   *[]string
	startErr error
}

func (r *recordedService) Name() string { return r.name }

func (r *recordedService) Start(context.Context) error {
	*r.events = append(*r.events, "start:"+r.name)
	return r.startErr
}

func (r *recordedService) Stop(context.Context) error {
	*r.events = append(*r.events, "stop:"+r.name)
	return nil
}

func TestStartOrderAndReverseStop(t *testing.T) {
	var events []string
	m := NewManager()
	for _, name := range []string{"first", "second", "third"} {
		if err := m.Register(&recordedService{name: name, events: &events}); err != nil {
			t.Fatalf("register %s: %v", name, err)
		}
	}

	ctx := context.Background()
	if err := m.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := m.Stop(ctx); err != nil {
		t.Fatalf("stop: %v", err)
	}

	want := []string{"start:first", "start:second", "start:third", "stop:third", "stop:second", "stop:first"}
	if len(events) != len(want) {
		t.Fatalf("events %v, want %v", events, want)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Fatalf("event %d = %s, want %s", i, events[i], want[i])
		}
	}
}

func TestStartFailureUnwindsStartedServices(t *testing.T) {
	var events []string
	m := NewManager()
	m.Register(&recordedService{name: "ok", events: &events})
	m.Register(&recordedService{name: "broken", events: &events, startErr: errors.New("boom")})

	if err := m.Start(context.Background()); err == nil {
		t.Fatal("expected start error")
	}
	want := []string{"start:ok", "start:broken", "stop:ok"}
	if len(events) != len(want) {
		t.Fatalf("events %v, want %v", events, want)
	}
}

func TestDuplicateNameRejected(t *testing.T) {
	m := NewManager()
	if err := m.Register(NoopService{ServiceName: "dup"}); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if err := m.Register(NoopService{ServiceName: "dup"}); err == nil {
		t.Fatal("expected duplicate name error")
	}
}

func TestStopWithoutStartIsNoop(t *testing.T) {
	m := NewManager()
	m.Register(NoopService{ServiceName: "idle"})
	if err := m.Stop(context.Background()); err != nil {
		t.Fatalf("stop: %v", err)
	}
}
