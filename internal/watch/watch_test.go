package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"

	"announcer/pkg/logx"
)

func TestRelevant(t *testing.T) {
	cases := []struct {
		ev   fsnotify.Event
		want bool
	}{
		{fsnotify.Event{Name: "assets/data/jobs.json", Op: fsnotify.Write}, true},
		{fsnotify.Event{Name: "assets/data/jobs.json", Op: fsnotify.Create}, true},
		{fsnotify.Event{Name: "assets/data/jobs.json", Op: fsnotify.Rename}, true},
		{fsnotify.Event{Name: "assets/data/jobs.json", Op: fsnotify.Chmod}, false},
		{fsnotify.Event{Name: "assets/data/jobs.json", Op: fsnotify.Remove}, false},
		{fsnotify.Event{Name: "assets/data/jobs.json.swp", Op: fsnotify.Write}, false},
		{fsnotify.Event{Name: "Jobs/a.html", Op: fsnotify.Write}, false},
	}
	for _, tc := range cases {
		if got := relevant(tc.ev); got != tc.want {
			t.Fatalf("relevant(%v %v) = %v, want %v", tc.ev.Name, tc.ev.Op, got, tc.want)
		}
	}
}

func TestRunRequiresATriggerSource(t *testing.T) {
	s := New(Config{}, func(context.Context) {}, logx.Nop())
	if err := s.Run(context.Background()); err == nil {
		t.Fatalf("no schedule and no index dir must error")
	}
}

func TestRunRejectsBadCronSpec(t *testing.T) {
	s := New(Config{Schedule: "not a cron spec"}, func(context.Context) {}, logx.Nop())
	if err := s.Run(context.Background()); err == nil {
		t.Fatalf("invalid cron spec must error")
	}
}

func TestFileChangeTriggersRun(t *testing.T) {
	dir := t.TempDir()

	ran := make(chan struct{}, 1)
	s := New(
		Config{IndexDir: dir, Debounce: 50 * time.Millisecond},
		func(context.Context) { ran <- struct{}{} },
		logx.Nop(),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	// Give the watcher a moment to arm before writing.
	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(filepath.Join(dir, "jobs.json"), []byte(`[]`), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-ran:
	case <-time.After(5 * time.Second):
		t.Fatalf("file change never triggered a run")
	}

	cancel()
	select {
	case err := <-done:
		if err != context.Canceled {
			t.Fatalf("Run returned %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("Run did not stop on cancel")
	}
}

// A burst of writes inside the debounce window collapses into one run.
func TestDebounceCoalescesBursts(t *testing.T) {
	dir := t.TempDir()

	var runs int
	counted := make(chan struct{}, 16)
	s := New(
		Config{IndexDir: dir, Debounce: 200 * time.Millisecond},
		func(context.Context) { runs++; counted <- struct{}{} },
		logx.Nop(),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = s.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	path := filepath.Join(dir, "jobs.json")
	for i := 0; i < 5; i++ {
		if err := os.WriteFile(path, []byte(`[]`), 0o644); err != nil {
			t.Fatal(err)
		}
		time.Sleep(20 * time.Millisecond)
	}

	select {
	case <-counted:
	case <-time.After(5 * time.Second):
		t.Fatalf("burst never triggered a run")
	}
	// No second run should follow.
	select {
	case <-counted:
		t.Fatalf("burst triggered %d runs, want 1", runs)
	case <-time.After(500 * time.Millisecond):
	}
}
