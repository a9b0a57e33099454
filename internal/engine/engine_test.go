package engine_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gyaneshwarpardhi/pipetree/internal/config"
	"github.com/gyaneshwarpardhi/pipetree/internal/engine"
	"github.com/gyaneshwarpardhi/pipetree/internal/graph"
	"github.com/gyaneshwarpardhi/pipetree/internal/pipeline"
)

func newTestEngine(t *testing.T, conf config.ServerConf) (*engine.Engine, *graph.Service) {
	t.Helper()
	svc := graph.NewService()
	src, _ := svc.AddSource("Wavelet1")
	if _, err := svc.AddSource("Contour1", src.ID()); err != nil {
		t.Fatalf("AddSource: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	eng := engine.New(ctx, pipeline.NewBrowser(pipeline.NewSession(svc, nil), nil), conf)
	t.Cleanup(func() {
		eng.Shutdown()
		cancel()
	})
	return eng, svc
}

func TestEngine_UpdateAndSelect(t *testing.T) {
	eng, svc := newTestEngine(t, config.ServerConf{})
	ctx := context.Background()

	st, err := eng.Update(ctx)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if len(st.Sources) != 2 {
		t.Fatalf("expected 2 sources, got %d", len(st.Sources))
	}

	leaf := st.Sources[1].ID
	st, err = eng.SetActive(ctx, []string{leaf})
	if err != nil {
		t.Fatalf("SetActive: %v", err)
	}
	if len(st.Actives) != 1 || st.Actives[0] != leaf {
		t.Errorf("actives = %v, want [%s]", st.Actives, leaf)
	}
	if p, ok := svc.ActiveSource(); !ok || p.GlobalID() != leaf {
		t.Error("service active source not updated")
	}
}

func TestEngine_SerializesCommands(t *testing.T) {
	eng, _ := newTestEngine(t, config.ServerConf{QueueDepth: 64})
	ctx := context.Background()

	var mu sync.Mutex
	running, maxRunning := 0, 0
	cmd := engine.Command{Name: "probe", Apply: func(*pipeline.Browser) error {
		mu.Lock()
		running++
		if running > maxRunning {
			maxRunning = running
		}
		mu.Unlock()
		time.Sleep(time.Millisecond)
		mu.Lock()
		running--
		mu.Unlock()
		return nil
	}}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := eng.Do(ctx, cmd); err != nil {
				t.Errorf("Do: %v", err)
			}
		}()
	}
	wg.Wait()
	if maxRunning != 1 {
		t.Errorf("commands overlapped: max concurrent = %d", maxRunning)
	}
}

func TestEngine_QueueFull(t *testing.T) {
	eng, _ := newTestEngine(t, config.ServerConf{QueueDepth: 1, CommandTimeoutMs: 2000})
	ctx := context.Background()

	release := make(chan struct{})
	started := make(chan struct{})
	block := engine.Command{Name: "block", Apply: func(*pipeline.Browser) error {
		close(started)
		<-release
		return nil
	}}
	go eng.Do(ctx, block)
	<-started

	// one fits in the queue, the next is rejected
	go eng.Do(ctx, engine.Command{Name: "queued"})
	deadline := time.Now().Add(time.Second)
	for eng.QueueUtilization() < 1 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	_, err := eng.Do(ctx, engine.Command{Name: "dropped"})
	close(release)
	if !errors.Is(err, engine.ErrQueueFull) {
		t.Errorf("got %v, want ErrQueueFull", err)
	}
}

func TestEngine_Timeout(t *testing.T) {
	eng, _ := newTestEngine(t, config.ServerConf{CommandTimeoutMs: 10})
	release := make(chan struct{})
	defer close(release)

	_, err := eng.Do(context.Background(), engine.Command{Name: "slow", Apply: func(*pipeline.Browser) error {
		<-release
		return nil
	}})
	if !errors.Is(err, engine.ErrTimeout) {
		t.Errorf("got %v, want ErrTimeout", err)
	}
}

func TestEngine_CommandError(t *testing.T) {
	eng, _ := newTestEngine(t, config.ServerConf{})
	want := errors.New("nope")
	_, err := eng.Do(context.Background(), engine.Command{Name: "fail", Apply: func(*pipeline.Browser) error { return want }})
	if !errors.Is(err, want) {
		t.Errorf("got %v, want %v", err, want)
	}
}
