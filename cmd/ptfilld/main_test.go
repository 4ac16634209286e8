package main

import (
	"net"
	"os"
	"testing"
	"time"

	"pt-autofill/internal/config"
	"pt-autofill/pkg/logger"
)

func TestRunReturnsListenError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()

	cfg := config.Default()
	cfg.Server.Addr = ln.Addr().String()

	done := make(chan error, 1)
	go func() { done <- run(&cfg, logger.Discard(), make(chan os.Signal)) }()

	select {
	case err := <-done:
		if err == nil {
			t.Fatal("expected an error for an address already in use")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("run kept blocking after the listener failed")
	}
}

func TestRunStopsOnSignal(t *testing.T) {
	cfg := config.Default()
	cfg.Server.Addr = "127.0.0.1:0"

	stop := make(chan os.Signal, 1)
	done := make(chan error, 1)
	go func() { done <- run(&cfg, logger.Discard(), stop) }()
	stop <- os.Interrupt

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("graceful stop: %v", err)
		}
	case <-time.After(15 * time.Second):
		t.Fatal("run did not return after stop")
	}
}
