package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"

	"github.com/wtask/chatrelay/internal/chat"
)

// BinaryName - name of run application binary
var BinaryName = strings.TrimSuffix(filepath.Base(os.Args[0]), filepath.Ext(os.Args[0]))

func main() {
	if err := run(); err != nil {
		if errors.Is(err, errHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "%s error: %v\n", BinaryName, err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()
	config, err := loadConfig(os.Args[1:], os.Stderr)
	if err != nil {
		return err
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	listener, err := net.Listen("tcp", config.Address())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", config.Address(), err)
	}
	server, err := chat.NewServer(
		chat.DefaultBroker(config.BrokerOptions()...),
		chat.WithLogger(log),
	)
	if err != nil {
		listener.Close()
		return fmt.Errorf("can't start chat server: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	served := make(chan error, 1)
	go func() { served <- server.Serve(listener) }()
	log.Info("listening", "address", listener.Addr().String(), "hint", "telnet "+listener.Addr().String())

	select {
	case <-ctx.Done():
		log.Info("got stop signal")
	case err = <-served:
		log.Error("serving failed", "error", err)
	}
	log.Info("chat server stopped", "duration", server.Shutdown(config.ShutdownTimeout))
	return err
}
