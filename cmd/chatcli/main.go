// Package `chatcli` implements simple terminal client for chat over TCP.
//
// Client reads lines from stdin and sends them to the server at CHAT_ADDR,
// every line received from the server is printed to stdout.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gookit/color"
	"github.com/joho/godotenv"

	"github.com/wtask/chatrelay/internal/chat/broker"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "chatcli error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()
	config, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dialer := net.Dialer{Timeout: 5 * time.Second}
	conn, err := dialer.DialContext(ctx, "tcp", config.Addr)
	if err != nil {
		return fmt.Errorf("failed to connect %s: %w", config.Addr, err)
	}
	return chat(ctx, conn, os.Stdin, os.Stdout, config.Colours)
}

// chat - forwards lines of in to conn and prints lines of conn to out
// until the server closes connection or ctx is done.
// Sender stops with chat, except a pending read of in which returns on the next line or EOF.
func chat(ctx context.Context, conn net.Conn, in io.Reader, out io.Writer, colours bool) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer conn.Close()
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	go send(ctx, conn, in)
	return receive(conn, out, colours)
}

// send - writes lines of in to conn until ctx is done, half-closes conn when in is exhausted.
func send(ctx context.Context, conn net.Conn, in io.Reader) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}
		if _, err := io.WriteString(conn, scanner.Text()+"\n"); err != nil {
			return
		}
	}
	if ctx.Err() != nil {
		return
	}
	if half, ok := conn.(interface{ CloseWrite() error }); ok {
		half.CloseWrite()
		return
	}
	conn.Close()
}

func receive(conn net.Conn, out io.Writer, colours bool) error {
	reader := bufio.NewReader(conn)
	for {
		line, err := reader.ReadString('\n')
		if line != "" {
			fmt.Fprint(out, render(line, colours))
		}
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) || errors.Is(err, io.ErrClosedPipe) {
				return nil
			}
			return err
		}
	}
}

// render - highlights own messages.
func render(line string, colours bool) string {
	if !colours || !strings.HasPrefix(line, broker.SelfName+" [") {
		return line
	}
	text := strings.TrimSuffix(line, "\n")
	return color.New(color.FgGreen).Render(text) + "\n"
}
