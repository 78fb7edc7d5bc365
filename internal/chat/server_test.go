package chat

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/wtask/chatrelay/internal/chat/broker"
	"github.com/wtask/chatrelay/internal/chat/mocks"
)

var fixedTime = time.Date(2026, time.October, 15, 18, 0, 1, 0, time.Local)

func newTestServer(test *testing.T) *Server {
	server, err := NewServer(
		DefaultBroker(broker.WithClock(func() time.Time { return fixedTime })),
		WithLogger(logs.GetLoggerFromLevel(slog.LevelDebug)),
		WithAcceptBackoff(time.Millisecond, 10*time.Millisecond),
	)
	require.NoError(test, err)
	test.Cleanup(func() { test.Log("server stopped in:", server.Shutdown(time.Second)) })
	return server
}

func serve(test *testing.T, server *Server) net.Addr {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(test, err)
	go server.Serve(listener)
	return listener.Addr()
}

// netClient - chat client over real network connection.
type netClient struct {
	conn   net.Conn
	reader *bufio.Reader
}

func dial(test *testing.T, addr net.Addr) *netClient {
	conn, err := net.DialTimeout(addr.Network(), addr.String(), time.Second)
	require.NoError(test, err)
	test.Cleanup(func() { conn.Close() })
	return &netClient{conn: conn, reader: bufio.NewReader(conn)}
}

func (c *netClient) readLine(test *testing.T) string {
	test.Helper()
	c.conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	line, err := c.reader.ReadString('\n')
	require.NoError(test, err)
	return line
}

func (c *netClient) welcome(test *testing.T) string {
	test.Helper()
	greeting := c.readLine(test)
	require.Equal(test, "\n", c.readLine(test))
	return greeting
}

func (c *netClient) send(test *testing.T, text string) {
	test.Helper()
	c.conn.SetWriteDeadline(time.Now().Add(time.Second))
	_, err := io.WriteString(c.conn, text+"\n")
	require.NoError(test, err)
}

func line(name, text string) string {
	return name + " [" + fixedTime.Format(broker.TimeLayout) + "]: " + text + "\n"
}

func TestNewServer(test *testing.T) {
	req := require.New(test)

	_, err := NewServer(nil)
	req.Error(err)

	_, err = NewServer(DefaultBroker(), WithLogger(nil))
	req.Error(err)

	_, err = NewServer(DefaultBroker(), WithAcceptBackoff(time.Second, time.Millisecond))
	req.Error(err)

	_, err = NewServer(DefaultBroker(broker.WithQueueSize(-1)))
	req.Error(err)

	failed := errors.New("no broker")
	_, err = NewServer(func(*slog.Logger) (*broker.Broker, error) { return nil, failed })
	req.ErrorIs(err, failed)

	server, err := NewServer(DefaultBroker())
	req.NoError(err)
	req.Zero(server.Connections())
	req.Less(server.Shutdown(time.Second), time.Second)
}

func TestServer_Scenario(test *testing.T) {
	req := require.New(test)
	server := newTestServer(test)
	addr := serve(test, server)

	// Client1 connects and is greeted
	c1 := dial(test, addr)
	req.Equal("Client1 welcome! Please write here!\n", c1.welcome(test))

	// Client2 connects and is greeted
	c2 := dial(test, addr)
	req.Equal("Client2 welcome! Please write here!\n", c2.welcome(test))

	// Client1 says hello
	c1.send(test, "hello")
	req.Equal(line("Me", "hello"), c1.readLine(test))
	req.Equal(line("Client1", "hello"), c2.readLine(test))

	// Client1 transport is closed abruptly
	c1.conn.Close()
	req.Eventually(func() bool { return server.Connections() == 1 }, 2*time.Second, 5*time.Millisecond)

	// Client2 is still served
	c2.send(test, "still here")
	req.Equal(line("Me", "still here"), c2.readLine(test))
}

func TestServer_IdentitiesAreNeverReused(test *testing.T) {
	req := require.New(test)
	server := newTestServer(test)
	addr := serve(test, server)

	clients := []*netClient{}
	for i := 1; i <= 5; i++ {
		c := dial(test, addr)
		req.Equal(fmt.Sprintf("Client%d welcome! Please write here!\n", i), c.welcome(test))
		clients = append(clients, c)
	}

	// When every client leaves
	for _, c := range clients {
		c.conn.Close()
	}
	req.Eventually(func() bool { return server.Connections() == 0 }, 2*time.Second, 5*time.Millisecond)

	// Then the next client still gets a fresh identity
	c := dial(test, addr)
	req.Equal("Client6 welcome! Please write here!\n", c.welcome(test))
}

func TestServer_Serve_AcceptFailure(test *testing.T) {
	req := require.New(test)
	ctrl := gomock.NewController(test)
	listener := mocks.NewMockListener(ctrl)
	client, conn := net.Pipe()
	defer client.Close()

	closed := make(chan struct{})
	once := sync.Once{}
	// Given listener which fails once before accepting a connection
	gomock.InOrder(
		listener.EXPECT().Accept().Return(nil, errors.New("accept: too many open files")),
		listener.EXPECT().Accept().Return(conn, nil),
		listener.EXPECT().Accept().DoAndReturn(func() (net.Conn, error) {
			<-closed
			return nil, net.ErrClosed
		}),
	)
	listener.EXPECT().Close().DoAndReturn(func() error {
		once.Do(func() { close(closed) })
		return nil
	}).MinTimes(1)

	server := newTestServer(test)
	served := make(chan error, 1)
	go func() { served <- server.Serve(listener) }()

	// Then accept loop survives the failure and greets the next client
	client.SetReadDeadline(time.Now().Add(time.Second))
	greeting, err := bufio.NewReader(client).ReadString('\n')
	req.NoError(err)
	req.Equal("Client1 welcome! Please write here!\n", greeting)

	// And stops cleanly on shutdown
	test.Log("server stopped in:", server.Shutdown(time.Second))
	select {
	case err := <-served:
		req.NoError(err)
	case <-time.After(time.Second):
		req.Fail("Serve did not return after shutdown")
	}
}

func TestServer_Serve_ListenerClosedOutside(test *testing.T) {
	req := require.New(test)
	ctrl := gomock.NewController(test)
	listener := mocks.NewMockListener(ctrl)

	listener.EXPECT().Accept().Return(nil, net.ErrClosed)
	listener.EXPECT().Close().Return(nil).AnyTimes()

	server := newTestServer(test)

	err := server.Serve(listener)

	req.ErrorIs(err, net.ErrClosed)
}

func TestServer_ServeAfterShutdown(test *testing.T) {
	req := require.New(test)
	ctrl := gomock.NewController(test)
	listener := mocks.NewMockListener(ctrl)
	listener.EXPECT().Close().Return(nil).Times(1)

	server := newTestServer(test)
	server.Shutdown(time.Second)

	req.NoError(server.Serve(listener))
	req.Error(server.Serve(nil))
}

func TestServer_Shutdown_DisconnectsClients(test *testing.T) {
	req := require.New(test)
	server := newTestServer(test)
	addr := serve(test, server)
	c := dial(test, addr)
	c.welcome(test)

	test.Log("server stopped in:", server.Shutdown(time.Second))

	req.Zero(server.Connections())
	c.conn.SetReadDeadline(time.Now().Add(time.Second))
	_, err := c.reader.ReadString('\n')
	req.ErrorIs(err, io.EOF)
	req.Zero(server.Shutdown(time.Second))
}
