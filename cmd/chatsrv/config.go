package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"strconv"
	"time"

	"github.com/Netflix/go-env"

	"github.com/wtask/chatrelay/internal/chat/broker"
)

// Config - server configuration, environment first, command line flags override it.
type Config struct {
	Host            string        `env:"CHAT_HOST"`
	Port            int           `env:"CHAT_PORT,default=9000"`
	LogLevel        string        `env:"LOG_LEVEL,default=INFO"`
	WriteTimeout    time.Duration `env:"CHAT_WRITE_TIMEOUT,default=30s"`
	IdleTimeout     time.Duration `env:"CHAT_IDLE_TIMEOUT,default=0s"`
	QueueSize       int           `env:"CHAT_QUEUE_SIZE,default=1024"`
	OverflowPolicy  string        `env:"CHAT_OVERFLOW_POLICY,default=drop-oldest"`
	MaxLineSize     int           `env:"CHAT_MAX_LINE_SIZE,default=65536"`
	ShutdownTimeout time.Duration `env:"CHAT_SHUTDOWN_TIMEOUT,default=10s"`
}

var errHelp = errors.New("help requested")

// loadConfig - reads config from environment and overrides it with args (without program name).
// Returns errHelp when usage was printed.
func loadConfig(args []string, out io.Writer) (Config, error) {
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return config, fmt.Errorf("config error: %w", err)
	}

	flags := flag.NewFlagSet(BinaryName, flag.ContinueOnError)
	flags.SetOutput(out)
	flags.Usage = func() {
		fmt.Fprintf(out, "Launch text chat server over TCP\n\n\t%s [options]\nOptions:\n\n", BinaryName)
		flags.PrintDefaults()
		fmt.Fprint(out, "\n")
	}
	help := false
	flags.BoolVar(&help, "help", false, "Print usage help")
	flags.StringVar(&config.Host, "ip", config.Host, "Listen address")
	flags.IntVar(&config.Port, "port", config.Port, "Listen port")
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return config, errHelp
		}
		return config, err
	}
	if help {
		flags.Usage()
		return config, errHelp
	}
	return config, config.Validate()
}

// Validate - checks config values which can not be checked by the broker itself.
func (c Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if _, err := broker.ParseOverflowPolicy(c.OverflowPolicy); err != nil {
		return err
	}
	if c.ShutdownTimeout < 0 {
		return errors.New("shutdown timeout should be greater or equal 0")
	}
	return nil
}

// Address - listen address.
func (c Config) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// BrokerOptions - broker tuning from config.
func (c Config) BrokerOptions() []broker.Option {
	policy, _ := broker.ParseOverflowPolicy(c.OverflowPolicy)
	return []broker.Option{
		broker.WithWriteTimeout(c.WriteTimeout),
		broker.WithIdleTimeout(c.IdleTimeout),
		broker.WithQueueSize(c.QueueSize),
		broker.WithOverflowPolicy(policy),
		broker.WithMaxLineSize(c.MaxLineSize),
	}
}
