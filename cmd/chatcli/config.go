package main

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// CHAT_ADDR is the chat server address
	Addr string `envconfig:"CHAT_ADDR" default:"localhost:9000"`
	// CHAT_COLOURS enables colorized output of own messages
	Colours bool `envconfig:"CHAT_COLOURS" default:"true"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
