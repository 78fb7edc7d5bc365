// Package `chatsrv` implements server application for chat over TCP.
//
// Server is configured with environment variables (optionally loaded from .env file),
// listen address can be overridden with -ip and -port flags:
//
//	CHAT_HOST, CHAT_PORT (9000), LOG_LEVEL (INFO),
//	CHAT_WRITE_TIMEOUT (30s), CHAT_IDLE_TIMEOUT (0s, disabled),
//	CHAT_QUEUE_SIZE (1024), CHAT_OVERFLOW_POLICY (drop-oldest|disconnect),
//	CHAT_MAX_LINE_SIZE (65536), CHAT_SHUTDOWN_TIMEOUT (10s).
//
// To compile chat server locally, run from package directory:
//
//	go install .
//
// Or quickly launch server with command:
//
//	go run .
//
// and connect with any line-oriented client, for example telnet localhost 9000.
package main
