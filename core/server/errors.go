package server

import "errors"

var (
	// TLS configuration errors
	ErrEmptyCertPath  = errors.New("server: certificate and key file paths must both be set")
	ErrFailedLoadCert = errors.New("server: failed to load certificate")

	// Server lifecycle errors
	ErrServerAlreadyRunning = errors.New("server: already running")
	ErrListen               = errors.New("server: listen failed")
	ErrServe                = errors.New("server: serve failed")
	ErrShutdown             = errors.New("server: shutdown failed")
)
