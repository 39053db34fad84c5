package server

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"vitashop/internal/config"
)

func TestNew_AppliesConfig(t *testing.T) {
	srv := New(config.ServerConfig{
		Port:            9000,
		ReadTimeout:     time.Second,
		WriteTimeout:    45 * time.Second,
		IdleTimeout:     time.Minute,
		ShutdownTimeout: time.Second,
	}, http.NotFoundHandler(), zap.NewNop())

	assert.Equal(t, ":9000", srv.Addr())
	assert.Equal(t, 45*time.Second, srv.httpServer.WriteTimeout)
	assert.Equal(t, time.Second, srv.shutdownTimeout)
}

func TestShutdown_NotStarted(t *testing.T) {
	srv := New(config.ServerConfig{Port: 0, ShutdownTimeout: time.Second}, http.NotFoundHandler(), zap.NewNop())

	assert.NoError(t, srv.Shutdown(context.Background()))
}
