package api

import (
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServerRequiresAService(t *testing.T) {
	_, err := NewServer(GatewayAppName, WithConfig(map[string]string{}), WithVerifier(fakeVerifier{}))

	assert.ErrorContains(t, err, "no service configured")
}

func TestNewServerAppliesConfig(t *testing.T) {
	server, err := NewServer(StoreAppName,
		WithConfig(map[string]string{"PORT": "8082", "READ_TIMEOUT_SECONDS": "5"}),
		WithVerifier(fakeVerifier{}),
		WithProductRepository(newFakeProductRepo()),
	)

	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:8082", server.Addr)
	assert.Equal(t, 5*time.Second, server.ReadTimeout)
	assert.Equal(t, 180*time.Second, server.WriteTimeout)
	assert.False(t, server.startupTime.IsZero())
}

func newRunnableServer(t *testing.T, port string) Server {
	t.Helper()
	server, err := NewServer(StoreAppName,
		WithConfig(map[string]string{"PORT": port}),
		WithVerifier(fakeVerifier{}),
		WithProductRepository(newFakeProductRepo()),
	)
	require.NoError(t, err)
	return server
}

func TestRunShutsDownOnSignal(t *testing.T) {
	server := newRunnableServer(t, "0")
	signals := make(chan os.Signal, 1)
	done := make(chan error, 1)

	go func() { done <- server.Run(signals, time.Second) }()
	signals <- syscall.SIGTERM

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop after the signal")
	}
}

func TestRunReturnsListenerErrors(t *testing.T) {
	server := newRunnableServer(t, "not-a-port")

	select {
	case err := <-runAsync(server):
		assert.Error(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("listener error was not returned")
	}
}

func runAsync(server Server) <-chan error {
	done := make(chan error, 1)
	go func() { done <- server.Run(make(chan os.Signal), time.Second) }()
	return done
}
