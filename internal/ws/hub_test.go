package ws

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"go-pos-checkout/pkg/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	mu       sync.Mutex
	frames   [][]byte
	closed   bool
	failNext bool
}

func (c *fakeConn) WriteMessage(_ int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failNext {
		return errors.New("broken pipe")
	}
	c.frames = append(c.frames, data)
	return nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeConn) received() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([][]byte(nil), c.frames...)
}

func TestHub_PublishReachesClients(t *testing.T) {
	hub := NewHub(logging.Discard())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	good := &fakeConn{}
	broken := &fakeConn{failNext: true}
	hub.Register(good)
	hub.Register(broken)

	hub.Publish(Event{Type: "sale_completed", Action: "created", Data: map[string]int{"sale_id": 7}})

	require.Eventually(t, func() bool { return len(good.received()) == 1 }, time.Second, 5*time.Millisecond)

	var got Event
	require.NoError(t, json.Unmarshal(good.received()[0], &got))
	assert.Equal(t, "sale_completed", got.Type)
	assert.Equal(t, "created", got.Action)

	require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 5*time.Millisecond)
}

func TestHub_RunClosesClientsOnShutdown(t *testing.T) {
	hub := NewHub(logging.Discard())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()

	conn := &fakeConn{}
	hub.Register(conn)
	cancel()
	<-done

	assert.True(t, conn.closed)
	assert.Zero(t, hub.Clients())
}

func TestHub_RegistrationAfterShutdownReturns(t *testing.T) {
	hub := NewHub(logging.Discard())
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	conn := &fakeConn{}
	hub.Register(conn)
	cancel()
	<-stopped

	returned := make(chan struct{})
	late := &fakeConn{}
	go func() {
		hub.Unregister(conn)
		hub.Register(late)
		close(returned)
	}()

	select {
	case <-returned:
	case <-time.After(time.Second):
		t.Fatal("registration blocked after the hub stopped")
	}
	assert.True(t, late.closed)
	assert.Zero(t, hub.Clients())
}
