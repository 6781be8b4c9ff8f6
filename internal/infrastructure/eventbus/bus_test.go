package eventbus

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	domevent "ibook/internal/domain/event"
	"ibook/internal/domain/inventory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEvent(t *testing.T) inventory.ProductAddedEvent {
	t.Helper()
	key, err := inventory.NewProductKey("Milk", "Dairy")
	require.NoError(t, err)
	return inventory.NewProductAddedEvent(key)
}

func TestBusDeliversToSubscriber(t *testing.T) {
	bus := NewBus(nil)
	received := make(chan domevent.Event, 1)
	bus.Subscribe(inventory.EventProductAdded, func(_ context.Context, e domevent.Event) error {
		received <- e
		return nil
	})

	bus.Start(context.Background())
	defer bus.Stop(context.Background())

	e := newEvent(t)
	require.NoError(t, bus.Publish(context.Background(), e))

	select {
	case got := <-received:
		assert.Equal(t, inventory.EventProductAdded, got.EventName())
	case <-time.After(2 * time.Second):
		t.Fatal("event was not delivered")
	}
}

func TestBusFansOutToAllSubscribers(t *testing.T) {
	bus := NewBus(nil)
	var delivered atomic.Int32
	for i := 0; i < 3; i++ {
		bus.Subscribe(inventory.EventProductAdded, func(context.Context, domevent.Event) error {
			delivered.Add(1)
			return nil
		})
	}

	bus.Start(context.Background())
	defer bus.Stop(context.Background())
	require.NoError(t, bus.Publish(context.Background(), newEvent(t)))

	require.Eventually(t, func() bool {
		return delivered.Load() == 3
	}, 2*time.Second, 10*time.Millisecond)
}

func TestBusIgnoresEventsWithoutSubscribers(t *testing.T) {
	bus := NewBus(nil)
	bus.Start(context.Background())
	defer bus.Stop(context.Background())

	require.NoError(t, bus.Publish(context.Background(), newEvent(t)))
}

func TestBusSurvivesPanickingHandler(t *testing.T) {
	bus := NewBus(nil)
	received := make(chan struct{}, 1)
	bus.Subscribe(inventory.EventProductAdded, func(context.Context, domevent.Event) error {
		panic("handler blew up")
	})
	bus.Subscribe(inventory.EventProductAdded, func(context.Context, domevent.Event) error {
		received <- struct{}{}
		return nil
	})

	bus.Start(context.Background())
	defer bus.Stop(context.Background())

	require.NoError(t, bus.Publish(context.Background(), newEvent(t)))

	select {
	case <-received:
	case <-time.After(2 * time.Second):
		t.Fatal("second handler was not reached after panic in the first")
	}
}

func TestBusPublishAfterStop(t *testing.T) {
	bus := NewBus(nil)
	bus.Start(context.Background())
	bus.Stop(context.Background())

	err := bus.Publish(context.Background(), newEvent(t))
	require.ErrorIs(t, err, ErrClosed)
}

func TestBusPublishRacingStopDoesNotPanic(t *testing.T) {
	bus := NewBus(nil)
	bus.Subscribe(inventory.EventProductAdded, func(context.Context, domevent.Event) error {
		return nil
	})
	bus.Start(context.Background())

	e := newEvent(t)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = bus.Publish(context.Background(), e)
			}
		}()
	}
	bus.Stop(context.Background())
	wg.Wait()
}

func TestBusDeliversBurstInOrderOfArrival(t *testing.T) {
	bus := NewBus(nil)
	var delivered atomic.Int32
	bus.Subscribe(inventory.EventProductAdded, func(context.Context, domevent.Event) error {
		delivered.Add(1)
		return nil
	})

	bus.Start(context.Background())
	defer bus.Stop(context.Background())
	for i := 0; i < 20; i++ {
		require.NoError(t, bus.Publish(context.Background(), newEvent(t)))
	}

	require.Eventually(t, func() bool {
		return delivered.Load() == 20
	}, 2*time.Second, 10*time.Millisecond)
}
