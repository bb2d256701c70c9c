package event

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/markethub/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingHandler struct {
	mu     sync.Mutex
	types  []string
	seen   []string
	err    error
	panics bool
}

func (h *recordingHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	if h.panics {
		panic("handler exploded")
	}
	h.mu.Lock()
	h.seen = append(h.seen, event.EventType())
	h.mu.Unlock()
	return h.err
}

func (h *recordingHandler) EventTypes() []string {
	return h.types
}

func newEvent(eventType string) shared.DomainEvent {
	e := shared.NewBaseDomainEvent(eventType, "Order", uuid.New())
	return &e
}

func TestInMemoryEventBus_PublishToMatchingHandlers(t *testing.T) {
	bus := NewInMemoryEventBus(nil)
	ctx := context.Background()

	paid := &recordingHandler{}
	delivered := &recordingHandler{}
	bus.Subscribe(paid, "OrderPaid")
	bus.Subscribe(delivered, "OrderDelivered")

	require.NoError(t, bus.Publish(ctx, newEvent("OrderPaid")))
	require.NoError(t, bus.Publish(ctx, newEvent("OrderPaid"), newEvent("OrderDelivered")))

	assert.Equal(t, []string{"OrderPaid", "OrderPaid"}, paid.seen)
	assert.Equal(t, []string{"OrderDelivered"}, delivered.seen)
}

func TestInMemoryEventBus_WildcardHandler(t *testing.T) {
	bus := NewInMemoryEventBus(nil)
	all := &recordingHandler{}
	bus.Subscribe(all)

	require.NoError(t, bus.Publish(context.Background(), newEvent("OrderPaid"), newEvent("SubOrderShipped")))

	assert.Equal(t, []string{"OrderPaid", "SubOrderShipped"}, all.seen)
}

func TestInMemoryEventBus_HandlerTypesDriveSubscription(t *testing.T) {
	bus := NewInMemoryEventBus(nil)
	h := &recordingHandler{types: []string{"OrderDelivered"}}
	bus.Subscribe(h)

	require.NoError(t, bus.Publish(context.Background(), newEvent("OrderPaid"), newEvent("OrderDelivered")))

	assert.Equal(t, []string{"OrderDelivered"}, h.seen)
}

func TestInMemoryEventBus_FailuresDoNotAbortPublish(t *testing.T) {
	bus := NewInMemoryEventBus(nil)
	failing := &recordingHandler{err: errors.New("projection down")}
	panicking := &recordingHandler{panics: true}
	healthy := &recordingHandler{}
	bus.Subscribe(failing, "OrderPaid")
	bus.Subscribe(panicking, "OrderPaid")
	bus.Subscribe(healthy, "OrderPaid")

	require.NoError(t, bus.Publish(context.Background(), newEvent("OrderPaid")))

	assert.Equal(t, []string{"OrderPaid"}, healthy.seen)
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(nil)
	h := &recordingHandler{}
	bus.Subscribe(h, "OrderPaid")
	bus.Unsubscribe(h)

	require.NoError(t, bus.Publish(context.Background(), newEvent("OrderPaid")))

	assert.Empty(t, h.seen)
}

func TestInMemoryEventBus_ConcurrentPublish(t *testing.T) {
	bus := NewInMemoryEventBus(nil)
	h := &recordingHandler{}
	bus.Subscribe(h, "OrderPaid")

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, bus.Publish(context.Background(), newEvent("OrderPaid")))
		}()
	}
	wg.Wait()

	assert.Len(t, h.seen, 16)
}
