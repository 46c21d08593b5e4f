package events

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBus_EmitReachesSubscribers(t *testing.T) {
	bus := NewBus()

	var mu sync.Mutex
	var received []Event
	done := make(chan struct{})

	bus.Subscribe(EventTypeWithdrawal, func(_ context.Context, event Event) {
		mu.Lock()
		received = append(received, event)
		mu.Unlock()
		close(done)
	})

	bus.Emit(context.Background(), WithdrawalEvent{TelegramID: 1, Code: "abc"})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("handler was not invoked")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Len(t, received, 1)
	assert.Equal(t, EventTypeWithdrawal, received[0].Type())
}

func TestBus_PanickingHandlerDoesNotPropagate(t *testing.T) {
	bus := NewBus()

	done := make(chan struct{})
	bus.Subscribe(EventTypeUserCreated, func(_ context.Context, _ Event) {
		defer close(done)
		panic("boom")
	})

	// Must not crash the caller
	bus.Emit(context.Background(), UserCreatedEvent{TelegramID: 1})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("handler was not invoked")
	}
}

func TestTransactionalBus_FlushAndDiscard(t *testing.T) {
	bus := NewBus()

	var mu sync.Mutex
	count := 0
	delivered := make(chan struct{}, 2)

	bus.Subscribe(EventTypeReferralBonus, func(_ context.Context, _ Event) {
		mu.Lock()
		count++
		mu.Unlock()
		delivered <- struct{}{}
	})

	txBus := NewTransactionalBus(bus)
	txBus.Publish(ReferralBonusEvent{ReferrerID: 1, NewUserID: 2})

	// Nothing reaches the real bus before Flush
	time.Sleep(50 * time.Millisecond)
	mu.Lock()
	assert.Equal(t, 0, count)
	mu.Unlock()

	txBus.Flush(context.Background())
	select {
	case <-delivered:
	case <-time.After(time.Second):
		t.Fatal("event was not flushed")
	}

	// Discarded events never arrive
	txBus.Publish(ReferralBonusEvent{ReferrerID: 3, NewUserID: 4})
	txBus.Discard()
	txBus.Flush(context.Background())

	time.Sleep(50 * time.Millisecond)
	mu.Lock()
	assert.Equal(t, 1, count)
	mu.Unlock()
}
