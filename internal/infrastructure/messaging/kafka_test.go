package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hapkiduki/cart-products/internal/application/indexer"
	"github.com/hapkiduki/cart-products/internal/application/stock"
	"github.com/hapkiduki/cart-products/internal/infrastructure/logging"
)

// fakeReader serves queued messages, then blocks until the context ends.
type fakeReader struct {
	mu       sync.Mutex
	messages []kafka.Message
	errs     []error
	closed   bool
}

func (r *fakeReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	r.mu.Lock()
	if len(r.errs) > 0 {
		err := r.errs[0]
		r.errs = r.errs[1:]
		r.mu.Unlock()
		return kafka.Message{}, err
	}
	if len(r.messages) > 0 {
		msg := r.messages[0]
		r.messages = r.messages[1:]
		r.mu.Unlock()
		return msg, nil
	}
	r.mu.Unlock()

	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (r *fakeReader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

type fakeWriter struct {
	messages []kafka.Message
	err      error
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

type fakeRunner struct {
	mu      sync.Mutex
	configs []indexer.Config
	status  string
	err     error
}

func (r *fakeRunner) Run(_ context.Context, cfg indexer.Config) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.configs = append(r.configs, cfg)
	return r.status, r.err
}

func (r *fakeRunner) runs() []indexer.Config {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]indexer.Config(nil), r.configs...)
}

type fakeRemover struct {
	items [][]stock.OrderItem
	err   error
}

func (r *fakeRemover) RemoveOrdered(_ context.Context, items []stock.OrderItem) error {
	r.items = append(r.items, items)
	return r.err
}

func TestListener_Start(t *testing.T) {
	value, err := json.Marshal(indexer.Config{Type: indexer.ProductIndexerType, Title: "Shop", StartingPoints: []uint{1}})
	require.NoError(t, err)

	reader := &fakeReader{
		errs: []error{errors.New("broker restarting")},
		messages: []kafka.Message{
			{Value: []byte("not json")},
			{Value: value},
		},
	}
	runner := &fakeRunner{status: "done"}
	listener := NewListener("reindex", reader, NewReindexHandler(runner, logging.Nop()), logging.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		listener.Start(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return len(runner.runs()) == 1 }, 3*time.Second, 10*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("listener did not stop")
	}

	runs := runner.runs()
	assert.Equal(t, "Shop", runs[0].Title)
	assert.Equal(t, []uint{1}, runs[0].StartingPoints)
	assert.True(t, reader.closed)
}

func TestReindexHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("runner error", func(t *testing.T) {
		handler := NewReindexHandler(&fakeRunner{err: errors.New("db down")}, logging.Nop())
		err := handler(ctx, kafka.Message{Value: []byte(`{"type":"cartproductindexer"}`)})
		assert.ErrorContains(t, err, "db down")
	})

	t.Run("unknown type is ignored", func(t *testing.T) {
		handler := NewReindexHandler(&fakeRunner{}, logging.Nop())
		assert.NoError(t, handler(ctx, kafka.Message{Value: []byte(`{"type":"page"}`)}))
	})
}

func TestOrderHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("created orders leave the stock", func(t *testing.T) {
		remover := &fakeRemover{}
		handler := NewOrderHandler(remover, logging.Nop())

		err := handler(ctx, kafka.Message{Value: []byte(`{
			"event_type": "OrderCreated",
			"order_id": "A-1",
			"items": [{"product_id": 1, "quantity": 2}, {"product_id": 2, "be_variant_id": 21, "quantity": 1}]
		}`)})
		require.NoError(t, err)

		require.Len(t, remover.items, 1)
		assert.Equal(t, []stock.OrderItem{
			{ProductID: 1, Quantity: 2},
			{ProductID: 2, BeVariantID: 21, Quantity: 1},
		}, remover.items[0])
	})

	t.Run("other events are ignored", func(t *testing.T) {
		remover := &fakeRemover{}
		handler := NewOrderHandler(remover, logging.Nop())

		require.NoError(t, handler(ctx, kafka.Message{Value: []byte(`{"event_type":"OrderCancelled"}`)}))
		assert.Empty(t, remover.items)
	})

	t.Run("stock errors are reported", func(t *testing.T) {
		handler := NewOrderHandler(&fakeRemover{err: errors.New("not found")}, logging.Nop())
		err := handler(ctx, kafka.Message{Value: []byte(`{"event_type":"OrderCreated","order_id":"A-2"}`)})
		assert.ErrorContains(t, err, "order A-2")
	})
}

func TestPublisher_PublishReindex(t *testing.T) {
	ctx := context.Background()
	writer := &fakeWriter{}
	publisher := NewPublisher(writer)

	require.NoError(t, publisher.PublishReindex(ctx, indexer.Config{Type: indexer.ProductIndexerType, Title: "Shop"}))
	require.Len(t, writer.messages, 1)
	assert.Equal(t, []byte(indexer.ProductIndexerType), writer.messages[0].Key)

	var cfg indexer.Config
	require.NoError(t, json.Unmarshal(writer.messages[0].Value, &cfg))
	assert.Equal(t, "Shop", cfg.Title)

	writer.err = errors.New("leader not available")
	assert.Error(t, publisher.PublishReindex(ctx, indexer.Config{}))

	assert.ErrorIs(t, NewPublisher(nil).PublishReindex(ctx, indexer.Config{}), ErrNoWriter)
}
