package kafka

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/zzzuuusurp/faux-cart-copy/internal/core/domain"
	"github.com/zzzuuusurp/faux-cart-copy/pkg/schema"
)

type MockProducerClient struct {
	mock.Mock
}

func (c *MockProducerClient) ProduceSync(
	ctx context.Context, rs ...*kgo.Record,
) kgo.ProduceResults {
	args := c.Called(ctx, rs)
	return args.Get(0).(kgo.ProduceResults)
}

func (c *MockProducerClient) Close() {
	c.Called()
}

type avroEncoder struct{}

func (avroEncoder) Encode(v any) ([]byte, error) {
	return schema.AvroEncodeFn(schema.CartEventV1Avro())(v)
}

func testEventsProducer(cl ProducerClient) CartEventsProducer {
	opPrefix := "CartEventsProducer"
	return CartEventsProducer{
		producer: producer{opPrefix: opPrefix, cl: cl},
		encoder:  avroEncoder{},
		opPrefix: opPrefix,
	}
}

func TestCartEventsProducer(t *testing.T) {
	addEvent := domain.CartEvent{
		ShopID:      "Bioshield",
		Op:          domain.CartOpAdd,
		ProductName: "Widget",
		Totals:      domain.Totals{Total: 9.99, ItemCount: 1},
	}

	t.Run("RecordKeyedByProductName", func(t *testing.T) {
		p := testEventsProducer(nil)

		r, err := p.createRecord(addEvent)
		require.NoError(t, err)
		assert.Equal(t, []byte("Widget"), r.Key)
		assert.NotEmpty(t, r.Value)
	})

	t.Run("ClearRecordKeyedByShopID", func(t *testing.T) {
		p := testEventsProducer(nil)

		r, err := p.createRecord(domain.CartEvent{
			ShopID: "Bioshield",
			Op:     domain.CartOpClear,
		})
		require.NoError(t, err)
		assert.Equal(t, []byte("Bioshield"), r.Key)
	})

	t.Run("ProduceEvent", func(t *testing.T) {
		cl := new(MockProducerClient)
		cl.On("ProduceSync", t.Context(), mock.Anything).
			Return(kgo.ProduceResults{}).Once()

		p := testEventsProducer(cl)
		require.NoError(t, p.ProduceEvent(t.Context(), addEvent))
		cl.AssertExpectations(t)
	})

	t.Run("CanceledContext", func(t *testing.T) {
		ctx, cancel := context.WithCancel(t.Context())
		cancel()

		p := testEventsProducer(nil)
		err := p.ProduceEvent(ctx, addEvent)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestAddCountCodec(t *testing.T) {
	t.Run("RoundTrip", func(t *testing.T) {
		data, err := addCountCodec{}.Encode(addCount(7))
		require.NoError(t, err)

		v, err := addCountCodec{}.Decode(data)
		require.NoError(t, err)
		assert.Equal(t, addCount(7), v)
	})

	t.Run("InvalidValueType", func(t *testing.T) {
		_, err := addCountCodec{}.Encode("not a count")
		assert.ErrorIs(t, err, ErrInvalidValueType)
	})

	t.Run("InvalidData", func(t *testing.T) {
		_, err := addCountCodec{}.Decode([]byte("NaN"))
		assert.Error(t, err)
	})
}
