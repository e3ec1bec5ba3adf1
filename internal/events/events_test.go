package events

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAck struct {
	acked, nacked, requeued bool
}

func (f *fakeAck) Ack(bool) error {
	f.acked = true
	return nil
}

func (f *fakeAck) Nack(_, requeue bool) error {
	f.nacked = true
	f.requeued = requeue
	return nil
}

func TestSummaryRefresh_JSON(t *testing.T) {
	body, err := NewSummaryRefresh("cy1", "record_created").ToJSON()
	require.NoError(t, err)

	msg, err := SummaryRefreshFromJSON(body)
	require.NoError(t, err)
	assert.Equal(t, "cy1", msg.CycleID)
	assert.Equal(t, "record_created", msg.Reason)
	assert.False(t, msg.Timestamp.IsZero())

	_, err = SummaryRefreshFromJSON([]byte("{"))
	assert.Error(t, err)
}

func TestProcess(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.Background()
	valid, _ := NewSummaryRefresh("cy1", "test").ToJSON()

	t.Run("ack on success", func(t *testing.T) {
		ack := &fakeAck{}
		var got string
		process(ctx, logger, ack, valid, func(_ context.Context, m *SummaryRefresh) error {
			got = m.CycleID
			return nil
		})
		assert.True(t, ack.acked)
		assert.Equal(t, "cy1", got)
	})

	t.Run("drop undecodable", func(t *testing.T) {
		ack := &fakeAck{}
		process(ctx, logger, ack, []byte("not json"), func(context.Context, *SummaryRefresh) error {
			t.Fatal("handler must not run")
			return nil
		})
		assert.True(t, ack.nacked)
		assert.False(t, ack.requeued)
	})

	t.Run("requeue on handler error", func(t *testing.T) {
		ack := &fakeAck{}
		process(ctx, logger, ack, valid, func(context.Context, *SummaryRefresh) error {
			return errors.New("db down")
		})
		assert.True(t, ack.nacked)
		assert.True(t, ack.requeued)
	})
}

func TestNoop(t *testing.T) {
	var p Publisher = Noop{}
	assert.NoError(t, p.PublishSummaryRefresh(context.Background(), "x", "a", "b"))
}
