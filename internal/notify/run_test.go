package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"golang.org/x/sync/errgroup"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartmenu-system/internal/common/logger"
)

func TestStartedDispatchRunsToCompletionThroughShutdown(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	patcher := &fakePatcher{}
	d := newTestDispatcher(patcher, srv.URL)

	body, err := json.Marshal(sampleEvent())
	require.NoError(t, err)

	// consumer context already canceled, as after SIGTERM mid-delivery
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	handleDelivery(ctx, d, logger.New("test"), amqp.Delivery{Body: body})

	assert.Equal(t, int32(1), hits.Load(), "the webhook must still be attempted")
	require.Len(t, patcher.patches, 1, "the status patch is the terminal action even during shutdown")
	assert.True(t, patcher.patches[0].st.Sent)
	assert.NoError(t, patcher.lastCtxErr, "the patch must not run under the canceled consumer context")
}

func TestConsumeLoopBrokerClosedChannel(t *testing.T) {
	deliveries := make(chan amqp.Delivery)
	close(deliveries)

	g, ctx := errgroup.WithContext(context.Background())
	g.Go(func() error {
		return consumeLoop(ctx, g, newTestDispatcher(&fakePatcher{}, ""), logger.New("test"), deliveries)
	})

	assert.Error(t, g.Wait(), "a broker-side close with a live context is a failure, not a clean exit")
}

func TestConsumeLoopStopsCleanOnCancel(t *testing.T) {
	deliveries := make(chan amqp.Delivery)

	parent, cancel := context.WithCancel(context.Background())
	g, ctx := errgroup.WithContext(parent)
	g.Go(func() error {
		return consumeLoop(ctx, g, newTestDispatcher(&fakePatcher{}, ""), logger.New("test"), deliveries)
	})

	time.AfterFunc(10*time.Millisecond, cancel)
	assert.NoError(t, g.Wait())
}
