package pubsub

import (
	"testing"
	"time"

	"github.com/pagecraft/pagecraft/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifyHandlersFanOut(t *testing.T) {
	ps := NewPubSub(&config.Config{})
	defer ps.Stop()

	first := make(chan PageChangeEvent, 1)
	second := make(chan PageChangeEvent, 1)
	ps.Subscribe(func(e PageChangeEvent) { first <- e })
	ps.Subscribe(func(e PageChangeEvent) { second <- e })

	sent := PageChangeEvent{TenantID: "t-1", Slug: "homepage", Operation: "UPDATE"}
	ps.notifyHandlers(sent)

	for _, ch := range []chan PageChangeEvent{first, second} {
		select {
		case got := <-ch:
			assert.Equal(t, sent, got)
		case <-time.After(time.Second):
			require.Fail(t, "handler was not invoked")
		}
	}
}

func TestNotifyHandlersNoSubscribers(t *testing.T) {
	ps := NewPubSub(&config.Config{})
	defer ps.Stop()

	// Must not panic with an empty handler list
	ps.notifyHandlers(PageChangeEvent{Operation: "RELOAD"})
}
