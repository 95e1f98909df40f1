package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishLogout_DeliversEvent(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	messages, err := pubSub.Subscribe(context.Background(), LogoutTopic)
	require.NoError(t, err)

	publisher := NewWatermillPublisher(pubSub)
	require.NoError(t, publisher.PublishLogout(context.Background(), "p-1", 2))

	select {
	case msg := <-messages:
		var event LogoutEvent
		require.NoError(t, json.Unmarshal(msg.Payload, &event))
		assert.Equal(t, "p-1", event.PrincipalID)
		assert.Equal(t, int64(2), event.Revoked)
		msg.Ack()
	case <-time.After(time.Second):
		t.Fatal("logout event not delivered")
	}
}
