package notify_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Sombhu2022/agri-farm-sub000/pkg/notify"
)

func TestRecipientAcceptsChannel(t *testing.T) {
	t.Parallel()

	rec := notify.Recipient{
		ID:    "u1",
		Email: "ana@example.com",
		Phone: "+15550001111",
		Preferences: notify.Preferences{
			Channels: []notify.ChannelType{notify.ChannelEmail, notify.ChannelPush},
		},
	}

	// Preferred and addressed.
	assert.True(t, rec.AcceptsChannel(notify.ChannelEmail))

	// Addressed but not preferred.
	assert.False(t, rec.AcceptsChannel(notify.ChannelSMS))

	// Preferred but no device token.
	assert.False(t, rec.AcceptsChannel(notify.ChannelPush))

	// Neither.
	assert.False(t, rec.AcceptsChannel(notify.ChannelWebhook))
}

func TestPayloadDueAndExpired(t *testing.T) {
	t.Parallel()

	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	p := notify.Payload{}
	assert.True(t, p.Due(now), "unscheduled payload is immediately due")
	assert.False(t, p.Expired(now), "payload without expiry never expires")

	p.ScheduledFor = &future
	assert.False(t, p.Due(now))
	p.ScheduledFor = &past
	assert.True(t, p.Due(now))

	p.ExpiresAt = &past
	assert.True(t, p.Expired(now))
	p.ExpiresAt = &future
	assert.False(t, p.Expired(now))
}

func TestStatusTerminal(t *testing.T) {
	t.Parallel()

	assert.False(t, notify.StatusPending.Terminal())
	assert.True(t, notify.StatusSent.Terminal())
	assert.True(t, notify.StatusDelivered.Terminal())
	assert.True(t, notify.StatusFailed.Terminal())
	assert.True(t, notify.StatusCancelled.Terminal())
}

func TestChannelTypeValid(t *testing.T) {
	t.Parallel()

	for _, ch := range []notify.ChannelType{
		notify.ChannelPush, notify.ChannelEmail, notify.ChannelSMS,
		notify.ChannelWebhook, notify.ChannelChat,
	} {
		assert.True(t, ch.Valid(), string(ch))
	}
	assert.False(t, notify.ChannelType("pigeon").Valid())
}

func TestResultID(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "p1_u9", notify.ResultID("p1", "u9"))
}
