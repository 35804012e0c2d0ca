package notify_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sombhu2022/agri-farm-sub000/pkg/notify"
)

func newTestEngine(t *testing.T, cfg notify.Config, opts ...notify.Option) *notify.Engine {
	t.Helper()

	engine, err := notify.New(cfg, opts...)
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = engine.Shutdown(ctx)
	})
	return engine
}

func seedEmailFixtures(t *testing.T, engine *notify.Engine) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, engine.AddTemplate(ctx, notify.Template{
		ID:        "welcome",
		Name:      "Welcome",
		Channel:   notify.ChannelEmail,
		Subject:   "Welcome {{name}}",
		Content:   "Hi {{name}}",
		Variables: []string{"name"},
		Active:    true,
	}))
	require.NoError(t, engine.AddRecipient(ctx, notify.Recipient{
		ID:    "u1",
		Email: "ana@example.com",
		Preferences: notify.Preferences{
			Channels: []notify.ChannelType{notify.ChannelEmail},
		},
	}))
}

func TestEngine_SendImmediate(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t, notify.Config{})
	provider := newStubProvider(notify.ChannelEmail)
	engine.RegisterProvider(provider)
	seedEmailFixtures(t, engine)

	results, err := engine.SendImmediate(context.Background(), &notify.Payload{
		TemplateID:   "welcome",
		Channel:      notify.ChannelEmail,
		RecipientIDs: []string{"u1"},
		Data:         map[string]any{"name": "Ana"},
	})
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.Equal(t, notify.StatusSent, results[0].Status)
	assert.Equal(t, "u1", results[0].RecipientID)
	assert.Equal(t, notify.ChannelEmail, results[0].Channel)
	assert.Equal(t, 1, results[0].Attempts)
	require.NotNil(t, results[0].SentAt)

	sends := provider.Sends()
	require.Len(t, sends, 1)
	assert.Equal(t, "Hi Ana", sends[0].Content.Body)
	assert.Equal(t, "Welcome Ana", sends[0].Content.Subject)

	// The result is queryable by derived ID afterwards.
	stored, ok := engine.GetResult(notify.ResultID(results[0].PayloadID, "u1"))
	require.True(t, ok)
	assert.Equal(t, notify.StatusSent, stored.Status)
}

func TestEngine_SendUnknownTemplate(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t, notify.Config{})
	seedEmailFixtures(t, engine)

	_, err := engine.Send(context.Background(), &notify.Payload{
		TemplateID:   "does-not-exist",
		Channel:      notify.ChannelEmail,
		RecipientIDs: []string{"u1"},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, notify.ErrTemplateNotFound))
	assert.Equal(t, 0, engine.QueueSize())
}

func TestEngine_SendInactiveTemplate(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t, notify.Config{})
	seedEmailFixtures(t, engine)

	active := false
	_, err := engine.UpdateTemplate(context.Background(), "welcome", notify.TemplateUpdate{Active: &active})
	require.NoError(t, err)

	_, err = engine.Send(context.Background(), &notify.Payload{
		TemplateID:   "welcome",
		Channel:      notify.ChannelEmail,
		RecipientIDs: []string{"u1"},
	})
	assert.True(t, errors.Is(err, notify.ErrTemplateInactive))
}

func TestEngine_SendNoResolvableRecipients(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t, notify.Config{})
	seedEmailFixtures(t, engine)

	_, err := engine.Send(context.Background(), &notify.Payload{
		TemplateID:   "welcome",
		Channel:      notify.ChannelEmail,
		RecipientIDs: []string{"ghost1", "ghost2"},
	})
	assert.True(t, errors.Is(err, notify.ErrNoValidRecipients))
}

func TestEngine_ChannelRejectionIsTerminal(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t, notify.Config{})
	provider := newStubProvider(notify.ChannelSMS)
	engine.RegisterProvider(provider)

	ctx := context.Background()
	require.NoError(t, engine.AddTemplate(ctx, notify.Template{
		ID:      "alert",
		Channel: notify.ChannelSMS,
		Content: "frost tonight",
		Active:  true,
	}))
	// Recipient has a phone but never opted into the SMS channel.
	require.NoError(t, engine.AddRecipient(ctx, notify.Recipient{
		ID:    "u1",
		Phone: "+15550001111",
		Preferences: notify.Preferences{
			Channels: []notify.ChannelType{notify.ChannelEmail},
		},
	}))

	for range 2 {
		_, err := engine.Send(ctx, &notify.Payload{
			TemplateID:   "alert",
			Channel:      notify.ChannelSMS,
			RecipientIDs: []string{"u1"},
		})
		require.NoError(t, err)
	}

	assert.Eventually(t, func() bool {
		return engine.Stats().Failed == 2
	}, 3*time.Second, 10*time.Millisecond)

	assert.Empty(t, provider.Sends(), "rejected pairs must never reach the provider")
	assert.Equal(t, 0, engine.Stats().Sent)
}

func TestEngine_ScheduledPayloadWaits(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t, notify.Config{})
	provider := newStubProvider(notify.ChannelEmail)
	engine.RegisterProvider(provider)
	seedEmailFixtures(t, engine)

	due := time.Now().Add(300 * time.Millisecond)
	_, err := engine.Send(context.Background(), &notify.Payload{
		TemplateID:   "welcome",
		Channel:      notify.ChannelEmail,
		RecipientIDs: []string{"u1"},
		Data:         map[string]any{"name": "Ana"},
		ScheduledFor: &due,
	})
	require.NoError(t, err)

	time.Sleep(100 * time.Millisecond)
	assert.Empty(t, provider.Sends(), "payload must not dispatch before its scheduled time")

	assert.Eventually(t, func() bool {
		return len(provider.Sends()) == 1
	}, 3*time.Second, 10*time.Millisecond)
}

func TestEngine_ExpiredPayloadProducesNoResults(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t, notify.Config{})
	provider := newStubProvider(notify.ChannelEmail)
	engine.RegisterProvider(provider)
	seedEmailFixtures(t, engine)

	expired := time.Now().Add(-time.Minute)
	p := &notify.Payload{
		TemplateID:   "welcome",
		Channel:      notify.ChannelEmail,
		RecipientIDs: []string{"u1"},
		ExpiresAt:    &expired,
	}
	_, err := engine.Send(context.Background(), p)
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		return engine.QueueSize() == 0
	}, 3*time.Second, 10*time.Millisecond)

	assert.Empty(t, provider.Sends())
	assert.Equal(t, 0, engine.Stats().Total)
	_, ok := engine.GetResult(notify.ResultID(p.ID, "u1"))
	assert.False(t, ok)
}

func TestEngine_RateLimitGatesSends(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t, notify.Config{
		RateLimit:  2,
		RateWindow: 400 * time.Millisecond,
	})
	provider := newStubProvider(notify.ChannelEmail)
	engine.RegisterProvider(provider)
	seedEmailFixtures(t, engine)

	ctx := context.Background()
	for _, id := range []string{"u2", "u3", "u4"} {
		require.NoError(t, engine.AddRecipient(ctx, notify.Recipient{
			ID:    id,
			Email: id + "@example.com",
			Preferences: notify.Preferences{
				Channels: []notify.ChannelType{notify.ChannelEmail},
			},
		}))
	}

	_, err := engine.Send(ctx, &notify.Payload{
		TemplateID:   "welcome",
		Channel:      notify.ChannelEmail,
		RecipientIDs: []string{"u1", "u2", "u3", "u4"},
		Data:         map[string]any{"name": "all"},
	})
	require.NoError(t, err)

	// Only the first window's quota may start immediately.
	time.Sleep(150 * time.Millisecond)
	assert.LessOrEqual(t, len(provider.Sends()), 2)

	assert.Eventually(t, func() bool {
		return len(provider.Sends()) == 4
	}, 5*time.Second, 20*time.Millisecond)
}

func TestEngine_BatchCompletes(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t, notify.Config{})
	provider := newStubProvider(notify.ChannelEmail)
	engine.RegisterProvider(provider)
	seedEmailFixtures(t, engine)

	ctx := context.Background()
	require.NoError(t, engine.AddRecipient(ctx, notify.Recipient{
		ID:    "u2",
		Email: "raj@example.com",
		Preferences: notify.Preferences{
			Channels: []notify.ChannelType{notify.ChannelEmail},
		},
	}))

	batchID, err := engine.SendBatch(ctx, []*notify.Payload{
		{
			TemplateID:   "welcome",
			Channel:      notify.ChannelEmail,
			RecipientIDs: []string{"u1", "u2"},
			Data:         map[string]any{"name": "Ana"},
		},
		{
			TemplateID:   "welcome",
			Channel:      notify.ChannelEmail,
			RecipientIDs: []string{"u1"},
			Data:         map[string]any{"name": "Ana"},
		},
	})
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		b, ok := engine.GetBatch(batchID)
		return ok && b.Status == notify.BatchCompleted
	}, 3*time.Second, 10*time.Millisecond)

	b, ok := engine.GetBatch(batchID)
	require.True(t, ok)
	assert.Len(t, b.PayloadIDs, 2)
	assert.Len(t, b.Results, 3, "one result per (payload, recipient) pair")
	require.NotNil(t, b.CompletedAt)
	for _, res := range b.Results {
		assert.True(t, res.Status.Terminal())
	}
}

func TestEngine_BatchCompletesDespiteExpiredPayload(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t, notify.Config{})
	provider := newStubProvider(notify.ChannelEmail)
	engine.RegisterProvider(provider)
	seedEmailFixtures(t, engine)

	expired := time.Now().Add(-time.Minute)
	batchID, err := engine.SendBatch(context.Background(), []*notify.Payload{
		{
			TemplateID:   "welcome",
			Channel:      notify.ChannelEmail,
			RecipientIDs: []string{"u1"},
			Data:         map[string]any{"name": "Ana"},
		},
		{
			TemplateID:   "welcome",
			Channel:      notify.ChannelEmail,
			RecipientIDs: []string{"u1"},
			ExpiresAt:    &expired,
		},
	})
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		b, ok := engine.GetBatch(batchID)
		return ok && b.Status == notify.BatchCompleted
	}, 3*time.Second, 10*time.Millisecond)

	b, _ := engine.GetBatch(batchID)
	assert.Len(t, b.Results, 1, "expired payload contributes no results")
}

func TestEngine_SendBatchEmpty(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t, notify.Config{})

	_, err := engine.SendBatch(context.Background(), nil)
	assert.True(t, errors.Is(err, notify.ErrNoPayloads))
}

func TestEngine_PauseAndResume(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t, notify.Config{})
	provider := newStubProvider(notify.ChannelEmail)
	engine.RegisterProvider(provider)
	seedEmailFixtures(t, engine)

	engine.PauseProcessing()

	_, err := engine.Send(context.Background(), &notify.Payload{
		TemplateID:   "welcome",
		Channel:      notify.ChannelEmail,
		RecipientIDs: []string{"u1"},
		Data:         map[string]any{"name": "Ana"},
	})
	require.NoError(t, err)

	time.Sleep(100 * time.Millisecond)
	assert.Empty(t, provider.Sends(), "paused engine must not dispatch")
	assert.Equal(t, 1, engine.QueueSize())

	engine.ResumeProcessing()

	assert.Eventually(t, func() bool {
		return len(provider.Sends()) == 1
	}, 3*time.Second, 10*time.Millisecond)
}

func TestEngine_ClearQueue(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t, notify.Config{})
	provider := newStubProvider(notify.ChannelEmail)
	engine.RegisterProvider(provider)
	seedEmailFixtures(t, engine)

	engine.PauseProcessing()

	ctx := context.Background()
	for range 3 {
		_, err := engine.Send(ctx, &notify.Payload{
			TemplateID:   "welcome",
			Channel:      notify.ChannelEmail,
			RecipientIDs: []string{"u1"},
		})
		require.NoError(t, err)
	}

	assert.Equal(t, 3, engine.QueueSize())
	assert.Equal(t, 3, engine.ClearQueue())
	assert.Equal(t, 0, engine.QueueSize())

	engine.ResumeProcessing()
	time.Sleep(100 * time.Millisecond)
	assert.Empty(t, provider.Sends())
}

func TestEngine_ProviderFailureRecorded(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t, notify.Config{})
	provider := newStubProvider(notify.ChannelEmail)
	provider.send = func(context.Context, *notify.Payload, *notify.Recipient, notify.Content) (*notify.Result, error) {
		return nil, errors.New("smtp unreachable")
	}
	engine.RegisterProvider(provider)
	seedEmailFixtures(t, engine)

	results, err := engine.SendImmediate(context.Background(), &notify.Payload{
		TemplateID:   "welcome",
		Channel:      notify.ChannelEmail,
		RecipientIDs: []string{"u1"},
	})
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.Equal(t, notify.StatusFailed, results[0].Status)
	assert.Contains(t, results[0].Error, "smtp unreachable")

	st := engine.Stats()
	assert.Equal(t, 1, st.Failed)
	assert.Equal(t, 0, st.Sent)
}

func TestEngine_RetriesTransientFailure(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t, notify.Config{
		SendAttempts: 3,
		RetryDelay:   time.Millisecond,
	})
	provider := newStubProvider(notify.ChannelEmail)

	var mu sync.Mutex
	calls := 0
	provider.send = func(context.Context, *notify.Payload, *notify.Recipient, notify.Content) (*notify.Result, error) {
		mu.Lock()
		defer mu.Unlock()
		calls++
		if calls < 3 {
			return nil, errors.New("temporary")
		}
		return &notify.Result{Status: notify.StatusSent}, nil
	}
	engine.RegisterProvider(provider)
	seedEmailFixtures(t, engine)

	results, err := engine.SendImmediate(context.Background(), &notify.Payload{
		TemplateID:   "welcome",
		Channel:      notify.ChannelEmail,
		RecipientIDs: []string{"u1"},
	})
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.Equal(t, notify.StatusSent, results[0].Status)
	assert.Equal(t, 3, results[0].Attempts)
}

func TestEngine_NoProviderForChannel(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t, notify.Config{})
	seedEmailFixtures(t, engine)

	results, err := engine.SendImmediate(context.Background(), &notify.Payload{
		TemplateID:   "welcome",
		Channel:      notify.ChannelEmail,
		RecipientIDs: []string{"u1"},
	})
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.Equal(t, notify.StatusFailed, results[0].Status)
	assert.Contains(t, results[0].Error, notify.ErrNoProvider.Error())
}

func TestEngine_EventsObservable(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t, notify.Config{})
	provider := newStubProvider(notify.ChannelEmail)
	engine.RegisterProvider(provider)
	seedEmailFixtures(t, engine)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sub := engine.Subscribe(ctx)

	_, err := engine.Send(ctx, &notify.Payload{
		TemplateID:   "welcome",
		Channel:      notify.ChannelEmail,
		RecipientIDs: []string{"u1"},
		Data:         map[string]any{"name": "Ana"},
	})
	require.NoError(t, err)

	seen := make(map[notify.EventType]bool)
	deadline := time.After(3 * time.Second)
	for !seen[notify.EventQueued] || !seen[notify.EventSent] || !seen[notify.EventProcessed] {
		select {
		case msg := <-sub.Receive(ctx):
			seen[msg.Data.Type] = true
		case <-deadline:
			t.Fatalf("timed out waiting for events, saw %v", seen)
		}
	}
}

func TestEngine_ShutdownIsIdempotent(t *testing.T) {
	t.Parallel()

	engine, err := notify.New(notify.Config{})
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, engine.Shutdown(ctx))
	require.NoError(t, engine.Shutdown(ctx))

	seedErr := engine.AddTemplate(ctx, notify.Template{ID: "t", Channel: notify.ChannelEmail, Active: true})
	require.NoError(t, seedErr)
	require.NoError(t, engine.AddRecipient(ctx, notify.Recipient{
		ID: "u1", Email: "a@b.co",
		Preferences: notify.Preferences{Channels: []notify.ChannelType{notify.ChannelEmail}},
	}))

	_, err = engine.Send(ctx, &notify.Payload{
		TemplateID:   "t",
		Channel:      notify.ChannelEmail,
		RecipientIDs: []string{"u1"},
	})
	assert.True(t, errors.Is(err, notify.ErrEngineClosed))
}
