// Package notify implements an in-process, multi-channel notification
// dispatch engine.
//
// The engine accepts payloads referencing stored templates and recipients,
// queues them, and drains the queue in fixed-size slices. Each payload fans
// out across its recipients concurrently; every attempt passes a shared
// fixed-window rate limiter before the channel provider is invoked. The
// outcome of each (payload, recipient) pair is recorded as a Result and
// aggregated into Stats; payload groups submitted together are tracked as a
// Batch until all their pairs resolve.
//
// Providers implement delivery per channel type (push, email, sms, webhook,
// chat) and are registered on the engine; see the pkg/notify/channel
// subpackages for concrete implementations.
//
// Basic usage:
//
//	engine, err := notify.New(notify.Config{BatchSize: 20})
//	if err != nil {
//		return err
//	}
//	defer engine.Shutdown(context.Background())
//
//	engine.RegisterProvider(email.NewDevSender(nil))
//
//	engine.AddTemplate(ctx, notify.Template{
//		ID:      "welcome",
//		Channel: notify.ChannelEmail,
//		Subject: "Welcome, {{ name }}!",
//		Content: "Hi {{ name }}, glad to have you.",
//		Active:  true,
//	})
//	engine.AddRecipient(ctx, notify.Recipient{
//		ID:    "u1",
//		Email: "ana@example.com",
//		Preferences: notify.Preferences{
//			Channels: []notify.ChannelType{notify.ChannelEmail},
//		},
//	})
//
//	id, err := engine.Send(ctx, &notify.Payload{
//		TemplateID:   "welcome",
//		Channel:      notify.ChannelEmail,
//		RecipientIDs: []string{"u1"},
//		Data:         map[string]any{"name": "Ana"},
//	})
//
// Progress can be observed through Subscribe, which returns a channel of
// engine events (queued, processed, sent, error).
package notify
