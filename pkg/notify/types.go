package notify

import (
	"time"
)

// ChannelType represents the delivery medium for a notification.
type ChannelType string

const (
	ChannelPush    ChannelType = "push"
	ChannelEmail   ChannelType = "email"
	ChannelSMS     ChannelType = "sms"
	ChannelWebhook ChannelType = "webhook"
	ChannelChat    ChannelType = "chat"
)

// Valid reports whether the channel type is one of the known media.
func (c ChannelType) Valid() bool {
	switch c {
	case ChannelPush, ChannelEmail, ChannelSMS, ChannelWebhook, ChannelChat:
		return true
	}
	return false
}

// Priority represents the notification priority level.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Status represents the per-recipient delivery status.
type Status string

const (
	StatusPending   Status = "pending"
	StatusSent      Status = "sent"
	StatusDelivered Status = "delivered"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// Terminal reports whether the status cannot change anymore.
func (s Status) Terminal() bool {
	switch s {
	case StatusSent, StatusDelivered, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

// Frequency represents how often a recipient wants notifications.
type Frequency string

const (
	FrequencyImmediate Frequency = "immediate"
	FrequencyDaily     Frequency = "daily"
	FrequencyWeekly    Frequency = "weekly"
)

// Template is a named, per-channel content template with declared variable
// slots. Content holds `{{variable}}` placeholders.
type Template struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Channel   ChannelType `json:"channel_type"`
	Subject   string      `json:"subject,omitempty"`
	Content   string      `json:"content"`
	Variables []string    `json:"variables"`
	Active    bool        `json:"is_active"`
	Language  string      `json:"language,omitempty"`
}

// Preferences gate which channels a recipient accepts and how often.
type Preferences struct {
	Channels  []ChannelType `json:"channels"`
	Frequency Frequency     `json:"frequency"`
	Timezone  string        `json:"timezone"`
}

// AllowsChannel reports whether the channel is present in the preference set.
func (p Preferences) AllowsChannel(ch ChannelType) bool {
	for _, c := range p.Channels {
		if c == ch {
			return true
		}
	}
	return false
}

// Recipient holds per-channel delivery addresses and preferences.
type Recipient struct {
	ID          string      `json:"id"`
	Email       string      `json:"email,omitempty"`
	Phone       string      `json:"phone,omitempty"`
	DeviceToken string      `json:"device_token,omitempty"`
	WebhookURL  string      `json:"webhook_url,omitempty"`
	ChatUserID  string      `json:"chat_user_id,omitempty"`
	Preferences Preferences `json:"preferences"`
}

// AddressFor returns the recipient's delivery address for the given channel,
// or the empty string when none is set.
func (r *Recipient) AddressFor(ch ChannelType) string {
	switch ch {
	case ChannelEmail:
		return r.Email
	case ChannelSMS:
		return r.Phone
	case ChannelPush:
		return r.DeviceToken
	case ChannelWebhook:
		return r.WebhookURL
	case ChannelChat:
		return r.ChatUserID
	}
	return ""
}

// AcceptsChannel reports whether the recipient is eligible for the channel:
// the channel must be in the preference set AND a non-empty address must
// exist for it.
func (r *Recipient) AcceptsChannel(ch ChannelType) bool {
	return r.Preferences.AllowsChannel(ch) && r.AddressFor(ch) != ""
}

// Payload is one logical notification request targeting one or more
// recipients via one channel. Immutable once enqueued.
type Payload struct {
	ID           string            `json:"id"`
	Channel      ChannelType       `json:"channel_type"`
	Priority     Priority          `json:"priority"`
	TemplateID   string            `json:"template_id"`
	RecipientIDs []string          `json:"recipient_ids"`
	Data         map[string]any    `json:"data,omitempty"`
	ScheduledFor *time.Time        `json:"scheduled_for,omitempty"`
	ExpiresAt    *time.Time        `json:"expires_at,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
}

// Due reports whether the payload may be processed now.
func (p *Payload) Due(now time.Time) bool {
	return p.ScheduledFor == nil || !p.ScheduledFor.After(now)
}

// Expired reports whether the payload's expiry has passed.
func (p *Payload) Expired(now time.Time) bool {
	return p.ExpiresAt != nil && now.After(*p.ExpiresAt)
}

// Content is the rendered message handed to a provider.
type Content struct {
	Subject string `json:"subject,omitempty"`
	Body    string `json:"body"`
}

// Result records the outcome for one (payload, recipient) pair. Its ID is
// derived as "payloadID_recipientID"; pairs are never merged.
type Result struct {
	ID          string      `json:"id"`
	PayloadID   string      `json:"payload_id"`
	RecipientID string      `json:"recipient_id"`
	Channel     ChannelType `json:"channel_type"`
	Priority    Priority    `json:"priority"`
	Status      Status      `json:"status"`
	SentAt      *time.Time  `json:"sent_at,omitempty"`
	DeliveredAt *time.Time  `json:"delivered_at,omitempty"`
	Error       string      `json:"error,omitempty"`
	Attempts    int         `json:"attempts"`
}

// ResultID derives the result identifier for a (payload, recipient) pair.
func ResultID(payloadID, recipientID string) string {
	return payloadID + "_" + recipientID
}

// BatchStatus represents the lifecycle of a tracked batch.
type BatchStatus string

const (
	BatchPending    BatchStatus = "pending"
	BatchProcessing BatchStatus = "processing"
	BatchCompleted  BatchStatus = "completed"
	BatchFailed     BatchStatus = "failed"
)

// Batch groups payloads submitted together. It is completed only when every
// constituent (payload, recipient) pair has been accounted for; partial
// failures still count toward completion.
type Batch struct {
	ID          string      `json:"id"`
	PayloadIDs  []string    `json:"payload_ids"`
	Status      BatchStatus `json:"status"`
	CreatedAt   time.Time   `json:"created_at"`
	CompletedAt *time.Time  `json:"completed_at,omitempty"`
	Results     []Result    `json:"results"`
}

// Stats aggregates delivery outcomes across the result store.
type Stats struct {
	Total      int                 `json:"total"`
	Sent       int                 `json:"sent"`
	Delivered  int                 `json:"delivered"`
	Failed     int                 `json:"failed"`
	Pending    int                 `json:"pending"`
	Cancelled  int                 `json:"cancelled"`
	ByChannel  map[ChannelType]int `json:"by_channel"`
	ByPriority map[Priority]int    `json:"by_priority"`

	// DeliveryRate is delivered / total; zero when no results exist.
	DeliveryRate float64 `json:"delivery_rate"`

	// AvgDeliveryLatency averages DeliveredAt-SentAt over results carrying
	// both timestamps.
	AvgDeliveryLatency time.Duration `json:"avg_delivery_latency"`
}
