package notify

import (
	"context"
	"sync"
)

// RecipientStore is the recipient directory: delivery addresses per channel
// and per-recipient preferences.
type RecipientStore interface {
	// Add registers or overwrites a recipient by ID.
	Add(ctx context.Context, rec Recipient) error

	// Get retrieves a recipient; the bool reports existence.
	Get(ctx context.Context, id string) (*Recipient, bool)

	// Update merges non-nil fields into an existing recipient. It returns
	// false when the recipient is absent.
	Update(ctx context.Context, id string, update RecipientUpdate) (bool, error)

	// Delete removes a recipient; it returns false when absent.
	Delete(ctx context.Context, id string) (bool, error)
}

// RecipientUpdate carries a partial recipient; nil fields are left untouched.
type RecipientUpdate struct {
	Email       *string
	Phone       *string
	DeviceToken *string
	WebhookURL  *string
	ChatUserID  *string
	Preferences *Preferences
}

// MemoryRecipientStore is the in-process RecipientStore.
type MemoryRecipientStore struct {
	mu         sync.RWMutex
	recipients map[string]Recipient
}

// NewMemoryRecipientStore creates an empty in-memory recipient store.
func NewMemoryRecipientStore() *MemoryRecipientStore {
	return &MemoryRecipientStore{
		recipients: make(map[string]Recipient),
	}
}

func (s *MemoryRecipientStore) Add(ctx context.Context, rec Recipient) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.recipients[rec.ID] = rec
	return nil
}

func (s *MemoryRecipientStore) Get(ctx context.Context, id string) (*Recipient, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.recipients[id]
	if !ok {
		return nil, false
	}
	out := rec
	return &out, true
}

func (s *MemoryRecipientStore) Update(ctx context.Context, id string, update RecipientUpdate) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.recipients[id]
	if !ok {
		return false, nil
	}

	if update.Email != nil {
		rec.Email = *update.Email
	}
	if update.Phone != nil {
		rec.Phone = *update.Phone
	}
	if update.DeviceToken != nil {
		rec.DeviceToken = *update.DeviceToken
	}
	if update.WebhookURL != nil {
		rec.WebhookURL = *update.WebhookURL
	}
	if update.ChatUserID != nil {
		rec.ChatUserID = *update.ChatUserID
	}
	if update.Preferences != nil {
		rec.Preferences = *update.Preferences
	}

	s.recipients[id] = rec
	return true, nil
}

func (s *MemoryRecipientStore) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.recipients[id]; !ok {
		return false, nil
	}
	delete(s.recipients, id)
	return true, nil
}
