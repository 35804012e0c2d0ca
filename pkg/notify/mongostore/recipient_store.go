package mongostore

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/Sombhu2022/agri-farm-sub000/pkg/notify"
)

const recipientCollection = "notification_recipients"

type recipientDoc struct {
	ID          string         `bson:"_id"`
	Email       string         `bson:"email,omitempty"`
	Phone       string         `bson:"phone,omitempty"`
	DeviceToken string         `bson:"device_token,omitempty"`
	WebhookURL  string         `bson:"webhook_url,omitempty"`
	ChatUserID  string         `bson:"chat_user_id,omitempty"`
	Preferences preferencesDoc `bson:"preferences"`
}

type preferencesDoc struct {
	Channels  []notify.ChannelType `bson:"channels"`
	Frequency notify.Frequency     `bson:"frequency"`
	Timezone  string               `bson:"timezone"`
}

func toRecipientDoc(r notify.Recipient) recipientDoc {
	return recipientDoc{
		ID:          r.ID,
		Email:       r.Email,
		Phone:       r.Phone,
		DeviceToken: r.DeviceToken,
		WebhookURL:  r.WebhookURL,
		ChatUserID:  r.ChatUserID,
		Preferences: preferencesDoc{
			Channels:  r.Preferences.Channels,
			Frequency: r.Preferences.Frequency,
			Timezone:  r.Preferences.Timezone,
		},
	}
}

func (d recipientDoc) toDomain() notify.Recipient {
	return notify.Recipient{
		ID:          d.ID,
		Email:       d.Email,
		Phone:       d.Phone,
		DeviceToken: d.DeviceToken,
		WebhookURL:  d.WebhookURL,
		ChatUserID:  d.ChatUserID,
		Preferences: notify.Preferences{
			Channels:  d.Preferences.Channels,
			Frequency: d.Preferences.Frequency,
			Timezone:  d.Preferences.Timezone,
		},
	}
}

// RecipientStore is a Mongo-backed notify.RecipientStore.
type RecipientStore struct {
	coll *mongo.Collection
}

// NewRecipientStore creates a recipient store over the given database.
func NewRecipientStore(db *mongo.Database) *RecipientStore {
	return &RecipientStore{coll: db.Collection(recipientCollection)}
}

func (s *RecipientStore) Add(ctx context.Context, rec notify.Recipient) error {
	_, err := s.coll.ReplaceOne(ctx,
		bson.M{"_id": rec.ID},
		toRecipientDoc(rec),
		options.Replace().SetUpsert(true),
	)
	return err
}

func (s *RecipientStore) Get(ctx context.Context, id string) (*notify.Recipient, bool) {
	var doc recipientDoc
	if err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		return nil, false
	}
	rec := doc.toDomain()
	return &rec, true
}

func (s *RecipientStore) Update(ctx context.Context, id string, update notify.RecipientUpdate) (bool, error) {
	set := bson.M{}
	if update.Email != nil {
		set["email"] = *update.Email
	}
	if update.Phone != nil {
		set["phone"] = *update.Phone
	}
	if update.DeviceToken != nil {
		set["device_token"] = *update.DeviceToken
	}
	if update.WebhookURL != nil {
		set["webhook_url"] = *update.WebhookURL
	}
	if update.ChatUserID != nil {
		set["chat_user_id"] = *update.ChatUserID
	}
	if update.Preferences != nil {
		set["preferences"] = preferencesDoc{
			Channels:  update.Preferences.Channels,
			Frequency: update.Preferences.Frequency,
			Timezone:  update.Preferences.Timezone,
		}
	}

	if len(set) == 0 {
		err := s.coll.FindOne(ctx, bson.M{"_id": id}).Err()
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}
		return err == nil, err
	}

	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (s *RecipientStore) Delete(ctx context.Context, id string) (bool, error) {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}
