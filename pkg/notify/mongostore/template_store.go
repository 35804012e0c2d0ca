package mongostore

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/Sombhu2022/agri-farm-sub000/pkg/notify"
)

const templateCollection = "notification_templates"

// templateDoc is the persisted shape; _id doubles as the template ID.
type templateDoc struct {
	ID        string             `bson:"_id"`
	Name      string             `bson:"name"`
	Channel   notify.ChannelType `bson:"channel_type"`
	Subject   string             `bson:"subject,omitempty"`
	Content   string             `bson:"content"`
	Variables []string           `bson:"variables"`
	Active    bool               `bson:"is_active"`
	Language  string             `bson:"language,omitempty"`
}

func toTemplateDoc(t notify.Template) templateDoc {
	return templateDoc{
		ID:        t.ID,
		Name:      t.Name,
		Channel:   t.Channel,
		Subject:   t.Subject,
		Content:   t.Content,
		Variables: t.Variables,
		Active:    t.Active,
		Language:  t.Language,
	}
}

func (d templateDoc) toDomain() notify.Template {
	return notify.Template{
		ID:        d.ID,
		Name:      d.Name,
		Channel:   d.Channel,
		Subject:   d.Subject,
		Content:   d.Content,
		Variables: d.Variables,
		Active:    d.Active,
		Language:  d.Language,
	}
}

// TemplateStore is a Mongo-backed notify.TemplateStore. Templates survive
// process restarts, unlike the default in-memory store.
type TemplateStore struct {
	coll *mongo.Collection
}

// NewTemplateStore creates a template store over the given database.
func NewTemplateStore(db *mongo.Database) *TemplateStore {
	return &TemplateStore{coll: db.Collection(templateCollection)}
}

func (s *TemplateStore) Add(ctx context.Context, tmpl notify.Template) error {
	_, err := s.coll.ReplaceOne(ctx,
		bson.M{"_id": tmpl.ID},
		toTemplateDoc(tmpl),
		options.Replace().SetUpsert(true),
	)
	return err
}

func (s *TemplateStore) Get(ctx context.Context, id string) (*notify.Template, bool) {
	var doc templateDoc
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		return nil, false
	}
	tmpl := doc.toDomain()
	return &tmpl, true
}

func (s *TemplateStore) Update(ctx context.Context, id string, update notify.TemplateUpdate) (bool, error) {
	set := bson.M{}
	if update.Name != nil {
		set["name"] = *update.Name
	}
	if update.Channel != nil {
		set["channel_type"] = *update.Channel
	}
	if update.Subject != nil {
		set["subject"] = *update.Subject
	}
	if update.Content != nil {
		set["content"] = *update.Content
	}
	if update.Variables != nil {
		set["variables"] = *update.Variables
	}
	if update.Active != nil {
		set["is_active"] = *update.Active
	}
	if update.Language != nil {
		set["language"] = *update.Language
	}

	if len(set) == 0 {
		// Nothing to change; report existence only.
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

func (s *TemplateStore) Delete(ctx context.Context, id string) (bool, error) {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}
