package mongo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/aliskhannn/exam-prep/internal/cloudsync"
)

const documentsCollection = "sync_documents"

// syncDocument keeps every value as its JSON text so that documents written by
// other stores round-trip byte for byte.
type syncDocument struct {
	Identity  string            `bson:"_id"`
	Data      map[string]string `bson:"data"`
	UpdatedAt time.Time         `bson:"updatedAt"`
}

// DocumentRepository stores one document per identity in MongoDB.
type DocumentRepository struct {
	collection *mongo.Collection
}

func NewDocumentRepository(db *mongo.Database) *DocumentRepository {
	return &DocumentRepository{collection: db.Collection(documentsCollection)}
}

func (r *DocumentRepository) Read(ctx context.Context, identity string) (cloudsync.Document, bool, error) {
	var stored syncDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": identity}).Decode(&stored)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("find document: %w", err)
	}

	doc := make(cloudsync.Document, len(stored.Data))
	for k, v := range stored.Data {
		if !json.Valid([]byte(v)) {
			continue
		}
		doc[k] = json.RawMessage(v)
	}
	return doc, true, nil
}

func (r *DocumentRepository) Write(ctx context.Context, identity string, doc cloudsync.Document, merge bool) error {
	now := time.Now().UTC()

	if !merge {
		data := make(map[string]string, len(doc))
		for k, v := range doc {
			data[k] = string(v)
		}
		replacement := syncDocument{Identity: identity, Data: data, UpdatedAt: now}

		_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": identity}, replacement, options.Replace().SetUpsert(true))
		if err != nil {
			return fmt.Errorf("replace document: %w", err)
		}
		return nil
	}

	set := bson.M{"updatedAt": now}
	for k, v := range doc {
		set["data."+k] = string(v)
	}

	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": identity}, bson.M{"$set": set}, options.UpdateOne().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("update document: %w", err)
	}
	return nil
}
