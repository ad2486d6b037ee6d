package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/bjarke-xyz/startup-dashboard/internal/domain"
)

type mongoAppRepository struct {
	collection *mongo.Collection
}

// NewMongoApp reads applications from a MongoDB collection, as written by the
// submission system.
func NewMongoApp(collection *mongo.Collection) domain.ApplicationRepository {
	return &mongoAppRepository{collection: collection}
}

// searchFilter matches search as a literal, case-insensitive substring of any
// searchable field.
func searchFilter(search string) bson.M {
	if search == "" {
		return bson.M{}
	}
	pattern := regexp.QuoteMeta(search)
	or := make(bson.A, 0, len(domain.SearchFields))
	for _, key := range domain.SearchStoreKeys() {
		or = append(or, bson.M{key: bson.M{"$regex": pattern, "$options": "i"}})
	}
	return bson.M{"$or": or}
}

func idFilter(id string) bson.M {
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return bson.M{"_id": bson.M{"$in": bson.A{oid, id}}}
	}
	return bson.M{"_id": id}
}

// Find implements domain.ApplicationRepository.
func (m *mongoAppRepository) Find(ctx context.Context, search string) ([]domain.Document, error) {
	cursor, err := m.collection.Find(ctx, searchFilter(strings.TrimSpace(search)))
	if err != nil {
		return nil, classifyMongoError(err)
	}
	raws := make([]bson.M, 0)
	if err := cursor.All(ctx, &raws); err != nil {
		return nil, classifyMongoError(err)
	}
	docs := make([]domain.Document, 0, len(raws))
	for _, raw := range raws {
		docs = append(docs, fromBSON(raw))
	}
	return docs, nil
}

// GetByID implements domain.ApplicationRepository.
func (m *mongoAppRepository) GetByID(ctx context.Context, id string) (domain.Document, error) {
	var raw bson.M
	err := m.collection.FindOne(ctx, idFilter(id)).Decode(&raw)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, classifyMongoError(err)
	}
	return fromBSON(raw), nil
}

func classifyMongoError(err error) error {
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) || errors.Is(err, mongo.ErrClientDisconnected) {
		return fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}
	return fmt.Errorf("%w: %w", domain.ErrStoreQuery, err)
}

// fromBSON converts a decoded BSON document into plain Go values.
func fromBSON(raw bson.M) domain.Document {
	doc := make(domain.Document, len(raw))
	for k, v := range raw {
		doc[k] = plainValue(v)
	}
	return doc
}

func plainValue(v any) any {
	switch x := v.(type) {
	case primitive.M:
		return map[string]any(fromBSON(x))
	case primitive.D:
		m := make(map[string]any, len(x))
		for _, e := range x {
			m[e.Key] = plainValue(e.Value)
		}
		return m
	case primitive.A:
		out := make([]any, 0, len(x))
		for _, item := range x {
			out = append(out, plainValue(item))
		}
		return out
	case primitive.ObjectID:
		return x.Hex()
	case primitive.DateTime:
		return x.Time()
	case primitive.Timestamp:
		return int64(x.T) * 1000
	case primitive.Decimal128:
		return x.String()
	case primitive.Null, primitive.Undefined:
		return nil
	}
	return v
}
