package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// mongoBackend implements Backend on a MongoDB database. Document ids are
// ObjectID hex strings; an id that is not valid hex cannot exist and maps
// to ErrNotFound.
type mongoBackend struct {
	db *mongo.Database
}

// NewMongoBackend wraps a connected database.
func NewMongoBackend(db *mongo.Database) Backend {
	return &mongoBackend{db: db}
}

func (m *mongoBackend) Find(ctx context.Context, collection string, criteria Criteria, order Order, limit int64) ([]Document, error) {
	filter := bson.M{}
	for k, v := range criteria {
		filter[k] = v
	}

	dir := 1
	if order.Desc {
		dir = -1
	}
	opts := options.Find().SetSort(bson.D{{Key: order.Field, Value: dir}})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := m.db.Collection(collection).Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	docs := []Document{}
	for cursor.Next(ctx) {
		var raw bson.M
		if err := cursor.Decode(&raw); err != nil {
			return nil, err
		}
		docs = append(docs, fromBSON(raw))
	}
	return docs, cursor.Err()
}

func (m *mongoBackend) Get(ctx context.Context, collection, id string) (Document, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var raw bson.M
	err = m.db.Collection(collection).FindOne(ctx, bson.M{"_id": oid}).Decode(&raw)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return fromBSON(raw), nil
}

func (m *mongoBackend) Insert(ctx context.Context, collection string, doc Document) (string, error) {
	res, err := m.db.Collection(collection).InsertOne(ctx, bson.M(doc))
	if err != nil {
		return "", err
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", mongo.ErrNilDocument
	}
	return oid.Hex(), nil
}

func (m *mongoBackend) Update(ctx context.Context, collection, id string, fields Document) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	res, err := m.db.Collection(collection).UpdateByID(ctx, oid, bson.M{"$set": bson.M(fields)})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *mongoBackend) Delete(ctx context.Context, collection, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	res, err := m.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// fromBSON merges the ObjectID into the field set as a hex "id".
func fromBSON(raw bson.M) Document {
	doc := Document{}
	for k, v := range raw {
		if k == "_id" {
			if oid, ok := v.(primitive.ObjectID); ok {
				doc["id"] = oid.Hex()
				continue
			}
		}
		doc[k] = v
	}
	return doc
}
