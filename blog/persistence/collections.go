package persistence

import (
	"context"

	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// collection is the slice of *mongo.Collection the repository uses. Tests
// swap in fakes; production wraps the real driver via wrapCollection.
type (
	collection interface {
		Find(ctx context.Context, filter any, opts ...*options.FindOptions) (cursor, error)
		FindOne(ctx context.Context, filter any, opts ...*options.FindOneOptions) singleResult
		FindOneAndUpdate(ctx context.Context, filter any, update any, opts ...*options.FindOneAndUpdateOptions) singleResult
		InsertOne(ctx context.Context, document any) (*mongodriver.InsertOneResult, error)
		InsertMany(ctx context.Context, documents []any) (*mongodriver.InsertManyResult, error)
		CountDocuments(ctx context.Context, filter any) (int64, error)
		DeleteOne(ctx context.Context, filter any) (*mongodriver.DeleteResult, error)
		DeleteMany(ctx context.Context, filter any) (*mongodriver.DeleteResult, error)
		Distinct(ctx context.Context, fieldName string, filter any) ([]any, error)
		Indexes() indexView
	}

	cursor interface {
		Next(ctx context.Context) bool
		Decode(val any) error
		Err() error
		Close(ctx context.Context) error
	}

	singleResult interface {
		Decode(val any) error
	}

	indexView interface {
		CreateMany(ctx context.Context, models []mongodriver.IndexModel) ([]string, error)
	}
)

type mongoCollection struct {
	coll *mongodriver.Collection
}

func wrapCollection(coll *mongodriver.Collection) collection {
	return mongoCollection{coll: coll}
}

func (c mongoCollection) Find(ctx context.Context, filter any, opts ...*options.FindOptions) (cursor, error) {
	cur, err := c.coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	return mongoCursor{cursor: cur}, nil
}

func (c mongoCollection) FindOne(ctx context.Context, filter any, opts ...*options.FindOneOptions) singleResult {
	return c.coll.FindOne(ctx, filter, opts...)
}

func (c mongoCollection) FindOneAndUpdate(ctx context.Context, filter any, update any, opts ...*options.FindOneAndUpdateOptions) singleResult {
	return c.coll.FindOneAndUpdate(ctx, filter, update, opts...)
}

func (c mongoCollection) InsertOne(ctx context.Context, document any) (*mongodriver.InsertOneResult, error) {
	return c.coll.InsertOne(ctx, document)
}

func (c mongoCollection) InsertMany(ctx context.Context, documents []any) (*mongodriver.InsertManyResult, error) {
	return c.coll.InsertMany(ctx, documents)
}

func (c mongoCollection) CountDocuments(ctx context.Context, filter any) (int64, error) {
	return c.coll.CountDocuments(ctx, filter)
}

func (c mongoCollection) DeleteOne(ctx context.Context, filter any) (*mongodriver.DeleteResult, error) {
	return c.coll.DeleteOne(ctx, filter)
}

func (c mongoCollection) DeleteMany(ctx context.Context, filter any) (*mongodriver.DeleteResult, error) {
	return c.coll.DeleteMany(ctx, filter)
}

func (c mongoCollection) Distinct(ctx context.Context, fieldName string, filter any) ([]any, error) {
	return c.coll.Distinct(ctx, fieldName, filter)
}

func (c mongoCollection) Indexes() indexView {
	return mongoIndexView{view: c.coll.Indexes()}
}

type mongoCursor struct {
	cursor *mongodriver.Cursor
}

func (c mongoCursor) Next(ctx context.Context) bool { return c.cursor.Next(ctx) }
func (c mongoCursor) Decode(val any) error          { return c.cursor.Decode(val) }
func (c mongoCursor) Err() error                    { return c.cursor.Err() }
func (c mongoCursor) Close(ctx context.Context) error {
	return c.cursor.Close(ctx)
}

type mongoIndexView struct {
	view mongodriver.IndexView
}

func (v mongoIndexView) CreateMany(ctx context.Context, models []mongodriver.IndexModel) ([]string, error) {
	return v.view.CreateMany(ctx, models)
}
