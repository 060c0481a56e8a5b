package repositories

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"techsphere/models"
)

type MongoBlogRepository struct {
	col *mongo.Collection
}

var _ BlogRepository = (*MongoBlogRepository)(nil)

func NewBlogRepository(db *mongo.Database) *MongoBlogRepository {
	return &MongoBlogRepository{col: db.Collection("blogs")}
}

// Insert stores a new blog. Ids are ObjectID hex strings so they stay opaque to clients.
func (r *MongoBlogRepository) Insert(ctx context.Context, b *models.Blog) error {
	if b.ID == "" {
		b.ID = primitive.NewObjectID().Hex()
	}
	if b.Tags == nil {
		b.Tags = []string{}
	}
	_, err := r.col.InsertOne(ctx, b)
	return err
}

// FindByID returns a blog by id
func (r *MongoBlogRepository) FindByID(ctx context.Context, id string) (*models.Blog, error) {
	var b models.Blog
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&b); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

// List returns blogs sorted by the requested field; _id breaks ties.
func (r *MongoBlogRepository) List(ctx context.Context, opt ListBlogsOptions) ([]models.Blog, error) {
	filter := bson.M{}
	if opt.AuthorID != "" {
		filter["author_id"] = opt.AuthorID
	}

	direction := -1
	if opt.Ascending {
		direction = 1
	}
	findOpts := options.Find().SetSort(bson.D{
		{Key: sortFields[resolveSortField(opt.OrderBy)], Value: direction},
		{Key: "_id", Value: direction},
	})
	if opt.Limit > 0 {
		findOpts.SetLimit(int64(opt.Limit))
	}

	cur, err := r.col.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	results := []models.Blog{}
	for cur.Next(ctx) {
		var b models.Blog
		if err := cur.Decode(&b); err != nil {
			return nil, err
		}
		results = append(results, b)
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// UpdateContent overwrites the author-editable fields only.
// views, rating and rating_count are never touched here.
func (r *MongoBlogRepository) UpdateContent(ctx context.Context, b *models.Blog) error {
	res, err := r.col.UpdateByID(ctx, b.ID, bson.M{
		"$set": bson.M{
			"title":       b.Title,
			"content":     b.Content,
			"excerpt":     b.Excerpt,
			"cover_image": b.CoverImage,
			"tags":        b.Tags,
			"updated_at":  b.UpdatedAt,
		},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// IncrementViews increments views by 1 with $inc and returns the updated document.
func (r *MongoBlogRepository) IncrementViews(ctx context.Context, id string) (*models.Blog, error) {
	return r.findOneAndUpdate(ctx, id, bson.M{"$inc": bson.M{"views": 1}})
}

// ApplyRating folds value into the running average in a single pipeline update.
// Both expressions in the $set stage read the pre-update rating_count.
func (r *MongoBlogRepository) ApplyRating(ctx context.Context, id string, value float64) (*models.Blog, error) {
	nextCount := bson.D{{Key: "$add", Value: bson.A{"$rating_count", 1}}}
	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "rating", Value: bson.D{{Key: "$divide", Value: bson.A{
				bson.D{{Key: "$add", Value: bson.A{
					bson.D{{Key: "$multiply", Value: bson.A{"$rating", "$rating_count"}}},
					value,
				}}},
				nextCount,
			}}}},
			{Key: "rating_count", Value: nextCount},
		}}},
	}
	return r.findOneAndUpdate(ctx, id, update)
}

func (r *MongoBlogRepository) findOneAndUpdate(ctx context.Context, id string, update interface{}) (*models.Blog, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var b models.Blog
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&b); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

// Delete removes a single blog. Child documents are handled by the caller.
func (r *MongoBlogRepository) Delete(ctx context.Context, id string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func stampNow(t *time.Time) {
	if t.IsZero() {
		*t = time.Now().UTC()
	}
}
