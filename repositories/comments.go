package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"techsphere/models"
)

type MongoCommentRepository struct {
	col *mongo.Collection
}

var _ CommentRepository = (*MongoCommentRepository)(nil)

func NewCommentRepository(db *mongo.Database) *MongoCommentRepository {
	return &MongoCommentRepository{col: db.Collection("comments")}
}

func (r *MongoCommentRepository) Insert(ctx context.Context, c *models.Comment) error {
	if c.ID == "" {
		c.ID = primitive.NewObjectID().Hex()
	}
	stampNow(&c.CreatedAt)
	_, err := r.col.InsertOne(ctx, c)
	return err
}

// ListByBlog returns comments of a blog, newest first
func (r *MongoCommentRepository) ListByBlog(ctx context.Context, blogID string) ([]models.Comment, error) {
	findOpts := options.Find().SetSort(bson.D{
		{Key: "created_at", Value: -1},
		{Key: "_id", Value: -1},
	})
	cur, err := r.col.Find(ctx, bson.M{"blog_id": blogID}, findOpts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	results := []models.Comment{}
	if err := cur.All(ctx, &results); err != nil {
		return nil, err
	}
	return results, nil
}

func (r *MongoCommentRepository) DeleteByBlog(ctx context.Context, blogID string) (int64, error) {
	res, err := r.col.DeleteMany(ctx, bson.M{"blog_id": blogID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
