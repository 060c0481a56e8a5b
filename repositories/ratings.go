package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"techsphere/models"
)

type MongoRatingRepository struct {
	col *mongo.Collection
}

var _ RatingRepository = (*MongoRatingRepository)(nil)

func NewRatingRepository(db *mongo.Database) *MongoRatingRepository {
	return &MongoRatingRepository{col: db.Collection("ratings")}
}

func (r *MongoRatingRepository) Insert(ctx context.Context, rating *models.Rating) error {
	if rating.ID == "" {
		rating.ID = primitive.NewObjectID().Hex()
	}
	stampNow(&rating.CreatedAt)
	_, err := r.col.InsertOne(ctx, rating)
	return err
}

func (r *MongoRatingRepository) ListByBlog(ctx context.Context, blogID string) ([]models.Rating, error) {
	cur, err := r.col.Find(ctx, bson.M{"blog_id": blogID}, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	results := []models.Rating{}
	if err := cur.All(ctx, &results); err != nil {
		return nil, err
	}
	return results, nil
}

func (r *MongoRatingRepository) DeleteByBlog(ctx context.Context, blogID string) (int64, error) {
	res, err := r.col.DeleteMany(ctx, bson.M{"blog_id": blogID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
