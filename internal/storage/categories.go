package storage

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"eshop-api/internal/models"
)

func (s *Store) InsertCategory(ctx context.Context, category *models.Category) (primitive.ObjectID, error) {
	res, err := s.categories.InsertOne(ctx, category)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("failed to insert category: %w", err)
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

func (s *Store) FindCategoryByID(ctx context.Context, id primitive.ObjectID) (*models.Category, error) {
	var category models.Category
	err := s.categories.FindOne(ctx, bson.M{"_id": id}).Decode(&category)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find category: %w", err)
	}
	return &category, nil
}

func (s *Store) ListCategories(ctx context.Context) ([]models.Category, error) {
	cur, err := s.categories.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	var categories []models.Category
	if err := cur.All(ctx, &categories); err != nil {
		return nil, fmt.Errorf("failed to decode categories: %w", err)
	}
	return categories, nil
}

func (s *Store) UpdateCategory(ctx context.Context, id primitive.ObjectID, category *models.Category) (*models.Category, error) {
	update := bson.M{"$set": bson.M{
		"name":  category.Name,
		"icon":  category.Icon,
		"color": category.Color,
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Category
	err := s.categories.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	return &updated, nil
}

func (s *Store) DeleteCategory(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.categories.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
