package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type Category struct {
	ID    primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name  string             `bson:"name" json:"name"`
	Icon  string             `bson:"icon,omitempty" json:"icon,omitempty"`
	Color string             `bson:"color,omitempty" json:"color,omitempty"`
}
