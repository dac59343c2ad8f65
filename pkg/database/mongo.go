package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"foodbox_backend/pkg/config"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	MongoClient *mongo.Client
	Wishlists   *mongo.Collection
)

// InitMongo connects to the document store and binds the wishlist collection
func InitMongo() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(config.AppConfig.MongoURI))
	if err != nil {
		return fmt.Errorf("failed to connect to mongo: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("failed to ping mongo: %w", err)
	}

	MongoClient = client
	Wishlists = client.Database(config.AppConfig.MongoDB).Collection("wishlists")

	// One wishlist per user; concurrent first-writes race on this index
	_, err = Wishlists.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create wishlist index: %w", err)
	}

	log.Println("✅ Mongo connection established")

	return nil
}

// CloseMongo disconnects the document store client
func CloseMongo() {
	if MongoClient == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := MongoClient.Disconnect(ctx); err != nil {
		log.Printf("Error closing mongo connection: %v", err)
	} else {
		log.Println("✅ Mongo connection closed")
	}
}
