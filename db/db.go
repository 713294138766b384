package db

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	Client *mongo.Client

	EventsCollection *mongo.Collection
	ImagesCollection *mongo.Collection
)

// Init connects to MongoDB and binds the package-level collection handles.
func Init(ctx context.Context, uri string) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return err
	}

	Client = client
	database := client.Database("gisdb")
	EventsCollection = database.Collection("events")
	ImagesCollection = database.Collection("images")
	return nil
}

// Close disconnects the client. Safe to call when Init never ran.
func Close(ctx context.Context) error {
	if Client == nil {
		return nil
	}
	return Client.Disconnect(ctx)
}
