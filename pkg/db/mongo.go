// Package db persists sweep runs to MongoDB for later comparison across
// experiments.
package db

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"reflect"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Connect opens the database named by MONGO_URL, defaulting to a local
// demv database.
func Connect() (*mongo.Database, error) {
	registry := bson.NewRegistry()
	registry.RegisterTypeMapEntry(0x03, reflect.TypeOf(bson.M{}))

	mongoUrl := os.Getenv("MONGO_URL")
	if mongoUrl == "" {
		mongoUrl = "mongodb://localhost:27017/demv"
	}

	uri, err := url.Parse(mongoUrl)
	if err != nil {
		return nil, err
	}

	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI(mongoUrl).SetRegistry(registry))
	if err != nil {
		return nil, err
	}

	dbName := strings.Trim(uri.Path, "/")
	if dbName == "" {
		dbName = "demv"
	}
	return client.Database(dbName), nil
}

// ensureIndex creates the named index unless it already exists.
func ensureIndex(ctx context.Context, db *mongo.Database, collection string, model mongo.IndexModel) error {
	if model.Options.Name == nil {
		return fmt.Errorf("must provide a name for index")
	}
	expected := *model.Options.Name

	idxs := db.Collection(collection).Indexes()
	cur, err := idxs.List(ctx)
	if err != nil {
		return fmt.Errorf("unable to list indexes: %s", err)
	}

	for cur.Next(ctx) {
		var d bson.M
		if err := cur.Decode(&d); err != nil {
			return fmt.Errorf("unable to decode bson index document: %s", err)
		}
		if name, ok := d["name"].(string); ok && name == expected {
			return nil
		}
	}

	_, err = idxs.CreateOne(ctx, model)
	return err
}
