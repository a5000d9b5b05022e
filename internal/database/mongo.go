package database

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection and field names match the documents the original Python
// deployment wrote, so an existing database can be reused as is.
const (
	usersCollection    = "users"
	channelsCollection = "chnl_ids"
	channelIDField     = "chnl_id"
)

type mongoUser struct {
	ID        int64     `bson:"_id"`
	CreatedAt time.Time `bson:"created_at"`
}

type mongoChannel struct {
	ChannelID int64     `bson:"chnl_id"`
	Caption   string    `bson:"caption"`
	UpdatedAt time.Time `bson:"updated_at,omitempty"`
}

// mongoStore implements Store on a MongoDB database.
type mongoStore struct {
	client   *mongo.Client
	users    *mongo.Collection
	channels *mongo.Collection
	logger   *slog.Logger
}

// NewMongoStore connects to uri and uses the named database.
func NewMongoStore(ctx context.Context, uri, dbName string, logger *slog.Logger) (Store, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	log := logger.With("component", "store", "driver", "mongo")

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		if discErr := client.Disconnect(ctx); discErr != nil {
			log.Error("Error disconnecting after failed ping", "error", discErr)
		}
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	db := client.Database(dbName)
	channels := db.Collection(channelsCollection)

	// Upserts on chnl_id rely on it being unique.
	_, err = channels.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: channelIDField, Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		if discErr := client.Disconnect(ctx); discErr != nil {
			log.Error("Error disconnecting after failed index creation", "error", discErr)
		}
		return nil, fmt.Errorf("failed to create %s index: %w", channelIDField, err)
	}
	log.Info("Connected to MongoDB", "database", dbName)

	return &mongoStore{
		client:   client,
		users:    db.Collection(usersCollection),
		channels: channels,
		logger:   log,
	}, nil
}

func (s *mongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *mongoStore) Close(ctx context.Context) error {
	if err := s.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect from mongo: %w", err)
	}
	s.logger.Info("MongoDB connection closed successfully.")
	return nil
}

// RunMaintenance only checks connectivity; MongoDB compacts on its own.
func (s *mongoStore) RunMaintenance(ctx context.Context) error {
	if err := s.Ping(ctx); err != nil {
		return fmt.Errorf("mongo maintenance ping failed: %w", err)
	}
	s.logger.DebugContext(ctx, "MongoDB maintenance check passed")
	return nil
}

func (s *mongoStore) AddUser(ctx context.Context, userID int64) (bool, error) {
	_, err := s.users.InsertOne(ctx, mongoUser{ID: userID, CreatedAt: time.Now().UTC()})
	if mongo.IsDuplicateKeyError(err) {
		return false, nil
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "Error registering user", "user_id", userID, "error", err)
		return false, fmt.Errorf("failed to register user %d: %w", userID, err)
	}
	s.logger.DebugContext(ctx, "User registered", "user_id", userID)
	return true, nil
}

func (s *mongoStore) CountUsers(ctx context.Context) (int, error) {
	n, err := s.users.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return int(n), nil
}

func (s *mongoStore) ListUserIDs(ctx context.Context) ([]int64, error) {
	opts := options.Find().
		SetProjection(bson.M{"_id": 1}).
		SetSort(bson.D{{Key: "created_at", Value: 1}})

	cur, err := s.users.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	var docs []mongoUser
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}

	ids := make([]int64, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.ID)
	}
	return ids, nil
}

func (s *mongoStore) DeleteUser(ctx context.Context, userID int64) error {
	if _, err := s.users.DeleteOne(ctx, bson.M{"_id": userID}); err != nil {
		s.logger.ErrorContext(ctx, "Error deleting user", "user_id", userID, "error", err)
		return fmt.Errorf("failed to delete user %d: %w", userID, err)
	}
	return nil
}

func (s *mongoStore) GetChannelCaption(ctx context.Context, channelID int64) (string, bool, error) {
	var doc mongoChannel
	err := s.channels.FindOne(ctx, bson.M{channelIDField: channelID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get caption for channel %d: %w", channelID, err)
	}
	return doc.Caption, true, nil
}

func (s *mongoStore) SetChannelCaption(ctx context.Context, channelID int64, template string) (bool, error) {
	update := bson.M{"$set": bson.M{"caption": template, "updated_at": time.Now().UTC()}}
	res, err := s.channels.UpdateOne(ctx, bson.M{channelIDField: channelID}, update, options.Update().SetUpsert(true))
	if err != nil {
		s.logger.ErrorContext(ctx, "Error saving channel caption", "channel_id", channelID, "error", err)
		return false, fmt.Errorf("failed to save caption for channel %d: %w", channelID, err)
	}
	return res.UpsertedCount > 0, nil
}

func (s *mongoStore) DeleteChannelCaption(ctx context.Context, channelID int64) (bool, error) {
	res, err := s.channels.DeleteOne(ctx, bson.M{channelIDField: channelID})
	if err != nil {
		return false, fmt.Errorf("failed to delete caption for channel %d: %w", channelID, err)
	}
	return res.DeletedCount > 0, nil
}
