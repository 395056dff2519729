package client

import (
	"context"
	"fmt"
	"time"

	"phonesanitizer/pkg/logger"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Client struct {
	Mongo *mongo.Client
}

type MongoOptions struct {
	URI         string
	Username    string
	Password    string
	AuthSource  string
	ConnTimeout time.Duration
}

func NewClient() *Client {
	return &Client{}
}

// ClientOptions builds the driver options; credentials are only attached when a username is given,
// so a URI that embeds its own credentials keeps working.
func (o MongoOptions) ClientOptions() *options.ClientOptions {
	opts := options.Client().ApplyURI(o.URI)
	if o.Username != "" {
		opts.SetAuth(options.Credential{
			Username:   o.Username,
			Password:   o.Password,
			AuthSource: o.AuthSource,
		})
	}
	return opts
}

func (c *Client) SetMongo(log *logger.Logger, o MongoOptions) error {
	ctx, cancel := context.WithTimeout(context.Background(), o.ConnTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, o.ClientOptions())
	if err != nil {
		return fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	log.Info("Successfully connected to MongoDB")
	c.Mongo = client
	return nil
}

func (c *Client) GracefulShutdown(log *logger.Logger, timeout time.Duration) {
	if c.Mongo == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := c.Mongo.Disconnect(ctx); err != nil {
		log.Warn("Failed to disconnect from MongoDB", "error", err)
		return
	}
	c.Mongo = nil
	log.Info("Disconnected from MongoDB")
}
