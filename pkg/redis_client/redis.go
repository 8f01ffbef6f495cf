package redis_client

import (
	"context"
	"strconv"

	"github.com/redis/go-redis/v9"
	"github.com/travigo/crowding/pkg/util"
)

var Client *redis.Client

const defaultConnectionAddress = "localhost:6379"
const defaultConnectionPassword = ""
const defaultDatabase = 0

func Options() (*redis.Options, error) {
	address := util.GetEnvironmentVariable("TRAVIGO_REDIS_ADDRESS", defaultConnectionAddress)
	password := util.GetEnvironmentVariable("TRAVIGO_REDIS_PASSWORD", defaultConnectionPassword)
	database := defaultDatabase

	if value := util.GetEnvironmentVariable("TRAVIGO_REDIS_DATABASE", ""); value != "" {
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, err
		}
		database = n
	}

	return &redis.Options{
		Addr:     address,
		Password: password,
		DB:       database,
	}, nil
}

func Connect(ctx context.Context) error {
	options, err := Options()
	if err != nil {
		return err
	}

	Client = redis.NewClient(options)

	return Client.Ping(ctx).Err()
}
