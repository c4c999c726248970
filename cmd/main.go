// Package main starts the wallet API that manages users, balances, transfers
// and payment requests.
package main

import (
	"context"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"

	"github.com/shobh123/pay-securely-and-carefree/cmd/httpserver"
	"github.com/shobh123/pay-securely-and-carefree/internal/middleware"
	"github.com/shobh123/pay-securely-and-carefree/pkg/configpkg"
	"github.com/shobh123/pay-securely-and-carefree/pkg/dbpkg"

	_ "github.com/lib/pq"
)

func main() {
	config, err := configpkg.Load("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	logger := middleware.GetLogger(config)

	db, err := dbpkg.Setup(config.DBDriver, config.DBSource)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot connect to database")
	}

	redisClient := redis.NewClient(&redis.Options{Addr: config.RedisAddress})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		logger.Fatal().Err(err).Msg("cannot connect to redis")
	}

	server, err := httpserver.New(db, redisClient, logger, config)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot create server")
	}

	logger.Info().Msg("WALLET API SERVER HAS STARTED")

	if err := server.Engine.Run(config.ServerAddress); err != nil {
		logger.Fatal().Err(err).Msg("cannot start server")
	}
}
