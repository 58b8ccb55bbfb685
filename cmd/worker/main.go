package main

import (
	"context"
	"encoding/json"
	"flag"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/joripage/matchbook-dev/config"
	postgres_wrapper "github.com/joripage/matchbook-dev/pkg/infra/postgres"
	kafkawrapper "github.com/joripage/matchbook-dev/pkg/kafka_wrapper"
	"github.com/joripage/matchbook-dev/pkg/oms/repo"
	"github.com/joripage/matchbook-dev/pkg/oms/worker"
)

func main() {
	var configFile string
	flag.StringVar(&configFile, "config-file", "", "Specify config file path")
	flag.Parse()

	logger, _ := zap.NewProduction()
	defer logger.Sync() // nolint
	zap.ReplaceGlobals(logger)

	cfg, err := config.Load(configFile)
	if err != nil {
		panic(err)
	}

	configBytes, err := json.MarshalIndent(cfg, "", "   ")
	if err != nil {
		zap.S().Warnf("could not convert config to JSON: %v", err)
	} else {
		zap.S().Debugf("load config %s", string(configBytes))
	}

	ctx := context.Background()

	db, err := postgres_wrapper.InitPostgres(cfg.OmsDB)
	if err != nil {
		zap.S().Errorf("init db fail with err: %v", err)
		panic(err)
	}

	sqlRepo := repo.NewRepo(db)

	cg, err := kafkawrapper.NewConsumerGroup(kafkawrapper.ConsumerConfig{
		Brokers:    cfg.Kafka.Brokers,
		GroupID:    cfg.Kafka.ConsumerGroupID,
		Topic:      cfg.Kafka.OrderEventTopic,
		DLQTopic:   cfg.Kafka.DLQTopic,
		AutoCommit: true,
	})
	if err != nil {
		zap.S().Errorf("init consumer group fail with err: %v", err)
		panic(err)
	}
	defer cg.Close() // nolint

	w := worker.NewWorker(sqlRepo)
	zap.S().Info("order event worker started")
	if err := w.StartConsumer(ctx, cg); err != nil {
		zap.S().Errorf("consumer stopped with err: %v", err)
	}
}
