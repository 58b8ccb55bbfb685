package main

import (
	"context"
	"flag"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/joripage/matchbook-dev/config"
	redis_wrapper "github.com/joripage/matchbook-dev/pkg/infra/redis"
	kafkawrapper "github.com/joripage/matchbook-dev/pkg/kafka_wrapper"
	"github.com/joripage/matchbook-dev/pkg/logging"
	"github.com/joripage/matchbook-dev/pkg/marketdata"
	"github.com/joripage/matchbook-dev/pkg/oms"
	fixgateway "github.com/joripage/matchbook-dev/pkg/oms/fix"
	riskrule "github.com/joripage/matchbook-dev/pkg/oms/risk_rule"
)

func main() {
	var configFile string
	var tickSizeFile string
	flag.StringVar(&configFile, "config-file", "", "Specify config file path")
	flag.StringVar(&tickSizeFile, "tick-size-file", "", "Specify tick size rule file path")
	flag.Parse()

	logger, _ := zap.NewProduction()
	defer logger.Sync() // nolint
	zap.ReplaceGlobals(logger)

	go func() {
		http.ListenAndServe("localhost:6060", nil) // nolint
	}()

	cfg, err := config.Load(configFile)
	if err != nil {
		panic(err)
	}
	logging.Init(cfg.ServiceName, logging.INFO)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	fixGateway := fixgateway.NewFixGateway(&fixgateway.FixGatewayConfig{
		ConfigFilepath: cfg.FixConfig,
	})
	engine := oms.NewOMS(cfg.Oms, fixGateway)
	fixGateway.AddOmsInstance(engine)

	if tickSizeFile != "" {
		rule, err := riskrule.NewTickSizeRuleFromFile(tickSizeFile)
		if err != nil {
			zap.S().Errorf("load tick size rule err=%v", err)
			panic(err)
		}
		engine.RegisterRiskRule(rule)
	}

	var producer *kafkawrapper.Producer
	if cfg.Kafka != nil {
		producer = kafkawrapper.NewProducer(kafkawrapper.ProducerConfig{
			Brokers: cfg.Kafka.Brokers,
		})
		engine.RegisterEventPublisher(oms.NewKafkaEventPublisher(producer, cfg.Kafka.OrderEventTopic))
	}

	if cfg.MarketData != nil {
		md := marketdata.New(cfg.MarketData, tradeSink(producer), initRedis(cfg.Redis), engine)
		engine.RegisterTradePublisher(md)
		md.Start(ctx)
		defer md.Stop()
	}

	if err := engine.Start(ctx); err != nil {
		zap.S().Errorf("start engine err=%v", err)
		panic(err)
	}
	zap.S().Info("matching engine started")

	<-sigs
	zap.S().Info("shutting down")

	cancel()
	engine.Stop()
	fixGateway.Stop()
	if producer != nil {
		producer.Close(context.Background()) // nolint
	}
}

// tradeSink keeps the producer out of market data entirely when kafka is
// not configured, a typed nil would slip past its nil check.
func tradeSink(producer *kafkawrapper.Producer) marketdata.Publisher {
	if producer == nil {
		return nil
	}
	return producer
}

// initRedis is best-effort: market data degrades to in-memory only when
// redis is absent.
func initRedis(cfg *redis_wrapper.RedisConfig) *redis.Client {
	if cfg == nil {
		return nil
	}
	client, err := redis_wrapper.InitRedis(cfg)
	if err != nil {
		zap.S().Warnf("init redis err=%v, depth snapshots disabled", err)
		return nil
	}
	return client
}
