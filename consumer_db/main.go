package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/xor-shift/mcprng/common"
	"github.com/xor-shift/mcprng/store"
)

const insertTimeout = 30 * time.Second

func main() {
	log := common.NewLogger("consumer_db")

	if err := common.LoadEnv(); err != nil {
		log.Fatal().Err(err).Msg("loading dotenv failed")
	}

	db, err := store.Open(common.MySQLConfig())
	if err != nil {
		log.Fatal().Err(err).Msg("opening the database failed")
	}
	defer db.Close()

	consumer, err := common.NewAMQPConsumer(
		common.AMQPURL(),
		"draw_results_queue_db",
		"consumer_db",
		func(result common.JobResult) error {
			ctx, cancel := context.WithTimeout(context.Background(), insertTimeout)
			defer cancel()

			if err := db.InsertResult(ctx, result); err != nil {
				return err
			}

			log.Debug().Str("batch", result.BatchKey).Int("stream", result.StreamNumber).Msg("stored")
			return nil
		},
		func(err error) {
			log.Error().Err(err).Msg("failed storing a result")
		})
	if err != nil {
		log.Fatal().Err(err).Msg("creating the amqp consumer failed")
	}
	defer consumer.Close()

	if err = consumer.Start(); err != nil {
		log.Fatal().Err(err).Msg("starting the amqp consumer failed")
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	<-signals

	if err = consumer.Stop(); err != nil {
		log.Error().Err(err).Msg("cancelling the consumer failed")
	}
	consumer.Wait()
}
