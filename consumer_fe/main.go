package main

import (
	"fmt"
	"net/http"

	"github.com/kataras/iris/v12"

	"github.com/xor-shift/mcprng/common"
)

func main() {
	log := common.NewLogger("consumer_fe")

	if err := common.LoadEnv(); err != nil {
		log.Fatal().Err(err).Msg("loading dotenv failed")
	}

	latest := newLatestResults()

	consumer, err := common.NewAMQPConsumer(
		common.AMQPURL(),
		"draw_results_queue_fe",
		"consumer_fe",
		latest.Put,
		func(err error) {
			log.Error().Err(err).Msg("dropped a result")
		})
	if err != nil {
		log.Fatal().Err(err).Msg("creating the amqp consumer failed")
	}
	defer consumer.Close()

	if err = consumer.Start(); err != nil {
		log.Fatal().Err(err).Msg("starting the amqp consumer failed")
	}

	app := iris.New()

	app.Get("/test", func(ctx iris.Context) {
		_, _ = ctx.Text("OK")
	})

	app.Get("/results/{batchKey:string}", func(ctx iris.Context) {
		results, ok := latest.Get(ctx.Params().Get("batchKey"))
		if !ok {
			ctx.StatusCode(http.StatusNotFound)
			return
		}

		if _, err := ctx.JSON(results); err != nil {
			log.Error().Err(err).Msg("writing response failed")
		}
	})

	addr := fmt.Sprintf(":%d", common.EnvInt("CONSUMER_FE_PORT", 8081))
	if err = app.Listen(addr, iris.WithoutServerError(iris.ErrServerClosed)); err != nil {
		log.Error().Err(err).Msg("server stopped")
	}
}
