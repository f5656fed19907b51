package main

import (
	"fmt"
	"net/http"

	"github.com/kataras/iris/v12"

	"github.com/xor-shift/mcprng/common"
	"github.com/xor-shift/mcprng/ingest"
)

func main() {
	log := common.NewLogger("producer")

	if err := common.LoadEnv(); err != nil {
		log.Fatal().Err(err).Msg("loading dotenv failed")
	}

	publisher, err := common.NewAMQPPublisher(common.AMQPURL())
	if err != nil {
		log.Fatal().Err(err).Msg("connecting to amqp failed")
	}
	defer publisher.Close()

	in := ingest.NewIngester(publisher, log)
	in.Start(uint(common.EnvInt("PRODUCER_WORKERS", 1)))
	defer in.Stop()

	app := iris.New()

	respond := func(ctx iris.Context, status int, payload interface{}) {
		ctx.StatusCode(status)
		if _, err := ctx.JSON(payload); err != nil {
			log.Error().Err(err).Msg("writing response failed")
		}
	}

	app.Get("/health", func(ctx iris.Context) {
		stats := in.Stats()
		_, _ = ctx.Text("OK %d %d", stats.Processed, stats.Failed)
	})

	app.Post("/draw", func(ctx iris.Context) {
		body, err := ctx.GetBody()
		if err != nil {
			respond(ctx, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}

		status, payload := handleDraw(body)
		log.Debug().Int("status", status).Str("remote", ctx.RemoteAddr()).Msg("/draw")
		respond(ctx, status, payload)
	})

	app.Post("/jobs", func(ctx iris.Context) {
		body, err := ctx.GetBody()
		if err != nil {
			respond(ctx, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}

		status, payload := handleJobs(ctx.Request().Context(), in, body)
		log.Debug().Int("status", status).Str("remote", ctx.RemoteAddr()).Msg("/jobs")
		respond(ctx, status, payload)
	})

	addr := fmt.Sprintf(":%d", common.EnvInt("PRODUCER_PORT", 8080))
	if err := app.Listen(addr, iris.WithoutServerError(iris.ErrServerClosed)); err != nil {
		log.Error().Err(err).Msg("server stopped")
	}
}
