// Package worker implements the calculator worker lifecycle and Redis Streams integration.
//
// The worker reads calculation requests from a Redis stream through a consumer
// group, evaluates each operation with the engine dispatcher and publishes the
// outcome: successes to the result stream, failures to "<result stream>.errors"
// with their error kind.
//
// Example usage:
//
//	cfg, _ := config.Load()
//	redisClient := redis.NewClient(&redis.Options{...})
//	dispatcher, _ := engine.NewDispatcher(chart.NewPlotRenderer(), cfg.Settings(), logger)
//
//	w := worker.NewWorker(cfg, redisClient, dispatcher,
//	    worker.NewStreamPublisher(redisClient, logger), nil, logger)
//	if err := w.Start(); err != nil {
//	    log.Fatal(err)
//	}
//	defer w.Stop(ctx)
//
// A request message carries a JSON "data" field:
//
//	{"request_id": "r-1", "operation": "plot(x^2, -10, 10)"}
//
// Health checks and Prometheus metrics are served by a separate HTTP server:
//
//	healthServer := worker.NewHealthServer(8082, redisClient, true, logger)
//	healthServer.Start()
//	defer healthServer.Stop(ctx)
package worker
