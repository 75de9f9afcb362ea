package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"fieldops/config"
	trackingRepo "fieldops/database/repository/tracking"
	"fieldops/services/geocode"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
)

const TypeGeocodeEnrich = "geocode:enrich"

// GeocodePayload identifies the history entry to annotate.
type GeocodePayload struct {
	Technician string  `json:"technician"`
	EntryID    string  `json:"entryId"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
}

// InitGeocodeWorker runs the async enrichment worker in background. City
// annotation is cosmetic: a task that keeps failing is dropped by asynq's
// retry budget without ever touching the submission path.
func InitGeocodeWorker(resolver *geocode.Resolver, tracking trackingRepo.TrackingRepository) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisGeocodeDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 4,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeGeocodeEnrich, handleGeocodeTask(resolver, tracking))

	// Start Redis health monitor
	go monitorRedisConnection()

	go func() {
		log.Println("[GeocodeWorker] starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[GeocodeWorker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Println("[GeocodeWorker] max retry attempts reached; city enrichment disabled")
					return
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

func handleGeocodeTask(resolver *geocode.Resolver, tracking trackingRepo.TrackingRepository) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p GeocodePayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[GeocodeHandler] invalid payload: %v", err)
			return err
		}

		city := resolver.CityFor(ctx, p.Latitude, p.Longitude)
		if city == "" {
			// Lookup failed or returned nothing; the entry keeps its
			// "unknown city" presentation. Not worth a retry storm.
			return nil
		}

		if err := tracking.SetHistoryCity(ctx, p.EntryID, city); err != nil {
			log.Printf("[GeocodeHandler] failed to annotate entry %s: %v", p.EntryID, err)
			return err
		}
		return nil
	}
}

// monitorRedisConnection pings Redis periodically to detect failures at runtime.
func monitorRedisConnection() {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisGeocodeDB,
	})

	ctx := context.Background()

	for {
		if err := client.Ping(ctx).Err(); err != nil {
			log.Printf("[GeocodeWorker] Redis connection lost: %v", err)
		}
		time.Sleep(10 * time.Second)
	}
}
