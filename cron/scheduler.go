package cron

import (
	"encoding/json"
	"log"

	"fieldops/config"

	"github.com/hibiken/asynq"
)

// GeocodeScheduler enqueues enrichment tasks. Scheduling is fire and
// forget: a dead Redis only costs the city annotation, never the write.
type GeocodeScheduler struct {
	client *asynq.Client
}

// NewGeocodeScheduler builds the asynq client for enrichment tasks.
func NewGeocodeScheduler() *GeocodeScheduler {
	client := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisGeocodeDB,
	})
	return &GeocodeScheduler{client: client}
}

// Schedule queues a geocode:enrich task for one history entry.
func (s *GeocodeScheduler) Schedule(technician, entryID string, lat, lon float64) {
	payload, err := json.Marshal(GeocodePayload{
		Technician: technician,
		EntryID:    entryID,
		Latitude:   lat,
		Longitude:  lon,
	})
	if err != nil {
		log.Printf("[GeocodeScheduler] failed to marshal payload: %v", err)
		return
	}

	task := asynq.NewTask(TypeGeocodeEnrich, payload)
	if _, err := s.client.Enqueue(task, asynq.MaxRetry(3)); err != nil {
		log.Printf("[GeocodeScheduler] failed to enqueue enrichment for %s: %v", entryID, err)
	}
}

// Close releases the underlying client.
func (s *GeocodeScheduler) Close() error {
	return s.client.Close()
}
