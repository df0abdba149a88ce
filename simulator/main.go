// Command simulator publishes synthetic EV telemetry to an MQTT broker so the
// prediction service can be exercised without real vehicles.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

func main() {
	cfg := parseFlags()
	if err := (&cfg).Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fleet := GenerateFleet(cfg)
	log.Printf("simulating %d vehicles against %s", len(fleet), cfg.Broker)

	var wg sync.WaitGroup
	for _, v := range fleet {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := v.Run(ctx, cfg.Interval); err != nil {
				log.Printf("%s: %v", v.ID, err)
			}
		}()
	}
	wg.Wait()
}
