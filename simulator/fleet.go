package main

import (
	"fmt"
	"time"
)

// GenerateFleet creates count vehicles with IDs veh0001..vehNNNN.
func GenerateFleet(cfg Config) []*SimulatedVehicle {
	if cfg.Count <= 0 {
		return nil
	}
	vs := make([]*SimulatedVehicle, cfg.Count)
	for i := 0; i < cfg.Count; i++ {
		id := fmt.Sprintf("veh%04d", i+1)
		v := NewSimulatedVehicle(id, cfg.Broker, cfg.VehicleType, time.Now().UnixNano()+int64(i))
		v.Verbose = cfg.Verbose
		vs[i] = v
	}
	return vs
}
