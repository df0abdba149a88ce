package main

import (
	"testing"
	"time"
)

func TestGenerateFleet(t *testing.T) {
	cfg := Config{Broker: "tcp://localhost:1883", Count: 3, Interval: time.Second, VehicleType: "BEV2"}
	fleet := GenerateFleet(cfg)
	if len(fleet) != 3 {
		t.Fatalf("expected 3 vehicles, got %d", len(fleet))
	}
	if fleet[0].ID != "veh0001" || fleet[2].ID != "veh0003" {
		t.Fatalf("unexpected ids: %s %s", fleet[0].ID, fleet[2].ID)
	}
	for _, v := range fleet {
		if soc := v.battery.SocPercent(); soc < 50 || soc > 90 {
			t.Errorf("%s: start soc %.1f out of expected band", v.ID, soc)
		}
	}
}

func TestBatteryApplyClamps(t *testing.T) {
	b := Battery{CapacityKWh: 10, Soc: 0.5}
	b.Apply(1000, 1) // drain far beyond capacity
	if got := b.SocPercent(); got != 2 {
		t.Fatalf("soc = %.1f, want clamp at 2", got)
	}
	b.Apply(-1000, 1) // regen beyond full
	if got := b.SocPercent(); got != 100 {
		t.Fatalf("soc = %.1f, want clamp at 100", got)
	}
}

func TestDriveCycleStaysInRange(t *testing.T) {
	v := NewSimulatedVehicle("veh0001", "tcp://localhost:1883", "BEV1", 42)
	startLat := v.latitude
	for i := 0; i < 500; i++ {
		v.step(time.Second)
		if v.speedKmh < 0 || v.speedKmh > 130 {
			t.Fatalf("speed %.1f out of range at step %d", v.speedKmh, i)
		}
	}
	if v.latitude <= startLat {
		t.Error("vehicle should have moved north")
	}
}
