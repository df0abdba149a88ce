package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/serikch/evpredict/config"
	"github.com/serikch/evpredict/core/predict"
	"github.com/serikch/evpredict/core/recommend"
	"github.com/serikch/evpredict/core/session"
	"github.com/serikch/evpredict/infra/logger"
)

var predictFlags struct {
	vehicleType string
	speed       float64
	accel       float64
	slope       float64
	temp        float64
	soc         float64
}

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Run a one-shot prediction from the command line",
	RunE:  predictOnce,
}

func init() {
	f := predictCmd.Flags()
	f.StringVar(&predictFlags.vehicleType, "vehicle", "BEV1", "vehicle type")
	f.Float64Var(&predictFlags.speed, "speed", 0, "speed in km/h")
	f.Float64Var(&predictFlags.accel, "accel", 0, "acceleration in m/s^2")
	f.Float64Var(&predictFlags.slope, "slope", 0, "road grade in percent")
	f.Float64Var(&predictFlags.temp, "temp", 15, "ambient temperature in Celsius")
	f.Float64Var(&predictFlags.soc, "soc", 50, "state of charge in percent")
	rootCmd.AddCommand(predictCmd)
}

// predictOnce evaluates a single feature set without touching the trained
// model artifact, so it works offline.
func predictOnce(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logg := logger.New("predict-command")
	store := session.New(cfg.Sessions.Store(), logg)
	engine := predict.New(nil, store, recommend.New(cfg.Recommend), nil, nil, logg)

	res := engine.Predict(predict.Request{
		VehicleType: predictFlags.vehicleType,
		Features: map[string]any{
			"speed_kmh":           predictFlags.speed,
			"acceleration":        predictFlags.accel,
			"slope":               predictFlags.slope,
			"VCFRONT_tempAmbient": predictFlags.temp,
			"SOCave292":           predictFlags.soc,
		},
	})

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}
