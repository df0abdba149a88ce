// Package features defines the canonical feature encoding consumed by the
// trained regressor and builds feature maps from raw sensor samples.
package features

// Order is the canonical feature ordering, used whenever the trained model
// does not declare its own expected ordering.
var Order = []string{
	"speed_kmh", "speed2", "speed3", "acceleration", "slope",
	"slope_abs", "elevation_diff", "VCFRONT_tempAmbient", "temp_range",
	"SOCave292", "soc_delta",
	"speed_x_slope", "speed2_x_slope", "speed_x_slope_abs",
	"accel_x_speed", "accel_x_speed2", "total_effort",
	"speed_roll_mean_10", "speed_roll_std_10", "speed_roll_max_10",
	"speed_roll_min_10", "accel_roll_mean_5", "accel_roll_std_5",
	"slope_roll_mean_20",
	"is_accelerating", "is_braking", "is_coasting", "regen_potential",
	"cumul_elevation_gain", "cumul_elevation_loss", "time_since_stop",
	"speed_regime", "slope_category", "temp_category",
	"accel_per_speed", "slope_per_speed",
}
