package model

// VehicleSpec holds the physical constants of a vehicle platform used by the
// physics power model.
type VehicleSpec struct {
	MassKg        float64 // curb mass plus nominal payload
	DragArea      float64 // Cd*A in m^2
	RollingResist float64 // rolling resistance coefficient
	DriveEff      float64 // drivetrain efficiency in (0,1]
	BatteryKWh    float64 // usable battery capacity
	Description   string
}

// specs is the static vehicle table. Unknown vehicle types fall back to
// DefaultVehicleType, never an error.
var specs = map[string]VehicleSpec{
	"BEV1": {MassKg: 1900, DragArea: 0.59, RollingResist: 0.01, DriveEff: 0.88, BatteryKWh: 60.5, Description: "Tesla Model Y SR"},
	"BEV2": {MassKg: 2000, DragArea: 0.59, RollingResist: 0.01, DriveEff: 0.88, BatteryKWh: 78.8, Description: "Tesla Model Y LR"},
}

// DefaultVehicleType is used when the caller omits or misspells the vehicle type.
const DefaultVehicleType = "BEV1"

// SpecFor returns the spec for the given vehicle type, falling back to the
// default spec for unknown ids.
func SpecFor(vehicleType string) VehicleSpec {
	if s, ok := specs[vehicleType]; ok {
		return s
	}
	return specs[DefaultVehicleType]
}

// VehicleTypes lists the known vehicle type ids.
func VehicleTypes() []string {
	return []string{"BEV1", "BEV2"}
}
