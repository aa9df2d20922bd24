package robot

import (
	"fmt"
	"math"
)

// Motion is the balance telemetry returned by GET /data.
type Motion struct {
	Pitch    float64 `json:"pitch"`
	Velocity float64 `json:"velocity"`
}

// Battery is the power telemetry returned by GET /battery.
type Battery struct {
	ChargeSoc  float64 `json:"chargeSoc"` // state of charge, 0-100
	MotorPower float64 `json:"PM"`        // watts
	LogicPower float64 `json:"PL"`        // watts
}

// ChargeRounded formats the state of charge as a whole percentage, e.g. "88%".
func (b Battery) ChargeRounded() string {
	return fmt.Sprintf("%.0f%%", math.Round(b.ChargeSoc))
}

// ChargeDetail formats the state of charge with two decimals, e.g. "87.50%".
func (b Battery) ChargeDetail() string {
	return fmt.Sprintf("%.2f%%", b.ChargeSoc)
}

// ChargeFraction returns the state of charge clamped to [0, 1].
func (b Battery) ChargeFraction() float64 {
	return math.Max(0, math.Min(1, b.ChargeSoc/100))
}

func (b Battery) MotorPowerLabel() string {
	return fmt.Sprintf("%.2f W", b.MotorPower)
}

func (b Battery) LogicPowerLabel() string {
	return fmt.Sprintf("%.2f W", b.LogicPower)
}
