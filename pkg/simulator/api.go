package simulator

import (
	"fmt"
	"time"
)

// Pose is a 2D pose in the simulator's map frame.
type Pose struct {
	X   float64
	Y   float64
	Yaw float64
}

// API is the simulator surface the scenario engine depends on.
//
// It splits into two halves: traffic-signal actuator commands issued by
// intersection controllers, and entity telemetry queries issued by
// condition modules.
type API interface {
	// SetTrafficLightColor sets the color of the given signal.
	SetTrafficLightColor(signalID int, color string) error

	// ResetTrafficLightColor resets the given signal to its off/neutral
	// rendering.
	ResetTrafficLightColor(signalID int) error

	// SetTrafficLightArrow turns on one arrow lamp of the given signal.
	SetTrafficLightArrow(signalID int, arrow string) error

	// ResetTrafficLightArrows turns off all arrow lamps of the given signal.
	ResetTrafficLightArrows(signalID int) error

	// SimulationTime returns the elapsed simulation time.
	SimulationTime() time.Duration

	// IsEgoName reports whether name refers to the ego vehicle.
	IsEgoName(name string) bool

	// Velocity returns the ego vehicle's velocity in m/s.
	Velocity() float64

	// NPCVelocity returns the named NPC's velocity in m/s.
	NPCVelocity(name string) (float64, error)

	// EntityPose returns the named entity's pose.
	EntityPose(name string) (Pose, error)
}

// CommandOp identifies one actuator command kind in a recorded log.
type CommandOp string

const (
	OpSetColor    CommandOp = "set_color"
	OpResetColor  CommandOp = "reset_color"
	OpSetArrow    CommandOp = "set_arrow"
	OpResetArrows CommandOp = "reset_arrows"
)

// Command is one recorded actuator command.
type Command struct {
	Op       CommandOp
	SignalID int
	Arg      string // color or arrow name, empty for resets
}

// String returns a compact representation, e.g. "set_color(1, Green)".
func (c Command) String() string {
	if c.Arg == "" {
		return fmt.Sprintf("%s(%d)", c.Op, c.SignalID)
	}
	return fmt.Sprintf("%s(%d, %s)", c.Op, c.SignalID, c.Arg)
}
