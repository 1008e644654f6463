package simulator

import (
	"fmt"
	"sync"
	"time"
)

// Memory is an in-memory simulator used by tests and the CLI's
// self-contained run mode. It records every actuator command in order and
// serves entity telemetry from values set by the caller.
//
// Signal IDs added to FailSignal reject actuator commands, which lets
// tests exercise the controllers' best-effort application policy.
type Memory struct {
	mu sync.Mutex

	egoName    string
	clock      time.Duration
	velocities map[string]float64
	poses      map[string]Pose

	commands    []Command
	failSignals map[int]bool

	// Signal state after replaying the command log.
	colors map[int]string
	arrows map[int][]string
}

// NewMemory creates an in-memory simulator with the given ego vehicle name.
func NewMemory(egoName string) *Memory {
	return &Memory{
		egoName:     egoName,
		velocities:  make(map[string]float64),
		poses:       make(map[string]Pose),
		failSignals: make(map[int]bool),
		colors:      make(map[int]string),
		arrows:      make(map[int][]string),
	}
}

// Advance moves the simulation clock forward by d.
func (m *Memory) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clock += d
}

// SetVelocity sets the reported velocity for an entity.
func (m *Memory) SetVelocity(name string, velocity float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.velocities[name] = velocity
}

// SetPose sets the reported pose for an entity.
func (m *Memory) SetPose(name string, pose Pose) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.poses[name] = pose
}

// FailSignal makes all subsequent actuator commands for the given signal
// return an error.
func (m *Memory) FailSignal(signalID int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failSignals[signalID] = true
}

// Commands returns a copy of the recorded actuator command log.
func (m *Memory) Commands() []Command {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Command, len(m.commands))
	copy(out, m.commands)
	return out
}

// ResetCommands clears the recorded command log.
func (m *Memory) ResetCommands() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.commands = m.commands[:0]
}

// Color returns the last applied color for a signal, or empty if reset.
func (m *Memory) Color(signalID int) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.colors[signalID]
}

// Arrows returns the arrows currently lit on a signal.
func (m *Memory) Arrows(signalID int) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.arrows[signalID]))
	copy(out, m.arrows[signalID])
	return out
}

func (m *Memory) record(cmd Command) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Record the attempt even when it fails; the controller's best-effort
	// policy keeps issuing subsequent commands.
	m.commands = append(m.commands, cmd)

	if m.failSignals[cmd.SignalID] {
		return fmt.Errorf("signal %d rejected command %s", cmd.SignalID, cmd.Op)
	}

	switch cmd.Op {
	case OpSetColor:
		m.colors[cmd.SignalID] = cmd.Arg
	case OpResetColor:
		delete(m.colors, cmd.SignalID)
	case OpSetArrow:
		m.arrows[cmd.SignalID] = append(m.arrows[cmd.SignalID], cmd.Arg)
	case OpResetArrows:
		delete(m.arrows, cmd.SignalID)
	}
	return nil
}

// SetTrafficLightColor implements API.
func (m *Memory) SetTrafficLightColor(signalID int, color string) error {
	return m.record(Command{Op: OpSetColor, SignalID: signalID, Arg: color})
}

// ResetTrafficLightColor implements API.
func (m *Memory) ResetTrafficLightColor(signalID int) error {
	return m.record(Command{Op: OpResetColor, SignalID: signalID})
}

// SetTrafficLightArrow implements API.
func (m *Memory) SetTrafficLightArrow(signalID int, arrow string) error {
	return m.record(Command{Op: OpSetArrow, SignalID: signalID, Arg: arrow})
}

// ResetTrafficLightArrows implements API.
func (m *Memory) ResetTrafficLightArrows(signalID int) error {
	return m.record(Command{Op: OpResetArrows, SignalID: signalID})
}

// SimulationTime implements API.
func (m *Memory) SimulationTime() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.clock
}

// IsEgoName implements API.
func (m *Memory) IsEgoName(name string) bool {
	return name == m.egoName
}

// Velocity implements API.
func (m *Memory) Velocity() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.velocities[m.egoName]
}

// NPCVelocity implements API.
func (m *Memory) NPCVelocity(name string) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.velocities[name]
	if !ok {
		return 0, fmt.Errorf("unknown NPC %q", name)
	}
	return v, nil
}

// EntityPose implements API.
func (m *Memory) EntityPose(name string) (Pose, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.poses[name]
	if !ok {
		return Pose{}, fmt.Errorf("unknown entity %q", name)
	}
	return p, nil
}
