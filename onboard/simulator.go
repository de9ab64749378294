package onboard

import "github.com/codebotair/codebot/onboard/hardware"

// SimulatedDrive stands in for the H-bridge off-target. It records the
// most recent output state so tests and the dev shell can inspect what
// would have hit the pins.
type SimulatedDrive struct {
	state hardware.DriveState
}

func NewSimulatedDrive() (sim *SimulatedDrive) {
	sim = new(SimulatedDrive)
	sim.Stop()
	return
}

func (s *SimulatedDrive) set(left, right hardware.Direction, speed uint8) error {
	s.state = hardware.DriveState{
		Left:  hardware.MotorOutput{Direction: left, Speed: speed},
		Right: hardware.MotorOutput{Direction: right, Speed: speed},
	}
	return nil
}

func (s *SimulatedDrive) Forward(speed uint8) error {
	return s.set(hardware.DIR_FORWARD, hardware.DIR_FORWARD, speed)
}

func (s *SimulatedDrive) Backward(speed uint8) error {
	return s.set(hardware.DIR_REVERSE, hardware.DIR_REVERSE, speed)
}

func (s *SimulatedDrive) TurnLeft(speed uint8) error {
	return s.set(hardware.DIR_REVERSE, hardware.DIR_FORWARD, speed)
}

func (s *SimulatedDrive) TurnRight(speed uint8) error {
	return s.set(hardware.DIR_FORWARD, hardware.DIR_REVERSE, speed)
}

func (s *SimulatedDrive) Stop() error {
	return s.set(hardware.DIR_OFF, hardware.DIR_OFF, 0)
}

func (s *SimulatedDrive) GetState() (state hardware.DriveState) {
	return s.state
}
