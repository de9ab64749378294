package onboard

import (
	"fmt"

	"github.com/Masterminds/semver"
	"github.com/codebotair/codebot/onboard/hardware"
)

const (
	// PROTOCOL_VERSION constrains which config revisions this build
	// will drive hardware for.
	PROTOCOL_VERSION = "~1.0.0"

	DEFAULT_BAUD = 9600
)

// Codebot assembles the drive and interpreter described by a config.
type Codebot struct {
	Config CodebotConfig
	Drive  hardware.DriveInterface
	Interp *Interpreter
}

type BotState struct {
	Speed uint8
	Drive hardware.DriveState
}

func NewCodebot(config CodebotConfig, simulated bool) (bot *Codebot, err error) {
	if err = checkVersion(config.Version); err != nil {
		return
	}

	if config.Serial.Baud == 0 {
		config.Serial.Baud = DEFAULT_BAUD
	}

	var drive hardware.DriveInterface
	if simulated {
		drive = NewSimulatedDrive()
	} else {
		drive, err = hardware.NewRaspiDrive(config.Motors.Left, config.Motors.Right)
		if err != nil {
			return
		}
	}

	bot = &Codebot{
		Config: config,
		Drive:  drive,
		Interp: NewInterpreter(drive),
	}
	return
}

// checkVersion rejects configs written for a different protocol revision.
// The literal DEV opts a development board out of the check.
func checkVersion(version string) (err error) {
	if version == "DEV" {
		return nil
	}

	semVer, err := semver.NewVersion(version)
	if err != nil {
		return fmt.Errorf("config version %q is not a semver: %v", version, err)
	}

	constraint, err := semver.NewConstraint(PROTOCOL_VERSION)
	if err != nil {
		return
	}

	if !constraint.Check(semVer) {
		return fmt.Errorf("unable to use config version %s - require %s", version, PROTOCOL_VERSION)
	}
	return
}

// Command dispatches a single command byte and returns its ack.
func (b *Codebot) Command(cmd byte) (ack string, err error) {
	return b.Interp.Exec(cmd)
}

func (b *Codebot) GetState() (state BotState) {
	state.Speed = b.Interp.Speed()
	state.Drive = b.Drive.GetState()
	return
}
