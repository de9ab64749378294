package hardware

import (
	"strconv"

	"gobot.io/x/gobot/drivers/gpio"
	"gobot.io/x/gobot/platforms/raspi"
)

// PinConfig holds the header pin numbers for one side of the bridge.
type PinConfig struct {
	In1 int `yaml:"in1"`
	In2 int `yaml:"in2"`
	En  int `yaml:"en"`
}

// NewRaspiDrive binds the bridge to the Pi header through gobot direct pin
// drivers. The adaptor configures each pin as an output on first write.
func NewRaspiDrive(left, right PinConfig) (h *HBridge, err error) {
	adaptor := raspi.NewAdaptor()
	if err = adaptor.Connect(); err != nil {
		return
	}

	pin := func(p int) *gpio.DirectPinDriver {
		return gpio.NewDirectPinDriver(adaptor, strconv.Itoa(p))
	}

	return NewHBridge(
		MotorPins{In1: pin(left.In1), In2: pin(left.In2), En: pin(left.En)},
		MotorPins{In1: pin(right.In1), In2: pin(right.In2), En: pin(right.En)},
	)
}
