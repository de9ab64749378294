package hardware

// Direction of a single motor as encoded on its H-bridge input pair.
type Direction uint8

const (
	DIR_OFF Direction = iota
	DIR_FORWARD
	DIR_REVERSE
)

// MotorOutput is the last state driven onto one side of the bridge.
type MotorOutput struct {
	Direction Direction
	Speed     uint8
}

type DriveState struct {
	Left, Right MotorOutput
}

type DriveInterface interface {
	Forward(speed uint8) error
	Backward(speed uint8) error
	TurnLeft(speed uint8) error
	TurnRight(speed uint8) error
	Stop() error
	GetState() (state DriveState)
}

// DigitalWriter and PwmWriter match the gobot gpio pin drivers, so the
// bridge can run against recording fakes off-target.
type DigitalWriter interface {
	DigitalWrite(level byte) (err error)
}

type PwmWriter interface {
	PwmWrite(level byte) (err error)
}

// MotorPins are the three bridge inputs for one motor: two direction
// lines and one PWM enable line.
type MotorPins struct {
	In1, In2 DigitalWriter
	En       PwmWriter
}

type MotorFault struct {
	Motor string
	Err   error
}

func (err MotorFault) Error() string {
	return "motor " + err.Motor + ": " + err.Err.Error()
}

// HBridge drives a dual H-bridge through six output lines. Every operation
// rewrites both direction pairs before it returns, so an observer never
// sees a torn update.
type HBridge struct {
	left, right MotorPins
	state       DriveState
}

// NewHBridge wires up both motor channels and drives them to the stop
// state before returning.
func NewHBridge(left, right MotorPins) (h *HBridge, err error) {
	h = &HBridge{left: left, right: right}
	err = h.Stop()
	return
}

// levels maps a direction onto the IN1/IN2 line levels. This is the only
// place directions become pin levels; the both-high combination shorts the
// bridge and has no entry here.
func (d Direction) levels() (in1, in2 byte) {
	switch d {
	case DIR_FORWARD:
		return 1, 0
	case DIR_REVERSE:
		return 0, 1
	default:
		return 0, 0
	}
}

func (h *HBridge) set(left, right Direction, speed uint8) (err error) {
	if err = writeMotor(h.left, left, speed); err != nil {
		return MotorFault{"left", err}
	}
	if err = writeMotor(h.right, right, speed); err != nil {
		return MotorFault{"right", err}
	}

	h.state = DriveState{
		Left:  MotorOutput{left, speed},
		Right: MotorOutput{right, speed},
	}
	return
}

func writeMotor(pins MotorPins, dir Direction, speed uint8) (err error) {
	in1, in2 := dir.levels()

	// direction lines settle before the enable line carries any duty
	if err = pins.In1.DigitalWrite(in1); err != nil {
		return
	}
	if err = pins.In2.DigitalWrite(in2); err != nil {
		return
	}
	return pins.En.PwmWrite(speed)
}

func (h *HBridge) Forward(speed uint8) error {
	return h.set(DIR_FORWARD, DIR_FORWARD, speed)
}

func (h *HBridge) Backward(speed uint8) error {
	return h.set(DIR_REVERSE, DIR_REVERSE, speed)
}

// TurnLeft pivots in place: left track runs in reverse, right forward.
func (h *HBridge) TurnLeft(speed uint8) error {
	return h.set(DIR_REVERSE, DIR_FORWARD, speed)
}

func (h *HBridge) TurnRight(speed uint8) error {
	return h.set(DIR_FORWARD, DIR_REVERSE, speed)
}

// Stop zeroes both duty cycles and lets the motors coast.
func (h *HBridge) Stop() error {
	return h.set(DIR_OFF, DIR_OFF, 0)
}

func (h *HBridge) GetState() (state DriveState) {
	return h.state
}
