package onboard

import (
	"fmt"
	"io"
	"sync"

	"github.com/codebotair/codebot/onboard/hardware"
)

const (
	SPEED_INITIAL = 180
	SPEED_STEP    = 20
	SPEED_MIN     = 60
	SPEED_MAX     = 255

	ACK_READY    = "CODEBOT_READY"
	ACK_PING     = "CODEBOT_OK"
	ACK_FORWARD  = "FORWARD"
	ACK_BACKWARD = "BACKWARD"
	ACK_LEFT     = "LEFT"
	ACK_RIGHT    = "RIGHT"
	ACK_STOP     = "STOP"
)

// Interpreter owns the duty cycle value and maps single byte commands onto
// the drive. The same instance serves every input source; the lock keeps
// the serial loop and remote dispatch from interleaving an update.
type Interpreter struct {
	drive hardware.DriveInterface
	speed uint8
	lock  *sync.Mutex
}

func NewInterpreter(drive hardware.DriveInterface) *Interpreter {
	return &Interpreter{
		drive: drive,
		speed: SPEED_INITIAL,
		lock:  new(sync.Mutex),
	}
}

// Exec applies one command byte and returns the acknowledgment line for
// it. Bytes outside the command set return an empty ack and touch nothing.
// Letter commands are accepted in either case.
func (i *Interpreter) Exec(cmd byte) (ack string, err error) {
	i.lock.Lock()
	defer i.lock.Unlock()

	switch cmd {
	case 'F', 'f':
		return ACK_FORWARD, i.drive.Forward(i.speed)

	case 'B', 'b':
		return ACK_BACKWARD, i.drive.Backward(i.speed)

	case 'L', 'l':
		return ACK_LEFT, i.drive.TurnLeft(i.speed)

	case 'R', 'r':
		return ACK_RIGHT, i.drive.TurnRight(i.speed)

	case 'S', 's':
		// the stored duty survives a stop; the next directional
		// command resumes at it
		return ACK_STOP, i.drive.Stop()

	case '+':
		if i.speed > SPEED_MAX-SPEED_STEP {
			i.speed = SPEED_MAX
		} else {
			i.speed += SPEED_STEP
		}
		return fmt.Sprintf("SPEED:%d", i.speed), nil

	case '-':
		if i.speed < SPEED_MIN+SPEED_STEP {
			i.speed = SPEED_MIN
		} else {
			i.speed -= SPEED_STEP
		}
		return fmt.Sprintf("SPEED:%d", i.speed), nil

	case '?':
		return ACK_PING, nil
	}

	return "", nil
}

// Speed reports the current duty cycle value.
func (i *Interpreter) Speed() uint8 {
	i.lock.Lock()
	defer i.lock.Unlock()
	return i.speed
}

// Announce drives the outputs to the stop state and prints the ready
// banner. Runs once before the read loop starts.
func (i *Interpreter) Announce(out io.Writer) (err error) {
	if err = i.drive.Stop(); err != nil {
		return
	}
	_, err = fmt.Fprintln(out, ACK_READY)
	return
}

// Run polls the stream for command bytes until it is exhausted or stop is
// closed. At most one command is applied per iteration and bytes are taken
// strictly in arrival order. A read that yields no byte, such as a serial
// timeout, just spins the loop again.
func (i *Interpreter) Run(in io.Reader, out io.Writer, stop <-chan struct{}) error {
	buf := make([]byte, 1)
	for {
		select {
		case <-stop:
			return nil
		default:
		}

		n, err := in.Read(buf)
		if n > 0 {
			ack, cerr := i.Exec(buf[0])
			if cerr != nil {
				return cerr
			}
			if ack != "" {
				if _, werr := fmt.Fprintln(out, ack); werr != nil {
					return werr
				}
			}
		}

		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}
