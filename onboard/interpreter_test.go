package onboard

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/codebotair/codebot/onboard/hardware"
)

func TestCommandDispatch(t *testing.T) {
	sim := NewSimulatedDrive()
	interp := NewInterpreter(sim)

	cases := []struct {
		cmd         byte
		ack         string
		left, right hardware.Direction
	}{
		{'F', ACK_FORWARD, hardware.DIR_FORWARD, hardware.DIR_FORWARD},
		{'f', ACK_FORWARD, hardware.DIR_FORWARD, hardware.DIR_FORWARD},
		{'B', ACK_BACKWARD, hardware.DIR_REVERSE, hardware.DIR_REVERSE},
		{'b', ACK_BACKWARD, hardware.DIR_REVERSE, hardware.DIR_REVERSE},
		{'L', ACK_LEFT, hardware.DIR_REVERSE, hardware.DIR_FORWARD},
		{'l', ACK_LEFT, hardware.DIR_REVERSE, hardware.DIR_FORWARD},
		{'R', ACK_RIGHT, hardware.DIR_FORWARD, hardware.DIR_REVERSE},
		{'r', ACK_RIGHT, hardware.DIR_FORWARD, hardware.DIR_REVERSE},
	}

	for _, c := range cases {
		Convey(fmt.Sprintf("command %q acks %s and sets both pairs", c.cmd, c.ack), t, func() {
			ack, err := interp.Exec(c.cmd)
			So(err, ShouldBeNil)
			So(ack, ShouldEqual, c.ack)

			state := sim.GetState()
			So(state.Left, ShouldResemble, hardware.MotorOutput{Direction: c.left, Speed: SPEED_INITIAL})
			So(state.Right, ShouldResemble, hardware.MotorOutput{Direction: c.right, Speed: SPEED_INITIAL})
		})
	}

	Convey("stop acks STOP and releases the outputs", t, func() {
		ack, err := interp.Exec('s')
		So(err, ShouldBeNil)
		So(ack, ShouldEqual, ACK_STOP)

		state := sim.GetState()
		So(state.Left, ShouldResemble, hardware.MotorOutput{Direction: hardware.DIR_OFF, Speed: 0})
		So(state.Right, ShouldResemble, hardware.MotorOutput{Direction: hardware.DIR_OFF, Speed: 0})

		Convey("without clearing the stored duty", func() {
			So(interp.Speed(), ShouldEqual, SPEED_INITIAL)
		})
	})
}

func TestSpeedAdjustment(t *testing.T) {
	Convey("speed starts at the initial duty", t, func() {
		interp := NewInterpreter(NewSimulatedDrive())
		So(interp.Speed(), ShouldEqual, 180)

		Convey("one step up acks the new value", func() {
			ack, err := interp.Exec('+')
			So(err, ShouldBeNil)
			So(ack, ShouldEqual, "SPEED:200")
			So(interp.Speed(), ShouldEqual, 200)

			Convey("and pins at the ceiling", func() {
				for n := 0; n < 5; n++ {
					ack, _ = interp.Exec('+')
				}
				So(ack, ShouldEqual, "SPEED:255")
				So(interp.Speed(), ShouldEqual, 255)

				ack, _ = interp.Exec('+')
				So(ack, ShouldEqual, "SPEED:255")
			})
		})

		Convey("stepping down pins at the floor", func() {
			var ack string
			for n := 0; n < 6; n++ {
				ack, _ = interp.Exec('-')
			}
			So(ack, ShouldEqual, "SPEED:60")
			So(interp.Speed(), ShouldEqual, 60)

			ack, _ = interp.Exec('-')
			So(ack, ShouldEqual, "SPEED:60")
			So(interp.Speed(), ShouldEqual, 60)
		})

		Convey("every reachable value stays inside the limits", func() {
			for _, cmd := range []byte("++++++++------------++++") {
				interp.Exec(cmd)
				So(interp.Speed(), ShouldBeBetweenOrEqual, SPEED_MIN, SPEED_MAX)
			}
		})

		Convey("a directional command uses the adjusted duty", func() {
			sim := NewSimulatedDrive()
			interp := NewInterpreter(sim)

			interp.Exec('+')
			interp.Exec('F')
			So(sim.GetState().Left.Speed, ShouldEqual, 200)
		})
	})
}

func TestInertCommands(t *testing.T) {
	sim := NewSimulatedDrive()
	interp := NewInterpreter(sim)
	interp.Exec('L')
	before := sim.GetState()

	Convey("the ping command acks without touching any state", t, func() {
		ack, err := interp.Exec('?')
		So(err, ShouldBeNil)
		So(ack, ShouldEqual, ACK_PING)
		So(sim.GetState(), ShouldResemble, before)
		So(interp.Speed(), ShouldEqual, SPEED_INITIAL)
	})

	Convey("unrecognized bytes produce no ack and no change", t, func() {
		for _, cmd := range []byte{'X', '1', 0x00, '\n', ' '} {
			ack, err := interp.Exec(cmd)
			So(err, ShouldBeNil)
			So(ack, ShouldEqual, "")
			So(sim.GetState(), ShouldResemble, before)
			So(interp.Speed(), ShouldEqual, SPEED_INITIAL)
		}
	})
}

func TestAnnounce(t *testing.T) {
	Convey("announce stops the drive and emits the banner", t, func() {
		sim := NewSimulatedDrive()
		interp := NewInterpreter(sim)
		sim.Forward(255) // pretend the outputs floated high on boot

		var out bytes.Buffer
		So(interp.Announce(&out), ShouldBeNil)

		So(out.String(), ShouldEqual, "CODEBOT_READY\n")
		So(sim.GetState().Left.Speed, ShouldEqual, 0)
	})
}

func TestRunLoop(t *testing.T) {
	Convey("the loop drains bytes in arrival order, one per iteration", t, func() {
		sim := NewSimulatedDrive()
		interp := NewInterpreter(sim)

		in := bytes.NewReader([]byte("F+?xS"))
		var out bytes.Buffer

		So(interp.Run(in, &out, nil), ShouldBeNil)

		lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
		So(lines, ShouldResemble, []string{"FORWARD", "SPEED:200", "CODEBOT_OK", "STOP"})

		Convey("leaving the drive in the state of the last command", func() {
			So(sim.GetState().Left.Direction, ShouldEqual, hardware.DIR_OFF)
		})
	})

	Convey("a closed stop channel ends the loop before the next read", t, func() {
		interp := NewInterpreter(NewSimulatedDrive())

		stop := make(chan struct{})
		close(stop)

		in := bytes.NewReader([]byte("F"))
		var out bytes.Buffer
		So(interp.Run(in, &out, stop), ShouldBeNil)
		So(out.Len(), ShouldEqual, 0)
	})
}

func TestDriveThenStopScenario(t *testing.T) {
	Convey("F then S follows the documented sequence", t, func() {
		sim := NewSimulatedDrive()
		interp := NewInterpreter(sim)

		ack, _ := interp.Exec('F')
		So(ack, ShouldEqual, "FORWARD")
		So(sim.GetState().Left, ShouldResemble, hardware.MotorOutput{Direction: hardware.DIR_FORWARD, Speed: 180})
		So(sim.GetState().Right, ShouldResemble, hardware.MotorOutput{Direction: hardware.DIR_FORWARD, Speed: 180})

		ack, _ = interp.Exec('S')
		So(ack, ShouldEqual, "STOP")
		So(sim.GetState().Left, ShouldResemble, hardware.MotorOutput{Direction: hardware.DIR_OFF, Speed: 0})
		So(sim.GetState().Right, ShouldResemble, hardware.MotorOutput{Direction: hardware.DIR_OFF, Speed: 0})
	})
}
