package main

import (
	"log"
	"net/http"

	"github.com/go-chi/render"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// State reports the current duty cycle and both motor outputs.
func State(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, StatePayload{ENV.Bot.GetState()})
}

// Command dispatches a single command byte and echoes the ack the serial
// link would have printed. Bytes outside the command set return an empty
// ack, matching the silent ignore on the wire.
func Command(w http.ResponseWriter, r *http.Request) {
	data := &CommandPayload{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}

	ack, err := ENV.Bot.Command(data.Command[0])
	if err != nil {
		render.Render(w, r, ErrRender(err))
		return
	}

	render.JSON(w, r, AckPayload{ack})
}

// CommandSocket relays websocket frames into the interpreter byte by byte
// and streams the acks back, one message per ack.
func CommandSocket(w http.ResponseWriter, r *http.Request) {
	c, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Print("upgrade:", err)
		return
	}
	defer c.Close()

	for {
		_, message, err := c.ReadMessage()
		if err != nil {
			log.Println("read:", err)
			break
		}

		for _, cmd := range message {
			ack, err := ENV.Bot.Command(cmd)
			if err != nil {
				log.Println("command:", err)
				return
			}
			if ack == "" {
				continue
			}

			if err = c.WriteMessage(websocket.TextMessage, []byte(ack)); err != nil {
				log.Println("write:", err)
				return
			}
		}
	}
}
