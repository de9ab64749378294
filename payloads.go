package main

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"github.com/codebotair/codebot/onboard"
)

//---
// Request payloads
//---

type LoginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (l *LoginPayload) Bind(r *http.Request) error {
	return nil
}

// CommandPayload carries exactly one command byte, the same alphabet the
// serial link accepts.
type CommandPayload struct {
	Command string `json:"command"`
}

func (c *CommandPayload) Bind(r *http.Request) error {
	if len(c.Command) != 1 {
		return errors.New("command must be a single byte")
	}
	return nil
}

//---
// Response payloads
//---

type JWTPayload struct {
	SignedToken string `json:"token"`
}

type AckPayload struct {
	Ack string `json:"ack"`
}

type StatePayload struct {
	onboard.BotState
}

//---
// Error responses
//---

type ErrResponse struct {
	Err            error `json:"-"`
	HTTPStatusCode int   `json:"-"`

	StatusText string `json:"status"`
	ErrorText  string `json:"error,omitempty"`
}

func (e *ErrResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.HTTPStatusCode)
	return nil
}

func ErrInvalidRequest(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusBadRequest,
		StatusText:     "Invalid request.",
		ErrorText:      err.Error(),
	}
}

func ErrRender(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusUnprocessableEntity,
		StatusText:     "Error rendering response.",
		ErrorText:      err.Error(),
	}
}

func ErrUnauthorized(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusUnauthorized,
		StatusText:     "Unauthorized.",
		ErrorText:      err.Error(),
	}
}

func ErrPermissionDenied(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusForbidden,
		StatusText:     "Permission denied.",
		ErrorText:      err.Error(),
	}
}

var ErrNotFound = &ErrResponse{HTTPStatusCode: http.StatusNotFound, StatusText: "Resource not found."}
