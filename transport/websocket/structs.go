package websocket

import (
	"encoding/json"

	"github.com/rocketscienceinc/markboard-backend/internal/entity"
	"github.com/rocketscienceinc/markboard-backend/internal/render"
)

// frame represents a WebSocket frame and its metadata.
type frame struct {
	isFin   bool   // final fragment of the message
	opCode  byte   // frame type (text, close and so on)
	length  uint64 // payload length in bytes
	payload []byte // payload bytes as sent on the wire
}

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Payload is the body of every request and response. Cell is a pointer so that
// cell 0 is distinguishable from an absent cell.
type Payload struct {
	Session *entity.Session `json:"session,omitempty"`
	Cells   []render.Cell   `json:"cells,omitempty"`
	Cell    *int            `json:"cell,omitempty"`
	Error   string          `json:"error,omitempty"`
}
