package types

import wire "github.com/Thechi2000/were-legends/pkg/types"

const FrameDirectives = "directives"

// ServerMessage is one websocket frame.
type ServerMessage struct {
	Type       string           `json:"type"`
	Directives []wire.Directive `json:"directives"`
}
