package wire

import (
	"encoding/json"
	"errors"
	"fmt"
)

// frameParts is the fixed element count of a wire frame: [header, body].
const frameParts = 2

// ErrInvalidFrame is returned when a received frame is not the expected
// two-element [header, body] JSON array, or fails to parse.
var ErrInvalidFrame = errors.New("wire: invalid frame")

// EncodeFrame marshals a command header and body into a [header, body] frame.
//
// A nil body is encoded as an empty object, which the API requires even for
// commands that take no parameters.
func EncodeFrame(header *CommandMessage, body any) ([]byte, error) {
	if body == nil {
		body = struct{}{}
	}
	frame := [frameParts]any{header, body}
	data, err := json.Marshal(frame)
	if err != nil {
		return nil, fmt.Errorf("encoding frame: %w", err)
	}
	return data, nil
}

// DecodeFrame parses a received frame into its header and raw body.
//
// The body is left as raw JSON; the namespace owning the message decodes it
// into the appropriate model.
func DecodeFrame(data []byte) (*ResultMessage, json.RawMessage, error) {
	var parts []json.RawMessage
	if err := json.Unmarshal(data, &parts); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrInvalidFrame, err)
	}
	if len(parts) != frameParts {
		return nil, nil, fmt.Errorf("%w: expected %d elements, got %d", ErrInvalidFrame, frameParts, len(parts))
	}

	var header ResultMessage
	if err := json.Unmarshal(parts[0], &header); err != nil {
		return nil, nil, fmt.Errorf("%w: header: %w", ErrInvalidFrame, err)
	}

	return &header, parts[1], nil
}
