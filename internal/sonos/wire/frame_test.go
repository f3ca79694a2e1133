package wire

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestEncodeFrame_RoundTrip(t *testing.T) {
	header := &CommandMessage{
		Namespace:   "groups:1",
		Command:     "getGroups",
		CmdID:       "cmd-123",
		HouseholdID: "Sonos_HH1",
	}
	data, err := EncodeFrame(header, map[string]any{"includeDeviceInfo": true})
	if err != nil {
		t.Fatalf("EncodeFrame() error = %v", err)
	}

	var parts []json.RawMessage
	if err := json.Unmarshal(data, &parts); err != nil {
		t.Fatalf("frame is not a JSON array: %v", err)
	}
	if len(parts) != 2 {
		t.Fatalf("frame has %d elements, want 2", len(parts))
	}

	var decoded CommandMessage
	if err := json.Unmarshal(parts[0], &decoded); err != nil {
		t.Fatalf("decoding header: %v", err)
	}
	if decoded != *header {
		t.Errorf("decoded header = %+v, want %+v", decoded, *header)
	}
	if decoded.CmdID == "" {
		t.Error("decoded header has empty cmdId")
	}

	var body map[string]any
	if err := json.Unmarshal(parts[1], &body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body["includeDeviceInfo"] != true {
		t.Errorf("body = %v, want includeDeviceInfo=true", body)
	}
}

func TestEncodeFrame_NilBody(t *testing.T) {
	data, err := EncodeFrame(&CommandMessage{Namespace: "playback:1", Command: "play", GroupID: "G1"}, nil)
	if err != nil {
		t.Fatalf("EncodeFrame() error = %v", err)
	}

	header, body, err := DecodeFrameForTest(t, data)
	if err != nil {
		t.Fatalf("decoding frame: %v", err)
	}
	if header.Namespace != "playback:1" {
		t.Errorf("namespace = %q, want %q", header.Namespace, "playback:1")
	}
	if string(body) != "{}" {
		t.Errorf("nil body encoded as %s, want {}", body)
	}
}

// DecodeFrameForTest decodes an outgoing frame's header as a CommandMessage.
func DecodeFrameForTest(t *testing.T, data []byte) (*CommandMessage, json.RawMessage, error) {
	t.Helper()
	var parts []json.RawMessage
	if err := json.Unmarshal(data, &parts); err != nil {
		return nil, nil, err
	}
	if len(parts) != 2 {
		t.Fatalf("frame has %d elements, want 2", len(parts))
	}
	var header CommandMessage
	if err := json.Unmarshal(parts[0], &header); err != nil {
		return nil, nil, err
	}
	return &header, parts[1], nil
}

func TestDecodeFrame_CommandReply(t *testing.T) {
	raw := `[{"namespace":"groups:1","response":"getGroups","householdId":"HH1","cmdId":"abc","success":true},{"groups":[],"players":[]}]`

	header, body, err := DecodeFrame([]byte(raw))
	if err != nil {
		t.Fatalf("DecodeFrame() error = %v", err)
	}
	if !header.IsCommandReply() {
		t.Error("IsCommandReply() = false, want true")
	}
	if header.IsEvent() {
		t.Error("IsEvent() = true, want false")
	}
	if header.CmdID != "abc" {
		t.Errorf("CmdID = %q, want %q", header.CmdID, "abc")
	}
	if *header.Success != true {
		t.Error("Success = false, want true")
	}

	var groups Groups
	if err := json.Unmarshal(body, &groups); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
}

func TestDecodeFrame_FailedReplyIsStillReply(t *testing.T) {
	raw := `[{"namespace":"playback:1","response":"play","cmdId":"abc","success":false},{"errorCode":"ERROR_INVALID_PARAMETER"}]`

	header, _, err := DecodeFrame([]byte(raw))
	if err != nil {
		t.Fatalf("DecodeFrame() error = %v", err)
	}
	if !header.IsCommandReply() {
		t.Error("success:false reply not classified as command reply")
	}
}

func TestDecodeFrame_Event(t *testing.T) {
	raw := `[{"namespace":"playerVolume:1","type":"playerVolume","playerId":"P1","householdId":"HH1"},{"volume":25,"muted":false,"fixed":false}]`

	header, body, err := DecodeFrame([]byte(raw))
	if err != nil {
		t.Fatalf("DecodeFrame() error = %v", err)
	}
	if !header.IsEvent() {
		t.Error("IsEvent() = false, want true")
	}
	if header.IsCommandReply() {
		t.Error("IsCommandReply() = true, want false")
	}
	if got := header.ObjectID(); got != "P1" {
		t.Errorf("ObjectID() = %q, want %q", got, "P1")
	}

	var vol PlayerVolume
	if err := json.Unmarshal(body, &vol); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if vol.Volume != 25 {
		t.Errorf("volume = %d, want 25", vol.Volume)
	}
}

func TestDecodeFrame_Invalid(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"not json", `{{{`},
		{"not an array", `{"namespace":"groups:1"}`},
		{"one element", `[{"namespace":"groups:1"}]`},
		{"three elements", `[{},{},{}]`},
		{"bad header", `["header",{}]`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := DecodeFrame([]byte(tc.raw))
			if !errors.Is(err, ErrInvalidFrame) {
				t.Errorf("DecodeFrame(%q) error = %v, want ErrInvalidFrame", tc.raw, err)
			}
		})
	}
}

func TestResultMessage_NeitherReplyNorEvent(t *testing.T) {
	m := &ResultMessage{Namespace: "groups:1", HouseholdID: "HH1"}
	if m.IsCommandReply() || m.IsEvent() {
		t.Error("message with neither success nor type misclassified")
	}
}
