package wire

// CommandMessage is the header of an outgoing command frame.
//
// Namespace and Command address the operation (e.g. "groups:1"/"getGroups");
// CmdID correlates the eventual reply. Exactly one of the target fields
// (HouseholdID, GroupID, PlayerID) is set, depending on what the namespace
// operates on.
type CommandMessage struct {
	Namespace   string `json:"namespace"`
	Command     string `json:"command"`
	CmdID       string `json:"cmdId,omitempty"`
	SessionID   string `json:"sessionId,omitempty"`
	HouseholdID string `json:"householdId,omitempty"`
	GroupID     string `json:"groupId,omitempty"`
	PlayerID    string `json:"playerId,omitempty"`
}

// ResultMessage is the header of every incoming frame, covering both command
// replies and pushed events.
type ResultMessage struct {
	Namespace   string `json:"namespace"`
	Response    string `json:"response,omitempty"`
	Type        string `json:"type,omitempty"`
	HouseholdID string `json:"householdId,omitempty"`
	GroupID     string `json:"groupId,omitempty"`
	PlayerID    string `json:"playerId,omitempty"`
	SessionID   string `json:"sessionId,omitempty"`
	CmdID       string `json:"cmdId,omitempty"`

	// Success is present only on command replies. A pointer distinguishes
	// "absent" from "false": success:false is still a reply, just a failed one.
	Success *bool `json:"success,omitempty"`
}

// IsCommandReply reports whether the message is a reply to a sent command.
func (m *ResultMessage) IsCommandReply() bool {
	return m.Success != nil
}

// IsEvent reports whether the message is an unsolicited push event.
func (m *ResultMessage) IsEvent() bool {
	return m.Success == nil && m.Type != ""
}

// ErrorResponse is the body of a failed command reply (success:false).
type ErrorResponse struct {
	ErrorCode string `json:"errorCode"`
	Reason    string `json:"reason,omitempty"`
}

// ObjectID returns the identifier of the object an event concerns, preferring
// the most specific target field present in the header.
func (m *ResultMessage) ObjectID() string {
	switch {
	case m.PlayerID != "":
		return m.PlayerID
	case m.GroupID != "":
		return m.GroupID
	default:
		return m.HouseholdID
	}
}
