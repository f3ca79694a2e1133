package wire

// PlayBackState enumerates the playback states a group can report.
type PlayBackState string

const (
	PlayBackStateIdle      PlayBackState = "PLAYBACK_STATE_IDLE"
	PlayBackStateBuffering PlayBackState = "PLAYBACK_STATE_BUFFERING"
	PlayBackStatePaused    PlayBackState = "PLAYBACK_STATE_PAUSED"
	PlayBackStatePlaying   PlayBackState = "PLAYBACK_STATE_PLAYING"
)

// Capability enumerates device capabilities reported in discovery data.
type Capability string

const (
	CapabilityCloud            Capability = "CLOUD"
	CapabilityPlayback         Capability = "PLAYBACK"
	CapabilityAirplay          Capability = "AIRPLAY"
	CapabilityLineIn           Capability = "LINE_IN"
	CapabilityVoice            Capability = "VOICE"
	CapabilityAudioClip        Capability = "AUDIO_CLIP"
	CapabilityMicrophoneSwitch Capability = "MICROPHONE_SWITCH"
)

// Group is the wire representation of a player group.
//
// CoordinatorID and PlayerIDs together define membership: a player belongs to
// the group whose PlayerIDs contain it, or whose CoordinatorID equals it.
type Group struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	CoordinatorID string        `json:"coordinatorId"`
	PlaybackState PlayBackState `json:"playbackState,omitempty"`
	PlayerIDs     []string      `json:"playerIds"`
	AreaIDs       []string      `json:"areaIds,omitempty"`
}

// Player is the wire representation of a player.
type Player struct {
	ID              string       `json:"id"`
	Name            string       `json:"name"`
	Icon            string       `json:"icon,omitempty"`
	WebsocketURL    string       `json:"websocketUrl,omitempty"`
	SoftwareVersion string       `json:"softwareVersion,omitempty"`
	APIVersion      string       `json:"apiVersion,omitempty"`
	MinAPIVersion   string       `json:"minApiVersion,omitempty"`
	Devices         []DeviceInfo `json:"devices,omitempty"`
}

// Groups is the body of a groups reply or event: the full household snapshot.
type Groups struct {
	Groups  []Group  `json:"groups"`
	Players []Player `json:"players"`
	Partial bool     `json:"partial,omitempty"`
}

// DeviceInfo describes a physical device backing a player.
type DeviceInfo struct {
	ID               string       `json:"id"`
	PrimaryDeviceID  string       `json:"primaryDeviceId,omitempty"`
	SerialNumber     string       `json:"serialNumber,omitempty"`
	ModelDisplayName string       `json:"modelDisplayName,omitempty"`
	Name             string       `json:"name,omitempty"`
	Color            string       `json:"color,omitempty"`
	Capabilities     []Capability `json:"capabilities,omitempty"`
	SoftwareVersion  string       `json:"softwareVersion,omitempty"`
	HWVersion        string       `json:"hwVersion,omitempty"`
	SWGen            int          `json:"swGen,omitempty"`
}

// DiscoveryInfo is the response of the player's local HTTP info endpoint,
// consumed once to resolve the websocket connection parameters.
type DiscoveryInfo struct {
	Device       DeviceInfo `json:"device"`
	HouseholdID  string     `json:"householdId"`
	LocationID   string     `json:"locationId,omitempty"`
	PlayerID     string     `json:"playerId"`
	GroupID      string     `json:"groupId,omitempty"`
	WebsocketURL string     `json:"websocketUrl"`
	RestURL      string     `json:"restUrl,omitempty"`
}

// PlayerVolume is the body of playerVolume replies and events.
type PlayerVolume struct {
	Volume int  `json:"volume"`
	Muted  bool `json:"muted"`
	Fixed  bool `json:"fixed"`
}

// GroupVolume is the body of groupVolume replies and events.
type GroupVolume struct {
	Volume int  `json:"volume"`
	Muted  bool `json:"muted"`
	Fixed  bool `json:"fixed"`
}

// PlayModes holds the play-mode toggles of a group. Pointers model fields the
// player may omit; nil means "not reported".
type PlayModes struct {
	Crossfade *bool `json:"crossfade,omitempty"`
	Repeat    *bool `json:"repeat,omitempty"`
	RepeatOne *bool `json:"repeatOne,omitempty"`
	Shuffle   *bool `json:"shuffle,omitempty"`
}

// PlaybackActions reports which transport controls a group currently accepts.
type PlaybackActions struct {
	CanSkipForward  bool `json:"canSkipForward"`
	CanSkipBackward bool `json:"canSkipBack"`
	CanPlay         bool `json:"canPlay"`
	CanPause        bool `json:"canPause"`
	CanStop         bool `json:"canStop"`
	CanSeek         bool `json:"canSeek"`
}

// PlaybackStatus is the body of playbackStatus replies and events.
type PlaybackStatus struct {
	PlaybackState            PlayBackState   `json:"playbackState"`
	PositionMillis           int64           `json:"positionMillis,omitempty"`
	PlayModes                PlayModes       `json:"playModes"`
	AvailablePlaybackActions PlaybackActions `json:"availablePlaybackActions"`
}

// AudioClipPriority enumerates audio clip priorities.
type AudioClipPriority string

const (
	AudioClipPriorityLow  AudioClipPriority = "LOW"
	AudioClipPriorityHigh AudioClipPriority = "HIGH"
)

// AudioClipType enumerates audio clip types.
type AudioClipType string

const (
	AudioClipTypeChime          AudioClipType = "CHIME"
	AudioClipTypeCustom         AudioClipType = "CUSTOM"
	AudioClipTypeVoiceAssistant AudioClipType = "VOICE_ASSISTANT"
)

// AudioClipStatus enumerates the lifecycle states of an audio clip.
type AudioClipStatus string

const (
	AudioClipStatusActive      AudioClipStatus = "ACTIVE"
	AudioClipStatusDone        AudioClipStatus = "DONE"
	AudioClipStatusDismissed   AudioClipStatus = "DISMISSED"
	AudioClipStatusInactive    AudioClipStatus = "INACTIVE"
	AudioClipStatusInterrupted AudioClipStatus = "INTERRUPTED"
	AudioClipStatusError       AudioClipStatus = "ERROR"
)

// AudioClip is the reply body of loadAudioClip and an element of
// audioClipStatus events.
type AudioClip struct {
	ID       string            `json:"id"`
	Name     string            `json:"name,omitempty"`
	AppID    string            `json:"appId,omitempty"`
	Priority AudioClipPriority `json:"priority,omitempty"`
	ClipType AudioClipType     `json:"clipType,omitempty"`
	Status   AudioClipStatus   `json:"status,omitempty"`
}

// AudioClipStatusEvent is the body of an audioClipStatus event.
type AudioClipStatusEvent struct {
	AudioClips []AudioClip `json:"audioClips"`
}
