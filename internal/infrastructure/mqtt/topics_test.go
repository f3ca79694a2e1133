package mqtt

import "testing"

func TestTopicBuilders(t *testing.T) {
	topics := Topics{Prefix: "sonos"}

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"player state", topics.PlayerState("RINCON_123"), "sonos/player/RINCON_123/state"},
		{"player volume", topics.PlayerVolume("RINCON_123"), "sonos/player/RINCON_123/volume"},
		{"group state", topics.GroupState("RINCON_123:201"), "sonos/group/RINCON_123:201/state"},
		{"system status", topics.SystemStatus(), "sonos/system/status"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestTopicBuilders_DefaultPrefix(t *testing.T) {
	topics := Topics{}
	if got := topics.SystemStatus(); got != DefaultTopicPrefix+"/system/status" {
		t.Errorf("SystemStatus() = %q, want default prefix", got)
	}
}

func TestTopicBuilders_CustomPrefix(t *testing.T) {
	topics := Topics{Prefix: "home/audio"}
	if got := topics.PlayerVolume("P1"); got != "home/audio/player/P1/volume" {
		t.Errorf("PlayerVolume() = %q", got)
	}
}
