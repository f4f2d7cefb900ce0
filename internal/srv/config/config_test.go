package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jypelle/radiobot/internal/srv/station"
)

func TestNewServerConfigCreatesDefault(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "radiobot")

	sc := NewServerConfig(configDir, false)

	if _, err := os.Stat(sc.GetCompleteParamFilename()); err != nil {
		t.Fatalf("param file not written: %v", err)
	}
	if sc.PlayerParam.BusName != "org.mpris.MediaPlayer2.vlc" {
		t.Errorf("bus name = %q", sc.PlayerParam.BusName)
	}
	if sc.PlayerParam.NowPlayingKey != "vlc:nowplaying" {
		t.Errorf("now playing key = %q", sc.PlayerParam.NowPlayingKey)
	}
	if sc.VoiceParam.DefaultChannelId != 12304 {
		t.Errorf("default channel = %d", sc.VoiceParam.DefaultChannelId)
	}
	if sc.ApiParam.Enabled {
		t.Error("api should be disabled by default")
	}

	table, err := sc.StationTable()
	if err != nil {
		t.Fatal(err)
	}
	if table.Len() != station.Default().Len() {
		t.Errorf("station count = %d", table.Len())
	}

	reloaded := NewServerConfig(configDir, false)
	if reloaded.VoiceParam.DefaultChannelId != 12304 {
		t.Errorf("reloaded default channel = %d", reloaded.VoiceParam.DefaultChannelId)
	}
}

func TestParseParamStations(t *testing.T) {
	param, err := ParseParam([]byte(`
voice:
  default_channel_id: 7
stations:
  - key: Jazz
    command: "!jazz"
    title: Smooth Jazz
  - key: Rock
    command: "!rock"
`))
	if err != nil {
		t.Fatal(err)
	}

	table, err := param.StationTable()
	if err != nil {
		t.Fatal(err)
	}
	if table.Len() != 2 {
		t.Fatalf("station count = %d", table.Len())
	}
	index, s, ok := table.ByCommand("!rock")
	if !ok || index != 1 || s.Title != "Rock" {
		t.Errorf("got (%d, %+v, %v)", index, s, ok)
	}
}

func TestParseParamRejectsBadStations(t *testing.T) {
	_, err := ParseParam([]byte(`
stations:
  - key: Jazz
    command: jazz
`))
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestLoadParamMissingFile(t *testing.T) {
	if _, err := LoadParam(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error")
	}
}
