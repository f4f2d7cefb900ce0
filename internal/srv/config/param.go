package config

import (
	_ "embed"

	"github.com/jypelle/radiobot/internal/srv/station"
)

//go:embed param_default.yaml
var ParamDefaultFile []byte

type ServerParam struct {
	PlayerParam PlayerParam       `yaml:"player"`
	VoiceParam  VoiceParam        `yaml:"voice"`
	ApiParam    ApiParam          `yaml:"api"`
	Stations    []station.Station `yaml:"stations,omitempty"`
}

type PlayerParam struct {
	BusName       string `yaml:"bus_name"`
	ObjectPath    string `yaml:"object_path"`
	NowPlayingKey string `yaml:"now_playing_key"`
}

type VoiceParam struct {
	DefaultChannelId uint64 `yaml:"default_channel_id"`
}

type ApiParam struct {
	Enabled bool   `yaml:"enabled"`
	SslPort int64  `yaml:"ssl_port"`
	ApiKey  string `yaml:"api_key"`
}

// StationTable returns the configured stations, or the built-in table when
// none are configured.
func (sp *ServerParam) StationTable() (*station.Table, error) {
	if len(sp.Stations) == 0 {
		return station.Default(), nil
	}
	return station.NewTable(sp.Stations)
}
