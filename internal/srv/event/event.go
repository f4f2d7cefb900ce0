package event

import (
	"github.com/jypelle/radiobot/internal/srv/config"
	"github.com/jypelle/radiobot/internal/srv/station"
	"github.com/jypelle/radiobot/internal/srv/voice"
)

// Voice host
type VoiceEvent struct {
	Data interface{}
}

type VoiceEventConnectedData struct{}

type VoiceEventTextMessageData struct {
	FromId   voice.ClientId
	FromName string
	Text     string
	Private  bool
	Ignored  bool
}

type VoiceEventClientMoveData struct {
	ClientId     voice.ClientId
	OldChannelId voice.ChannelId
	NewChannelId voice.ChannelId
}

type VoiceEventClientMovedByData struct {
	ClientId     voice.ClientId
	OldChannelId voice.ChannelId
	NewChannelId voice.ChannelId
	MoverId      voice.ClientId
}

type VoiceEventClientKickedData struct {
	ClientId     voice.ClientId
	OldChannelId voice.ChannelId
	NewChannelId voice.ChannelId
	KickerId     voice.ClientId
}

// Param file
type ConfigEvent struct {
	Data interface{}
}

type ConfigEventParamChangedData struct {
	ServerParam *config.ServerParam
}

// Api
type ApiEvent struct {
	Result chan ApiResult
	Data   interface{}
}

type ApiResult struct {
	Value interface{}
	Err   error
}

type ApiEventStationListData struct{}

type ApiEventStationPlayData struct {
	Index station.Index
}

type ApiEventNowPlayingData struct{}

type ApiEventTracksRefreshData struct{}
