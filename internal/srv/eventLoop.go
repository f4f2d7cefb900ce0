package srv

import (
	"github.com/jypelle/radiobot/internal/srv/chat"
	"github.com/jypelle/radiobot/internal/srv/event"
	"github.com/jypelle/radiobot/internal/srv/voice"
	"github.com/sirupsen/logrus"
)

func (s *ServerApp) eventLoop() {
	for loop := true; loop; {
		select {
		case ev := <-s.consoleDevice.EventChannel():
			s.handleVoiceEvent(ev)
		case ev := <-s.apiDevice.EventChannel():
			s.handleApiEvent(ev)
		case ev := <-s.paramWatcherDevice.EventChannel():
			switch data := ev.Data.(type) {
			case event.ConfigEventParamChangedData:
				s.applyParam(data)
			}
		case <-s.eventLoopAskDone:
			loop = false
		}
	}
	s.eventLoopDone <- true
}

func (s *ServerApp) handleVoiceEvent(ev event.VoiceEvent) {
	switch data := ev.Data.(type) {
	case event.VoiceEventConnectedData:
		if err := s.presence.Connected(); err != nil {
			logrus.Errorf("Unable to read own client state: %v", err)
		}
	case event.VoiceEventTextMessageData:
		s.dispatcher.Handle(chat.Message{
			FromId:   data.FromId,
			FromName: data.FromName,
			Text:     data.Text,
			Private:  data.Private,
			Ignored:  data.Ignored,
		})
	case event.VoiceEventClientMoveData:
		logrus.Debugf("Receive client move event: %d, %d -> %d", data.ClientId, data.OldChannelId, data.NewChannelId)
		s.presence.ClientMoved(data.ClientId, data.OldChannelId, data.NewChannelId)
	case event.VoiceEventClientMovedByData:
		logrus.Debugf("Receive client moved event: %d, %d -> %d by %d", data.ClientId, data.OldChannelId, data.NewChannelId, data.MoverId)
		s.presence.ClientMovedBy(data.ClientId, data.OldChannelId, data.NewChannelId, data.MoverId)
	case event.VoiceEventClientKickedData:
		logrus.Debugf("Receive client kicked event: %d from %d by %d", data.ClientId, data.OldChannelId, data.KickerId)
		s.presence.ClientKicked(data.ClientId, data.OldChannelId, data.NewChannelId, data.KickerId)
	}
}

func (s *ServerApp) handleApiEvent(ev event.ApiEvent) {
	var result event.ApiResult
	switch data := ev.Data.(type) {
	case event.ApiEventStationListData:
		result.Value = s.stations.Stations()
	case event.ApiEventStationPlayData:
		result.Err = s.playerDevice.GotoTrack(int(data.Index))
		if result.Err != nil {
			logrus.Warn(result.Err)
		}
	case event.ApiEventNowPlayingData:
		if song, ok := s.playerDevice.NowPlaying(); ok {
			result.Value = song
		}
	case event.ApiEventTracksRefreshData:
		result.Value, result.Err = s.refreshTracks()
	}
	ev.Result <- result
}

func (s *ServerApp) applyParam(data event.ConfigEventParamChangedData) {
	stations, err := data.ServerParam.StationTable()
	if err != nil {
		logrus.Warnf("Ignoring new stations: %v", err)
		return
	}
	s.stations = stations
	s.dispatcher.SetStations(stations)
	s.presence.SetDefaultChannelId(voice.ChannelId(data.ServerParam.VoiceParam.DefaultChannelId))
	logrus.Infof("Applied new param: %d stations, default channel %d", stations.Len(), data.ServerParam.VoiceParam.DefaultChannelId)

	s.refreshTracks()
}
