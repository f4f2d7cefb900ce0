package srv

import (
	"os"

	"github.com/jypelle/radiobot/internal/srv/chat"
	"github.com/jypelle/radiobot/internal/srv/config"
	"github.com/jypelle/radiobot/internal/srv/device"
	"github.com/jypelle/radiobot/internal/srv/station"
	"github.com/jypelle/radiobot/internal/srv/voice"
	"github.com/jypelle/radiobot/internal/version"
	"github.com/sirupsen/logrus"
)

type ServerApp struct {
	*config.ServerConfig
	playerDevice       *device.Player
	consoleDevice      *device.Console
	apiDevice          *device.Api
	paramWatcherDevice *device.ParamWatcher

	presence   *voice.Presence
	dispatcher *chat.Dispatcher
	stations   *station.Table

	eventLoopAskDone chan bool
	eventLoopDone    chan bool
}

func NewServerApp(configDir string, debugMode bool) *ServerApp {

	logrus.Debugf("Creation of radiobot server %s ...", version.AppVersion.String())

	app := &ServerApp{
		eventLoopAskDone: make(chan bool),
		eventLoopDone:    make(chan bool),
		ServerConfig:     config.NewServerConfig(configDir, debugMode),
	}

	stations, err := app.StationTable()
	if err != nil {
		logrus.Fatalf("Unable to build station table: %v", err)
	}
	app.stations = stations

	defaultChannelId := voice.ChannelId(app.VoiceParam.DefaultChannelId)
	app.playerDevice = device.NewPlayer(app.PlayerParam)
	app.consoleDevice = device.NewConsole(os.Stdin, os.Stdout, "console", defaultChannelId)
	app.apiDevice = device.NewApi(app.ServerConfig)
	app.paramWatcherDevice = device.NewParamWatcher(app.GetCompleteParamFilename())

	app.presence = voice.NewPresence(app.consoleDevice, defaultChannelId)
	app.dispatcher = chat.NewDispatcher(app.consoleDevice, app.presence, app.playerDevice, app.stations)

	logrus.Debugln("Server created")

	return app
}

func (s *ServerApp) Start() {
	logrus.Printf("Starting radiobot server ...")

	logrus.Printf("Starting devices ...")

	// Connect to the player and read its playlist
	s.playerDevice.Start()
	s.refreshTracks()

	// Start event loop
	go s.eventLoop()

	// Start voice host
	s.consoleDevice.Start()

	// Start api device
	if s.ApiParam.Enabled {
		s.apiDevice.Start()
	}

	// Start param watcher
	s.paramWatcherDevice.Start()
}

func (s *ServerApp) Stop() {
	logrus.Printf("Stopping radiobot server ...")

	s.paramWatcherDevice.StopSendingEvent()

	if s.ApiParam.Enabled {
		s.apiDevice.StopSendingEvent()
	}

	s.consoleDevice.StopSendingEvent()

	// Stop event loop
	logrus.Infof("Stop event loop")
	s.eventLoopAskDone <- true
	<-s.eventLoopDone

	s.playerDevice.Stop()

	logrus.Printf("Server stopped")
}

// refreshTracks enumerates the player's tracks and checks that every station
// has a track to point at.
func (s *ServerApp) refreshTracks() (int, error) {
	trackCount, err := s.playerDevice.EnumerateTracks()
	if err != nil {
		logrus.Errorf("Unable to enumerate player tracks: %v", err)
		return 0, err
	}
	for _, st := range s.stations.Unreachable(trackCount) {
		logrus.Warnf("Station %s (%s) has no track in the player playlist", st.Key, st.Command)
	}
	return trackCount, nil
}
