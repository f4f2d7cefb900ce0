package device

import (
	"errors"
	"sync"

	"github.com/godbus/dbus/v5"
	"github.com/jypelle/radiobot/internal/mpris"
	"github.com/jypelle/radiobot/internal/srv/config"
	"github.com/sirupsen/logrus"
)

var ErrPlayerNotConnected = errors.New("player not connected")

// Player owns the session bus connection and the MPRIS client bound to it.
type Player struct {
	lock   sync.RWMutex
	param  config.PlayerParam
	conn   *dbus.Conn
	client *mpris.Client
}

func NewPlayer(param config.PlayerParam) *Player {
	return &Player{param: param}
}

// NewPlayerWithClient wraps an existing client, without any bus connection.
func NewPlayerWithClient(client *mpris.Client) *Player {
	return &Player{client: client}
}

func (d *Player) Start() {
	logrus.Infof("Start player device")

	d.lock.Lock()
	defer d.lock.Unlock()

	if d.client != nil {
		return
	}

	logrus.Infof("Connecting to session bus ...")
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		logrus.Errorf("Unable to connect to session bus: %v", err)
		return
	}

	client, err := mpris.Connect(conn, d.param.BusName, d.param.ObjectPath, d.param.NowPlayingKey)
	if err != nil {
		logrus.Errorf("Unable to reach player: %v", err)
		conn.Close()
		return
	}
	d.conn = conn
	d.client = client
}

func (d *Player) Stop() {
	logrus.Infof("Stop player device")

	d.lock.Lock()
	defer d.lock.Unlock()

	if d.conn != nil {
		if err := d.conn.Close(); err != nil {
			logrus.Warnf("Unable to close session bus connection: %v", err)
		}
		d.conn = nil
	}
	d.client = nil
}

func (d *Player) currentClient() *mpris.Client {
	d.lock.RLock()
	defer d.lock.RUnlock()
	return d.client
}

// EnumerateTracks refreshes the track list and returns its length.
func (d *Player) EnumerateTracks() (int, error) {
	client := d.currentClient()
	if client == nil {
		return 0, ErrPlayerNotConnected
	}
	tracks, err := client.EnumerateTracks()
	if err != nil {
		return 0, err
	}
	logrus.Infof("Player track list holds %d tracks", len(tracks))
	return len(tracks), nil
}

func (d *Player) GotoTrack(index int) error {
	client := d.currentClient()
	if client == nil {
		return ErrPlayerNotConnected
	}
	return client.GotoTrack(index)
}

func (d *Player) NowPlaying() (string, bool) {
	client := d.currentClient()
	if client == nil {
		logrus.Warnf("Unable to read current song: %v", ErrPlayerNotConnected)
		return "", false
	}
	return client.NowPlaying()
}

func (d *Player) TrackCount() int {
	client := d.currentClient()
	if client == nil {
		return 0
	}
	return client.TrackCount()
}
