package chat

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jypelle/radiobot/internal/mpris"
	"github.com/jypelle/radiobot/internal/srv/station"
	"github.com/jypelle/radiobot/internal/srv/voice"
	"github.com/sirupsen/logrus"
)

// MaxReplyLength is the longest reply sent to the host, in bytes.
const MaxReplyLength = 255

const (
	helpCommand = "!help"
	listCommand = "!list"
	songCommand = "!song"
)

type Player interface {
	GotoTrack(index int) error
	NowPlaying() (string, bool)
}

// Room tells where the bot currently is.
type Room interface {
	OwnClientId() voice.ClientId
	CurrentChannelId() voice.ChannelId
}

type Message struct {
	FromId   voice.ClientId
	FromName string
	Text     string
	// Private is false for channel and server wide messages.
	Private bool
	// Ignored is set when the host flags the sender as ignored.
	Ignored bool
}

type Dispatcher struct {
	lock     sync.RWMutex
	host     voice.Host
	room     Room
	player   Player
	stations *station.Table
}

func NewDispatcher(host voice.Host, room Room, player Player, stations *station.Table) *Dispatcher {
	return &Dispatcher{
		host:     host,
		room:     room,
		player:   player,
		stations: stations,
	}
}

func (d *Dispatcher) SetStations(stations *station.Table) {
	d.lock.Lock()
	defer d.lock.Unlock()
	d.stations = stations
}

// Handle answers one chat message. It returns false when the message is not
// meant for the bot.
func (d *Dispatcher) Handle(msg Message) bool {
	if msg.FromId == d.room.OwnClientId() || msg.Ignored || !msg.Private {
		return false
	}

	d.lock.RLock()
	stations := d.stations
	d.lock.RUnlock()

	log := logrus.WithFields(logrus.Fields{
		"request": uuid.NewString(),
		"from":    msg.FromName,
	})
	log.Debugf("Received %q", msg.Text)

	senderChannelId, err := d.host.ChannelOfClient(msg.FromId)
	if err != nil {
		log.Errorf("Unable to find channel of client %d: %v", msg.FromId, err)
		return true
	}
	if senderChannelId != d.room.CurrentChannelId() {
		d.reply(log, msg.FromId, fmt.Sprintf("Sorry %s, I can only respond to clients in the same room.", msg.FromName))
		return true
	}

	command := strings.TrimSpace(msg.Text)
	switch command {
	case helpCommand, listCommand:
		d.send(log, msg.FromId, HelpText(stations))
	case songCommand:
		d.song(log, msg.FromId)
	default:
		index, s, ok := stations.ByCommand(command)
		if !ok {
			d.reply(log, msg.FromId, "Unknown command. Type !list or !help to see available commands.")
			return true
		}
		d.tune(log, msg.FromId, index, s)
	}
	return true
}

func (d *Dispatcher) song(log *logrus.Entry, to voice.ClientId) {
	song, ok := d.player.NowPlaying()
	if !ok {
		log.Warnf("Failed to retrieve song name")
		d.reply(log, to, "Sorry, got unexpected error while getting current song :c")
		return
	}
	log.Infof("Currently playing: %s", song)
	d.reply(log, to, fmt.Sprintf("[b]Currently playing:[/b] [i]%s[/i]", song))
}

func (d *Dispatcher) tune(log *logrus.Entry, to voice.ClientId, index station.Index, s station.Station) {
	err := d.player.GotoTrack(int(index))
	switch {
	case err == nil:
		log.Infof("Changed to station %d (%s)", index, s.Key)
		d.reply(log, to, fmt.Sprintf("Tuning into %s station!", s.Title))
	case errors.Is(err, mpris.ErrInvalidIndex):
		log.Warnf("Station %s is not in the player track list: %v", s.Key, err)
		d.reply(log, to, fmt.Sprintf("Sorry, %s station is not available right now :c", s.Title))
	default:
		log.Errorf("Unable to change to station %s: %v", s.Key, err)
		d.reply(log, to, fmt.Sprintf("Sorry, got unexpected error while tuning into %s station :c", s.Title))
	}
}

func (d *Dispatcher) reply(log *logrus.Entry, to voice.ClientId, text string) {
	d.send(log, to, Truncate(text, MaxReplyLength))
}

func (d *Dispatcher) send(log *logrus.Entry, to voice.ClientId, text string) {
	if err := d.host.SendPrivateText(to, text); err != nil {
		log.Errorf("Unable to reply to client %d: %v", to, err)
	}
}

// HelpText lists the available commands. It is sent as is, without the
// reply length limit.
func HelpText(stations *station.Table) string {
	var b strings.Builder
	b.WriteString("Available commands:\n")
	b.WriteString("!list or !help - Display this help message\n")
	b.WriteString("!song - Current song name")
	for _, s := range stations.Stations() {
		fmt.Fprintf(&b, "\n%s - %s station", s.Command, s.Title)
	}
	return b.String()
}

// Truncate cuts s to at most max bytes without splitting a rune.
func Truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
