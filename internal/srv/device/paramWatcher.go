package device

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/jypelle/radiobot/internal/srv/config"
	"github.com/jypelle/radiobot/internal/srv/event"
	"github.com/sirupsen/logrus"
)

const paramReloadDelay = 500 * time.Millisecond

// ParamWatcher reloads the param file when it changes on disk.
type ParamWatcher struct {
	lock         sync.Mutex
	eventChannel chan event.ConfigEvent

	filename    string
	watcher     *fsnotify.Watcher
	reloadTimer *time.Timer

	sendEvent bool
	askDone   chan bool
	done      chan bool
}

func NewParamWatcher(filename string) *ParamWatcher {
	return &ParamWatcher{
		eventChannel: make(chan event.ConfigEvent),
		filename:     filename,
		sendEvent:    true,
		askDone:      make(chan bool),
		done:         make(chan bool),
	}
}

func (d *ParamWatcher) Start() {
	logrus.Infof("Start param watcher device")

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		logrus.Warnf("Unable to watch param file: %v", err)
		return
	}
	// Editors often replace the file, so the folder is watched.
	if err := watcher.Add(filepath.Dir(d.filename)); err != nil {
		logrus.Warnf("Unable to watch %s: %v", filepath.Dir(d.filename), err)
		watcher.Close()
		return
	}

	d.lock.Lock()
	d.watcher = watcher
	d.lock.Unlock()

	go func() {
		for loop := true; loop; {
			select {
			case ev, ok := <-watcher.Events:
				if !ok {
					loop = false
					break
				}
				if filepath.Clean(ev.Name) != filepath.Clean(d.filename) {
					continue
				}
				if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) != 0 {
					d.scheduleReload()
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					loop = false
					break
				}
				logrus.Warnf("Param watcher error: %v", err)
			case <-d.askDone:
				loop = false
			}
		}
		d.done <- true
	}()
}

func (d *ParamWatcher) StopSendingEvent() {
	logrus.Infof("Stop param watcher device")

	d.lock.Lock()
	watcher := d.watcher
	d.sendEvent = false
	if d.reloadTimer != nil {
		d.reloadTimer.Stop()
	}
	d.lock.Unlock()

	if watcher != nil {
		d.askDone <- true
		<-d.done
		watcher.Close()
	}
}

func (d *ParamWatcher) EventChannel() chan event.ConfigEvent {
	return d.eventChannel
}

func (d *ParamWatcher) scheduleReload() {
	d.lock.Lock()
	defer d.lock.Unlock()

	if d.reloadTimer == nil {
		d.reloadTimer = time.AfterFunc(paramReloadDelay, d.reload)
	} else {
		d.reloadTimer.Reset(paramReloadDelay)
	}
}

func (d *ParamWatcher) reload() {
	serverParam, err := config.LoadParam(d.filename)
	if err != nil {
		logrus.Warnf("Ignoring param file change: %v", err)
		return
	}
	logrus.Infof("Param file %s reloaded", d.filename)

	d.lock.Lock()
	sendEvent := d.sendEvent
	d.lock.Unlock()

	if sendEvent {
		d.eventChannel <- event.ConfigEvent{Data: event.ConfigEventParamChangedData{ServerParam: serverParam}}
	}
}
