package device

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/jypelle/radiobot/apimodel"
	"github.com/jypelle/radiobot/internal/mpris"
	"github.com/jypelle/radiobot/internal/srv/config"
	"github.com/jypelle/radiobot/internal/srv/event"
	"github.com/jypelle/radiobot/internal/srv/station"
	"github.com/jypelle/radiobot/internal/tool"
	"github.com/sirupsen/logrus"
)

type Api struct {
	eventChannel chan event.ApiEvent

	router    *mux.Router
	apiRouter *mux.Router
	server    *http.Server

	config *config.ServerConfig
}

func NewApi(config *config.ServerConfig) *Api {
	api := Api{
		config:       config,
		eventChannel: make(chan event.ApiEvent),
	}

	api.router = mux.NewRouter().StrictSlash(false)

	// API Routes
	api.apiRouter = api.router.PathPrefix("/api").Subrouter()
	api.apiRouter.NotFoundHandler = http.HandlerFunc(ErrorNotFoundAction)
	api.apiRouter.MethodNotAllowedHandler = http.HandlerFunc(ErrorMethodNotAllowedAction)

	// Auth middleware
	api.apiRouter.Use(
		func(handler http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				defer func() {
					if rec := recover(); rec != nil {
						logrus.Warningf("recovered from panic : [%v] - stack trace : \n [%s]", rec, debug.Stack())
						GlobalErrorAction(w, fmt.Sprintf("%v", rec), http.StatusInternalServerError)
					}
				}()

				apiKey := r.Header.Get("x-api-key")
				if apiKey != config.ServerParam.ApiParam.ApiKey {
					ErrorStatusAction(w, r, http.StatusForbidden)
					return
				}

				logrus.Debugf("PATH: %s %s", r.Host, r.URL.Path)

				handler.ServeHTTP(w, r)
			})
		})

	api.apiRouter.HandleFunc("/is_alive",
		func(w http.ResponseWriter, r *http.Request) {
			ErrorStatusAction(w, r, http.StatusOK)
		}).Methods("GET")
	api.apiRouter.HandleFunc("/stations",
		func(w http.ResponseWriter, r *http.Request) {
			result := api.ask(event.ApiEventStationListData{})
			if result.Err != nil {
				GlobalErrorAction(w, result.Err.Error(), http.StatusInternalServerError)
				return
			}
			stations, _ := result.Value.([]station.Station)
			list := make([]apimodel.Station, len(stations))
			for i, s := range stations {
				list[i] = apimodel.Station{Index: i, Key: s.Key, Command: s.Command, Title: s.Title}
			}
			sendJson(w, list)
		}).Methods("GET")
	api.apiRouter.HandleFunc("/station/play/{index}",
		func(w http.ResponseWriter, r *http.Request) {
			indexStr, ok := mux.Vars(r)["index"]
			if !ok {
				ErrorStatusAction(w, r, http.StatusBadRequest)
				return
			}
			index, err := strconv.ParseInt(indexStr, 10, 0)
			if err != nil {
				ErrorStatusAction(w, r, http.StatusBadRequest)
				return
			}
			result := api.ask(event.ApiEventStationPlayData{Index: station.Index(index)})
			switch {
			case result.Err == nil:
				ErrorStatusAction(w, r, http.StatusOK)
			case errors.Is(result.Err, mpris.ErrInvalidIndex):
				GlobalErrorAction(w, result.Err.Error(), http.StatusNotFound)
			default:
				GlobalErrorAction(w, result.Err.Error(), http.StatusBadGateway)
			}
		}).Methods("POST")
	api.apiRouter.HandleFunc("/song",
		func(w http.ResponseWriter, r *http.Request) {
			result := api.ask(event.ApiEventNowPlayingData{})
			song, ok := result.Value.(string)
			if result.Err != nil || !ok {
				GlobalErrorAction(w, "No song name available", http.StatusNotFound)
				return
			}
			sendJson(w, apimodel.NowPlaying{Song: song})
		}).Methods("GET")
	api.apiRouter.HandleFunc("/tracks/refresh",
		func(w http.ResponseWriter, r *http.Request) {
			result := api.ask(event.ApiEventTracksRefreshData{})
			if result.Err != nil {
				GlobalErrorAction(w, result.Err.Error(), http.StatusBadGateway)
				return
			}
			trackCount, _ := result.Value.(int)
			sendJson(w, apimodel.TrackList{TrackCount: trackCount})
		}).Methods("POST")

	// Tell the browser that it's OK for JS to communicate with the server
	headersOk := handlers.AllowedHeaders([]string{"Authorization", "x-api-key"})
	originsOk := handlers.AllowedOrigins([]string{"*"})
	methodsOk := handlers.AllowedMethods([]string{"GET", "POST", "OPTIONS"})

	api.server = &http.Server{
		Addr:         ":" + strconv.FormatInt(config.ServerParam.ApiParam.SslPort, 10),
		Handler:      handlers.CompressHandler(handlers.CORS(originsOk, headersOk, methodsOk)(api.router)),
		ReadTimeout:  time.Second * 240,
		WriteTimeout: time.Second * 240,
		IdleTimeout:  time.Second * 240,
	}

	return &api
}

func (d *Api) ask(data interface{}) event.ApiResult {
	result := make(chan event.ApiResult)
	d.eventChannel <- event.ApiEvent{Result: result, Data: data}
	return <-result
}

func (d *Api) Start() {
	logrus.Infof("Start api device")

	err := tool.EnsureTlsCertificate(
		"jypelle",
		"Radiobot Server",
		d.config.GetCompleteKeyFilename(),
		d.config.GetCompleteCertFilename(),
		[]string{})
	if err != nil {
		logrus.Errorf("Unable to prepare cert and key files, api disabled: %v", err)
		return
	}

	// Launch https server
	go func() {
		err := d.server.ListenAndServeTLS(d.config.GetCompleteCertFilename(), d.config.GetCompleteKeyFilename())
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Error(err)
		}
	}()
}

func (d *Api) StopSendingEvent() {
	logrus.Infof("Stop api device")
	d.server.Shutdown(context.Background())
}

func (d *Api) EventChannel() chan event.ApiEvent {
	return d.eventChannel
}

// Handler is the full http handler, middlewares included.
func (d *Api) Handler() http.Handler {
	return d.server.Handler
}

func sendJson(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.Warnf("Unable to encode response: %v", err)
	}
}

func ErrorNotFoundAction(w http.ResponseWriter, r *http.Request) {
	ErrorStatusAction(w, r, http.StatusNotFound)
}

func ErrorMethodNotAllowedAction(w http.ResponseWriter, r *http.Request) {
	ErrorStatusAction(w, r, http.StatusMethodNotAllowed)
}

func ErrorStatusAction(w http.ResponseWriter, r *http.Request, status int) {
	ErrorMessageAction(w, "", status)
}

func GlobalErrorAction(w http.ResponseWriter, message string, status int) {
	ErrorMessageAction(w, message, status)
}

func ErrorMessageAction(w http.ResponseWriter, title string, status int) {
	apimodel.ErrorMessage{
		ErrStatusCode: status,
		ErrMessage:    title,
	}.SendError(w)
}
