package apimodel

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"
)

type ErrorMessage struct {
	ErrStatusCode int    `json:"status_code"`
	ErrMessage    string `json:"message"`
}

func (e *ErrorMessage) StatusCode() int {
	return e.ErrStatusCode
}

func (e *ErrorMessage) Title() string {
	return e.ErrMessage
}

func (e *ErrorMessage) Error() string {
	if e.ErrMessage != "" {
		return strconv.Itoa(e.ErrStatusCode) + ":" + e.ErrMessage
	} else {
		return strconv.Itoa(e.ErrStatusCode)
	}
}

// SendError writes the message as a JSON body with its status code. An empty
// message is replaced by the standard wording of the status.
func (v ErrorMessage) SendError(w http.ResponseWriter) {
	if v.ErrMessage == "" {
		switch v.ErrStatusCode {
		case http.StatusOK:
			v.ErrMessage = "Ok"
		case http.StatusNotFound:
			v.ErrMessage = "Page not found"
		case http.StatusMethodNotAllowed:
			v.ErrMessage = "Method not allowed"
		case http.StatusForbidden:
			v.ErrMessage = "Forbidden"
		case http.StatusServiceUnavailable:
			v.ErrMessage = "Service unavailable"
		case http.StatusBadRequest:
			v.ErrMessage = "Bad request"
		default:
			v.ErrMessage = "Internal error"
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(v.ErrStatusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.Warnf("error when encoding error: %v", err)
	}
}
