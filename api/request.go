package api

import (
	"net/http"

	"github.com/logpile/logpile/utils"

	log "github.com/sirupsen/logrus"
)

// Request wraps http.Request with parsed paging params
type Request struct {
	http.Request
	Start int
	Limit int
}

// NewRequest .
func NewRequest(r *http.Request) *Request {
	req := &Request{Request: *r, Start: 0, Limit: 20}
	req.Init()
	log.Debugf("[api] HTTP request %s %s", req.Method, req.URL.Path)
	return req
}

// Init .
func (r *Request) Init() {
	r.Start = utils.Atoi(r.URL.Query().Get("start"), 0)
	r.Limit = utils.Atoi(r.URL.Query().Get("limit"), 20)
}
