/*
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     https://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

package srv

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/greenlab/go-dmm/pkg/acquire"
	"github.com/greenlab/go-dmm/pkg/log"
)

const (
	ApiPort = 8005
)

// Status is the wire form of the controller progress.
type Status struct {
	State           string `json:"state"`
	SamplesDone     int    `json:"samples_done"`
	SamplesExpected int    `json:"samples_expected"`
}

// ApiServer exposes the state of a running acquisition and an abort hook.
// It observes the controller; it never drives the instrument itself, since
// one request at a time may be outstanding on the meter connection.
type ApiServer struct {
	context.Context
	*mux.Router
	ctrl   *acquire.Controller
	idn    string
	cancel context.CancelFunc
}

func NewApiServer(ctx context.Context, ctrl *acquire.Controller, idn string, cancel context.CancelFunc) (*ApiServer, error) {
	log.Info("Initializing monitor API server on port: %d", ApiPort)
	s := &ApiServer{
		Context: ctx,
		ctrl:    ctrl,
		idn:     idn,
		cancel:  cancel,
	}
	return s, nil
}

// Start
func (s *ApiServer) Run() error {
	log.Debug("Starting monitor API server on port: %d", ApiPort)
	s.configureRouter()
	httpServer := &http.Server{
		Handler: handlers.CombinedLoggingHandler(os.Stdout, s.Router),
		Addr:    fmt.Sprintf(":%d", ApiPort),
	}
	return httpServer.ListenAndServe()
}

func (s *ApiServer) configureRouter() {
	s.Router = mux.NewRouter()
	subRouter := s.Router.PathPrefix("/api").Subrouter()
	subRouter.HandleFunc("/status", s.handleStatus()).Methods("GET")
	subRouter.HandleFunc("/idn", s.handleIdentity()).Methods("GET")
	subRouter.HandleFunc("/abort", s.handleAbort()).Methods("GET")
}

// handleIdentity serves the identity string captured at connect time; the
// meter link itself is never queried while a run owns it.
func (s *ApiServer) handleIdentity() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Handling identity request")
		fmt.Fprintln(w, s.idn)
	}
}

func (s *ApiServer) handleStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Handling status request")
		done, expected := s.ctrl.Progress()
		status := &Status{
			State:           s.ctrl.State().String(),
			SamplesDone:     done,
			SamplesExpected: expected,
		}
		json.NewEncoder(w).Encode(status)
	}
}

func (s *ApiServer) handleAbort() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Handling abort request")
		s.cancel()
	}
}
