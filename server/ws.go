/* Copyright 2018-2019 Comcast Cable Communications Management, LLC
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 * http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/Comcast/vizcrew/sio"

	"github.com/gorilla/websocket"
)

// WriteTimeout limits each websocket write.
var WriteTimeout = 10 * time.Second

var upgrader = websocket.Upgrader{} // use default options

// websocket couples a new session to the connection.
//
// Query parameters (other than "app") are the session's initial
// state.
func (s *Server) websocket(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	app := q.Get("app")
	if _, _, err := s.app(app); err != nil {
		s.puntf(w, http.StatusNotFound, "%v", err)
		return
	}

	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("upgrade", "error", err)
		return
	}
	defer ws.Close()

	var wmu sync.Mutex
	sink := func(res *sio.Result) {
		wmu.Lock()
		defer wmu.Unlock()
		ws.SetWriteDeadline(time.Now().Add(WriteTimeout))
		if err := ws.WriteJSON(res); err != nil {
			s.logger.Warn("WriteJSON", "error", err)
		}
	}

	c, err := s.Open(app, QueryBindings(q, "app"), sink)
	if err != nil {
		sink(&sio.Result{
			Errors: []string{err.Error()},
		})
		return
	}
	defer s.Close(c)
	defer c.Detach()

	ctx := r.Context()
	for {
		_, bs, err := ws.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Warn("ReadMessage", "session", c.ID, "error", err)
			}
			return
		}
		if len(bs) == 0 {
			continue
		}

		var msg interface{}
		if err = json.Unmarshal(bs, &msg); err != nil {
			sink(&sio.Result{
				Session: c.ID,
				Errors:  []string{"bad json: " + err.Error()},
			})
			continue
		}

		s.Registry.Touch(c.ID)
		if err := c.Send(ctx, msg); err != nil {
			s.logger.Warn("Send", "session", c.ID, "error", err)
			return
		}
	}
}
