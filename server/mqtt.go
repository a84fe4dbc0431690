/* Copyright 2019 Comcast Cable Communications Management, LLC
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
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Comcast/vizcrew/config"
	"github.com/Comcast/vizcrew/core"
	"github.com/Comcast/vizcrew/sio"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/hashicorp/go-hclog"
)

// DefaultMQTTPrefix is the topic prefix when none is configured.
var DefaultMQTTPrefix = "vizcrew"

// Mirror publishes sessions' state deltas to an MQTT broker and
// accepts "set" messages from it.
//
// Topics are <prefix>/<app>/<session>/state (out-bound) and
// <prefix>/<app>/<session>/set (in-bound).
type Mirror struct {
	Client  mqtt.Client
	Prefix  string
	QoS     byte
	Quiesce uint

	// InTimeout limits how long an in-bound message can wait to be
	// queued.
	InTimeout time.Duration

	logger hclog.Logger
}

// NewMirror connects to the configured broker.
func NewMirror(conf *config.MQTTConf, logger hclog.Logger) (*Mirror, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	logger = logger.Named("mqtt")

	opts := mqtt.NewClientOptions()
	opts.AddBroker(conf.Broker)
	opts.SetClientID(conf.ClientID)
	keepAlive := conf.KeepAlive
	if keepAlive <= 0 {
		keepAlive = 10 * time.Second
	}
	opts.SetKeepAlive(keepAlive)
	opts.SetAutoReconnect(true)
	opts.SetCleanSession(true)
	opts.OnConnectionLost = func(client mqtt.Client, err error) {
		logger.Warn("connection lost", "error", err)
	}

	m := &Mirror{
		Client:    mqtt.NewClient(opts),
		Prefix:    conf.Prefix,
		QoS:       conf.QoS,
		Quiesce:   100,
		InTimeout: time.Second,
		logger:    logger,
	}
	if m.Prefix == "" {
		m.Prefix = DefaultMQTTPrefix
	}

	logger.Info("connecting", "broker", conf.Broker)
	if token := m.Client.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	logger.Info("connected", "broker", conf.Broker)
	return m, nil
}

func (m *Mirror) topic(app, id, what string) string {
	return strings.Join([]string{m.Prefix, app, id, what}, "/")
}

// StateTopic is where a session's state deltas are published.
func (m *Mirror) StateTopic(app, id string) string {
	return m.topic(app, id, "state")
}

// SetTopic is where a session hears "set" messages.
func (m *Mirror) SetTopic(app, id string) string {
	return m.topic(app, id, "set")
}

// Publish sends the result's state delta (if any).
func (m *Mirror) Publish(app, id string, r *sio.Result) error {
	if len(r.State) == 0 {
		return nil
	}
	js, err := json.Marshal(r.State)
	if err != nil {
		return err
	}
	token := m.Client.Publish(m.StateTopic(app, id), m.QoS, false, js)
	token.Wait()
	return token.Error()
}

// ParseSet interprets an in-bound payload, which can be either a
// complete {"op":"set","state":{...}} message or just the state.
func ParseSet(payload []byte) (core.Bindings, error) {
	var m map[string]interface{}
	if err := json.Unmarshal(payload, &m); err != nil {
		return nil, fmt.Errorf("bad set payload: %w", err)
	}
	if op, have := m["op"]; have {
		if op != "set" {
			return nil, fmt.Errorf("bad set op %v", op)
		}
		state, is := m["state"].(map[string]interface{})
		if !is {
			return nil, fmt.Errorf("bad set state %s", sio.JShort(m["state"]))
		}
		return core.Bindings(state), nil
	}
	return core.Bindings(m), nil
}

// Attach subscribes to the session's set topic.
func (m *Mirror) Attach(ctx context.Context, c *Conn) error {
	topic := m.SetTopic(c.App, c.ID)
	m.logger.Debug("subscribing", "topic", topic)
	handler := func(client mqtt.Client, msg mqtt.Message) {
		state, err := ParseSet(msg.Payload())
		if err != nil {
			m.logger.Warn("ignoring", "topic", msg.Topic(), "error", err)
			return
		}
		tctx, cancel := context.WithTimeout(ctx, m.InTimeout)
		defer cancel()
		op := map[string]interface{}{
			"op":    "set",
			"state": map[string]interface{}(state),
		}
		if err := c.Send(tctx, op); err != nil {
			m.logger.Warn("not forwarding", "topic", msg.Topic(), "error", err)
		}
	}
	token := m.Client.Subscribe(topic, m.QoS, handler)
	token.Wait()
	return token.Error()
}

// Detach unsubscribes from the session's set topic.
func (m *Mirror) Detach(c *Conn) {
	token := m.Client.Unsubscribe(m.SetTopic(c.App, c.ID))
	token.Wait()
	if err := token.Error(); err != nil {
		m.logger.Warn("unsubscribe", "error", err)
	}
}

// Close disconnects from the broker.
func (m *Mirror) Close() {
	m.Client.Disconnect(m.Quiesce)
}
