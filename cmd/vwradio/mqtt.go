// Copyright 2026 The go-vwire Authors.
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"
)

// measurement is the JSON document published for every received frame.
// Value, DataType and Source are only set for frames in the float
// measurement format.
type measurement struct {
	Payload   string    `json:"payload"`
	Good      bool      `json:"good"`
	Value     *float64  `json:"value,omitempty"`
	DataType  uint8     `json:"data_type,omitempty"`
	Source    uint8     `json:"source,omitempty"`
	GoodCount uint8     `json:"good_count"`
	BadCount  uint8     `json:"bad_count"`
	Timestamp time.Time `json:"timestamp"`
}

// telemetryBridge forwards received frames to an MQTT broker.
type telemetryBridge struct {
	client mqtt.Client
	topic  string
}

func generateClientID() string {
	bytes := make([]byte, 8)
	_, _ = rand.Read(bytes)
	return "vwradio_" + hex.EncodeToString(bytes)
}

func newTelemetryBridge(broker, topicPrefix string) (*telemetryBridge, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(broker)
	opts.SetClientID(generateClientID())

	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(10 * time.Second)
	opts.SetKeepAlive(60 * time.Second)
	opts.SetPingTimeout(10 * time.Second)

	opts.SetOnConnectHandler(func(_ mqtt.Client) {
		log.WithField("broker", broker).Info("MQTT connected")
	})
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		log.WithError(err).Warn("MQTT connection lost")
	})

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}

	return &telemetryBridge{
		client: client,
		topic:  messageTopic(topicPrefix),
	}, nil
}

// messageTopic builds the publish topic from the configured prefix.
func messageTopic(prefix string) string {
	return fmt.Sprintf("%s/messages", prefix)
}

// Publish sends a measurement to the broker. Delivery completion is
// awaited in the background so the receive loop never blocks on the
// network.
func (b *telemetryBridge) Publish(m *measurement) error {
	if b == nil || !b.client.IsConnected() {
		return fmt.Errorf("MQTT not connected")
	}

	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal measurement: %w", err)
	}

	token := b.client.Publish(b.topic, 0, false, data)
	go func() {
		if token.Wait() && token.Error() != nil {
			log.WithError(token.Error()).WithField("topic", b.topic).Warn("MQTT publish failed")
		}
	}()

	return nil
}

// Disconnect gracefully disconnects from the broker.
func (b *telemetryBridge) Disconnect() {
	if b != nil && b.client != nil && b.client.IsConnected() {
		b.client.Disconnect(250)
	}
}
