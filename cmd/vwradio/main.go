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

// vwradio is a command-line ASK radio modem. It drives a transmitter
// or receiver module over GPIO pins or the control lines of a serial
// port, sends one-shot messages and float measurements, and can bridge
// received telemetry to an MQTT broker.
package main

import (
	"context"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	vwire "github.com/vwirelib/go-vwire"
	"github.com/vwirelib/go-vwire/line/gpio"
	"github.com/vwirelib/go-vwire/line/serial"
)

type config struct {
	sendText    string
	sendFloat   float64
	sendIsFloat bool
	floatType   uint
	floatSource uint
	floatDigits uint
	lineKind    string
	serialPort  string
	txPin       string
	rxPin       string
	pttPin      string
	bitRate     int
	rxInverted  bool
	pttInverted bool
	mqttBroker  string
	mqttTopic   string
	debug       bool
}

// Package-level flag variables
var (
	flagSendText    string
	flagSendFloat   float64
	flagFloatType   uint
	flagFloatSource uint
	flagFloatDigits uint
	flagLineKind    string
	flagSerialPort  string
	flagTXPin       string
	flagRXPin       string
	flagPTTPin      string
	flagBitRate     int
	flagRxInverted  bool
	flagPTTInverted bool
	flagMQTTBroker  string
	flagMQTTTopic   string
	flagDebug       bool
)

func init() {
	flag.StringVar(&flagSendText, "send", "", "Text to transmit (exits after send)")
	flag.Float64Var(&flagSendFloat, "send-float", 0, "Float measurement to transmit (exits after send)")
	flag.UintVar(&flagFloatType, "float-type", uint(vwire.TypeTemperature), "Data type tag for -send-float")
	flag.UintVar(&flagFloatSource, "float-source", 1, "Source node ID for -send-float")
	flag.UintVar(&flagFloatDigits, "float-digits", 2, "Decimal digits preserved by -send-float")
	flag.StringVar(&flagLineKind, "line", "gpio", "Radio line driver: gpio or serial")
	flag.StringVar(&flagSerialPort, "port", "", "Serial port for -line=serial (e.g. /dev/ttyUSB0)")
	flag.StringVar(&flagTXPin, "tx-pin", "", "Transmit data pin name for -line=gpio")
	flag.StringVar(&flagRXPin, "rx-pin", "", "Receive data pin name for -line=gpio")
	flag.StringVar(&flagPTTPin, "ptt-pin", "", "Push-to-talk pin name for -line=gpio (optional)")
	flag.IntVar(&flagBitRate, "bitrate", vwire.DefaultBitRate, "Link speed in bits per second")
	flag.BoolVar(&flagRxInverted, "rx-inverted", false, "Invert the receive line")
	flag.BoolVar(&flagPTTInverted, "ptt-inverted", false, "Drive push-to-talk low-active")
	flag.StringVar(&flagMQTTBroker, "mqtt", "", "MQTT broker URL for received telemetry (e.g. tcp://localhost:1883)")
	flag.StringVar(&flagMQTTTopic, "mqtt-topic", "vwradio", "MQTT topic prefix for received telemetry")
	flag.BoolVar(&flagDebug, "debug", false, "Enable debug output")
}

func parseConfig() *config {
	floatSet := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "send-float" {
			floatSet = true
		}
	})

	cfg := &config{
		sendText:    flagSendText,
		sendFloat:   flagSendFloat,
		sendIsFloat: floatSet,
		floatType:   flagFloatType,
		floatSource: flagFloatSource,
		floatDigits: flagFloatDigits,
		lineKind:    flagLineKind,
		serialPort:  flagSerialPort,
		txPin:       flagTXPin,
		rxPin:       flagRXPin,
		pttPin:      flagPTTPin,
		bitRate:     flagBitRate,
		rxInverted:  flagRxInverted,
		pttInverted: flagPTTInverted,
		mqttBroker:  flagMQTTBroker,
		mqttTopic:   flagMQTTTopic,
		debug:       flagDebug,
	}

	if cfg.debug {
		vwire.SetDebugEnabled(true)
		log.SetLevel(log.DebugLevel)
	}

	return cfg
}

// newLine creates the radio line driver selected by the configuration.
func newLine(cfg *config) (vwire.Line, error) {
	switch cfg.lineKind {
	case "gpio":
		line, err := gpio.New(gpio.Config{TX: cfg.txPin, RX: cfg.rxPin, PTT: cfg.pttPin})
		if err != nil {
			return nil, fmt.Errorf("failed to open GPIO line: %w", err)
		}
		return line, nil
	case "serial":
		if cfg.serialPort == "" {
			return nil, errors.New("-line=serial requires -port")
		}
		line, err := serial.Open(cfg.serialPort)
		if err != nil {
			return nil, fmt.Errorf("failed to open serial line %s: %w", cfg.serialPort, err)
		}
		return line, nil
	default:
		return nil, fmt.Errorf("unsupported line driver: %s", cfg.lineKind)
	}
}

func newModem(cfg *config) (*vwire.Modem, error) {
	line, err := newLine(cfg)
	if err != nil {
		return nil, err
	}

	modem, err := vwire.New(line,
		vwire.WithBitRate(cfg.bitRate),
		vwire.WithRxInverted(cfg.rxInverted),
		vwire.WithPTTInverted(cfg.pttInverted))
	if err != nil {
		_ = line.Close()
		return nil, fmt.Errorf("failed to create modem: %w", err)
	}
	return modem, nil
}

func runSendMode(ctx context.Context, modem *vwire.Modem, cfg *config) error {
	var err error
	if cfg.sendIsFloat {
		if cfg.floatType > 0xFF || cfg.floatSource > 0xFF {
			return errors.New("float type and source must fit in a byte")
		}
		if cfg.floatDigits > vwire.MaxFloatDigits {
			return fmt.Errorf("float digits must be at most %d", vwire.MaxFloatDigits)
		}
		log.WithFields(log.Fields{
			"value":  cfg.sendFloat,
			"type":   cfg.floatType,
			"source": cfg.floatSource,
		}).Info("Sending float measurement")
		err = modem.SendFloat(cfg.sendFloat, uint8(cfg.floatDigits), uint8(cfg.floatType), uint8(cfg.floatSource))
	} else {
		log.WithField("len", len(cfg.sendText)).Info("Sending message")
		err = modem.Send([]byte(cfg.sendText))
	}
	if err != nil {
		return fmt.Errorf("send failed: %w", err)
	}

	if err := modem.WaitTxContext(ctx); err != nil {
		return fmt.Errorf("transmission interrupted: %w", err)
	}
	log.Info("Transmission complete")
	return nil
}

func runListenMode(ctx context.Context, modem *vwire.Modem, cfg *config) error {
	var bridge *telemetryBridge
	if cfg.mqttBroker != "" {
		var err error
		bridge, err = newTelemetryBridge(cfg.mqttBroker, cfg.mqttTopic)
		if err != nil {
			return err
		}
		defer bridge.Disconnect()
	}

	if err := modem.Start(); err != nil {
		return fmt.Errorf("failed to start receiver: %w", err)
	}
	defer modem.Stop()

	log.Info("Listening for messages. Press Ctrl+C to stop...")

	buf := make([]byte, vwire.MaxPayloadLen)
	for {
		if err := modem.WaitMessageContext(ctx); err != nil {
			return err
		}
		n, good, err := modem.GetMessage(buf)
		if errors.Is(err, vwire.ErrNoMessage) {
			continue
		}
		if err != nil {
			return fmt.Errorf("receive failed: %w", err)
		}
		handleMessage(buf[:n], good, modem, bridge)
	}
}

func handleMessage(payload []byte, good bool, modem *vwire.Modem, bridge *telemetryBridge) {
	entry := log.WithFields(log.Fields{
		"len":  len(payload),
		"good": good,
		"data": hex.EncodeToString(payload),
	})

	value, dataType, source, err := vwire.DecodeFloat(payload)
	if err == nil {
		entry = entry.WithFields(log.Fields{
			"value":  value,
			"type":   dataType,
			"source": source,
		})
	}
	entry.Info("Message received")

	if bridge != nil {
		m := &measurement{
			Payload:   hex.EncodeToString(payload),
			Good:      good,
			GoodCount: modem.GoodFrames(),
			BadCount:  modem.BadFrames(),
			Timestamp: time.Now().UTC(),
		}
		if err == nil {
			m.Value = &value
			m.DataType = dataType
			m.Source = source
		}
		if pubErr := bridge.Publish(m); pubErr != nil {
			log.WithError(pubErr).Warn("MQTT publish failed")
		}
	}
}

func run(ctx context.Context, cfg *config) error {
	modem, err := newModem(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := modem.Close(); err != nil {
			log.WithError(err).Warn("Failed to close modem")
		}
	}()

	if cfg.sendText != "" || cfg.sendIsFloat {
		return runSendMode(ctx, modem, cfg)
	}
	return runListenMode(ctx, modem, cfg)
}

func main() {
	flag.Parse()
	os.Exit(mainWithExitCode())
}

func mainWithExitCode() int {
	cfg := parseConfig()

	// Setup signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info("Shutting down gracefully...")
		cancel()
	}()

	if err := run(ctx, cfg); err != nil {
		if errors.Is(err, context.Canceled) {
			return 0
		}
		log.WithError(err).Error("Fatal error")
		return 1
	}
	return 0
}
