// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package telemetry

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// publishTimeout bounds how long the control loop may wait on the broker.
const publishTimeout = 20 * time.Millisecond

// Client is the part of mqtt.Client the publisher needs.
type Client interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// Publisher sends every Nth offered frame to an MQTT topic as JSON.
//
// Not safe for concurrent use.
type Publisher struct {
	client Client
	topic  string
	every  int
	n      int
}

func NewPublisher(client Client, topic string, every int) *Publisher {
	if every < 1 {
		every = 1
	}
	return &Publisher{client: client, topic: topic, every: every}
}

// Offer publishes f if it is due. The first frame is always due.
func (p *Publisher) Offer(f Frame) error {
	due := p.n%p.every == 0
	p.n++
	if !due {
		return nil
	}
	return p.Publish(f)
}

// Publish sends f unconditionally.
func (p *Publisher) Publish(f Frame) error {
	payload, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("telemetry: marshal: %w", err)
	}
	token := p.client.Publish(p.topic, 0, false, payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("telemetry: publish %s: timeout", p.topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("telemetry: publish %s: %w", p.topic, err)
	}
	return nil
}

// Subscribe delivers decoded frames from topic to fn. Undecodable payloads
// are logged and dropped.
func Subscribe(client mqtt.Client, topic string, fn func(Frame)) error {
	token := client.Subscribe(topic, 0, func(_ mqtt.Client, msg mqtt.Message) {
		f, err := Decode(msg.Payload())
		if err != nil {
			log.Printf("telemetry: %s: %v", topic, err)
			return
		}
		fn(f)
	})
	token.Wait()
	return token.Error()
}

// Decode parses a JSON frame.
func Decode(payload []byte) (Frame, error) {
	var f Frame
	if err := json.Unmarshal(payload, &f); err != nil {
		return Frame{}, fmt.Errorf("telemetry: decode: %w", err)
	}
	return f, nil
}
