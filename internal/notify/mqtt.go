package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"
)

// MQTTNotifier delivers scheduling commands to the device over its MQTT
// topic. The device owns the real OS notification store; the notifier
// mirrors the outstanding trigger set so CancelAll and ListScheduled work
// without a round trip.
type MQTTNotifier struct {
	client   mqtt.Client
	deviceID string

	mu        sync.RWMutex
	granted   bool
	scheduled []Trigger
	nextID    int
}

type notificationCommand struct {
	Type    string   `json:"type"` // "schedule", "cancel_all", "provision_channel"
	Sound   string   `json:"sound,omitempty"`
	Trigger *Trigger `json:"trigger,omitempty"`
}

// NewMQTTClient connects to the broker with the usual handlers wired.
func NewMQTTClient(brokerURL, clientName string) (mqtt.Client, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(brokerURL)
	opts.SetClientID(clientName)
	opts.OnConnect = func(client mqtt.Client) {
		log.Info().Msg("connected to MQTT broker")
	}
	opts.OnConnectionLost = func(client mqtt.Client, err error) {
		log.Error().Err(err).Msg("MQTT connection lost")
	}

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}
	return client, nil
}

func NewMQTTNotifier(client mqtt.Client, deviceID string) *MQTTNotifier {
	return &MQTTNotifier{
		client:   client,
		deviceID: deviceID,
		granted:  true,
	}
}

// SetPermission records the grant state the device last reported.
func (n *MQTTNotifier) SetPermission(granted bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.granted = granted
}

func (n *MQTTNotifier) topic() string {
	return fmt.Sprintf("device/%s/notifications", n.deviceID)
}

func (n *MQTTNotifier) publish(cmd notificationCommand) error {
	payload, err := json.Marshal(cmd)
	if err != nil {
		return fmt.Errorf("failed to marshal notification command: %w", err)
	}
	token := n.client.Publish(n.topic(), 1, false, payload)
	token.Wait()
	if token.Error() != nil {
		return fmt.Errorf("failed to publish to %s: %w", n.topic(), token.Error())
	}
	return nil
}

func (n *MQTTNotifier) RequestPermission(ctx context.Context) (bool, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.granted, nil
}

func (n *MQTTNotifier) ProvisionChannel(ctx context.Context, sound string) error {
	return n.publish(notificationCommand{Type: "provision_channel", Sound: sound})
}

func (n *MQTTNotifier) CancelAll(ctx context.Context) error {
	if err := n.publish(notificationCommand{Type: "cancel_all"}); err != nil {
		return err
	}
	n.mu.Lock()
	n.scheduled = nil
	n.mu.Unlock()
	return nil
}

func (n *MQTTNotifier) Schedule(ctx context.Context, t Trigger) (string, error) {
	if err := n.publish(notificationCommand{Type: "schedule", Trigger: &t}); err != nil {
		return "", err
	}
	n.mu.Lock()
	n.scheduled = append(n.scheduled, t)
	n.nextID++
	id := fmt.Sprintf("%s-%d", n.deviceID, n.nextID)
	n.mu.Unlock()
	return id, nil
}

func (n *MQTTNotifier) ListScheduled(ctx context.Context) ([]Trigger, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	out := make([]Trigger, len(n.scheduled))
	copy(out, n.scheduled)
	sort.Slice(out, func(i, j int) bool { return out[i].At.Before(out[j].At) })
	return out, nil
}
