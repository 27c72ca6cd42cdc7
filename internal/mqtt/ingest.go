// Package mqtt receives transmissions from soldier devices over an MQTT
// broker. Devices publish raw inputs on soldiers/inputs and liveness
// heartbeats on soldiers/heartbeat.
package mqtt

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"milhier/internal/config"
	"milhier/internal/models"
	"milhier/internal/repository"
)

const (
	topicInputs    = "soldiers/inputs"
	topicHeartbeat = "soldiers/heartbeat"
)

// Ingest subscribes to soldier device topics and persists what arrives
type Ingest struct {
	client       paho.Client
	rawInputRepo *repository.RawInputRepository
	soldierRepo  *repository.SoldierRepository
}

// NewIngest creates an MQTT ingest for the given broker configuration
func NewIngest(cfg *config.MQTTConfig, rawInputRepo *repository.RawInputRepository,
	soldierRepo *repository.SoldierRepository) *Ingest {
	i := &Ingest{
		rawInputRepo: rawInputRepo,
		soldierRepo:  soldierRepo,
	}

	opts := paho.NewClientOptions().
		AddBroker(cfg.BrokerURL).
		SetClientID(cfg.ClientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(10 * time.Second).
		SetOnConnectHandler(i.onConnect).
		SetConnectionLostHandler(func(_ paho.Client, err error) {
			slog.Warn("MQTT connection lost", "error", err)
		})

	i.client = paho.NewClient(opts)
	return i
}

// Start connects to the broker. A broker that is down at startup is not an
// error; the client keeps retrying in the background and the HTTP API stays
// up either way.
func (i *Ingest) Start() {
	token := i.client.Connect()
	go func() {
		token.Wait()
		if err := token.Error(); err != nil {
			slog.Warn("MQTT broker unreachable, retrying in background", "error", err)
		}
	}()
}

// Stop disconnects from the broker
func (i *Ingest) Stop() {
	i.client.Disconnect(250)
}

func (i *Ingest) onConnect(client paho.Client) {
	slog.Info("Connected to MQTT broker")
	if token := client.Subscribe(topicInputs, 1, i.handleInput); token.Wait() && token.Error() != nil {
		slog.Error("Failed to subscribe", "topic", topicInputs, "error", token.Error())
	}
	if token := client.Subscribe(topicHeartbeat, 1, i.handleHeartbeat); token.Wait() && token.Error() != nil {
		slog.Error("Failed to subscribe", "topic", topicHeartbeat, "error", token.Error())
	}
}

type inputPayload struct {
	SoldierID    string  `json:"soldier_id"`
	Timestamp    string  `json:"timestamp"`
	RawText      string  `json:"raw_text"`
	AudioFileRef *string `json:"audio_file_ref"`
	InputType    string  `json:"input_type"`
	Confidence   float64 `json:"confidence"`
	LocationRef  *string `json:"location_ref"`
}

func (i *Ingest) handleInput(_ paho.Client, msg paho.Message) {
	var payload inputPayload
	if err := json.Unmarshal(msg.Payload(), &payload); err != nil {
		slog.Error("Failed to decode MQTT input message", "error", err)
		return
	}
	if payload.SoldierID == "" || payload.RawText == "" {
		slog.Warn("Invalid soldier input: missing soldier_id or raw_text")
		return
	}

	input := &models.RawInput{
		InputID:     uuid.New().String(),
		SoldierID:   payload.SoldierID,
		Timestamp:   parseTimestamp(payload.Timestamp),
		RawText:     payload.RawText,
		RawAudioRef: payload.AudioFileRef,
		InputType:   payload.InputType,
		Confidence:  payload.Confidence,
		LocationRef: payload.LocationRef,
	}

	if err := i.rawInputRepo.Create(input); err != nil {
		slog.Error("Failed to save soldier input", "soldier_id", payload.SoldierID, "error", err)
		return
	}

	slog.Info("Saved input from soldier", "soldier_id", payload.SoldierID, "input_id", input.InputID)
}

func (i *Ingest) handleHeartbeat(_ paho.Client, msg paho.Message) {
	var payload struct {
		SoldierID string `json:"soldier_id"`
	}
	if err := json.Unmarshal(msg.Payload(), &payload); err != nil {
		slog.Error("Failed to decode MQTT heartbeat message", "error", err)
		return
	}
	if payload.SoldierID == "" {
		return
	}

	if err := i.soldierRepo.TouchLastSeen(payload.SoldierID); err != nil {
		slog.Warn("Heartbeat for unknown soldier", "soldier_id", payload.SoldierID, "error", err)
		return
	}

	slog.Debug(fmt.Sprintf("Heartbeat from soldier %s", payload.SoldierID))
}

func parseTimestamp(s string) time.Time {
	if s != "" {
		if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
			return t
		}
	}
	return time.Now()
}
