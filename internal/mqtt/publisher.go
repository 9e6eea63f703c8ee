package mqtt

import (
	"context"
	"encoding/json"

	"doctor_signage/internal/logger"
	"doctor_signage/internal/models"
)

// Publisher is the part of Client the display publisher uses.
type Publisher interface {
	Publish(topic string, qos byte, retained bool, payload []byte) error
}

// ViewSource yields display views; service.Board implements it.
type ViewSource interface {
	GetDisplay(ctx context.Context) (models.DisplayView, error)
	Subscribe() (<-chan models.DisplayView, func())
}

// DisplayPublisher mirrors every board change to <prefix>/<deviceId>/display
// as a retained message, so a remote renderer gets the current screen on
// subscribe.
type DisplayPublisher struct {
	pub    Publisher
	prefix string
	qos    byte
	log    *logger.Logger
}

func NewDisplayPublisher(pub Publisher, prefix string, qos byte, log *logger.Logger) *DisplayPublisher {
	if log == nil {
		log = logger.Nop()
	}
	return &DisplayPublisher{pub: pub, prefix: prefix, qos: qos, log: log.Named("mqtt")}
}

// Topic returns the display topic for a device.
func (p *DisplayPublisher) Topic(deviceID string) string {
	return p.prefix + "/" + deviceID + "/display"
}

// Run publishes the current view and then every update until ctx is done.
func (p *DisplayPublisher) Run(ctx context.Context, src ViewSource) {
	updates, unsubscribe := src.Subscribe()
	defer unsubscribe()

	if v, err := src.GetDisplay(ctx); err == nil {
		p.publish(v)
	}
	for {
		select {
		case <-ctx.Done():
			return
		case v := <-updates:
			p.publish(v)
		}
	}
}

func (p *DisplayPublisher) publish(v models.DisplayView) {
	if v.DeviceID == "" {
		return
	}
	payload, err := json.Marshal(v)
	if err != nil {
		p.log.Errorw("mqtt_marshal_failed", "err", err)
		return
	}
	topic := p.Topic(v.DeviceID)
	if err := p.pub.Publish(topic, p.qos, true, payload); err != nil {
		p.log.Warnw("mqtt_publish_failed", "topic", topic, "err", err)
		return
	}
	p.log.Debugw("mqtt_published", "topic", topic, "version", v.Version)
}
