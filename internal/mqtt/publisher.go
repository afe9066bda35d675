package mqtt

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/i474232898/weather-ticker/internal/config"
)

var errNotConnected = errors.New("mqtt client not connected")

// Publisher pushes display text to an MQTT topic as retained messages so that
// late subscribers immediately receive the current text.
type Publisher struct {
	client mqtt.Client
	cfg    config.MQTTConfig
	logger *slog.Logger

	mu        sync.RWMutex
	connected bool
	latest    string
	hasLatest bool

	pending  chan struct{}
	stopCh   chan struct{}
	stopOnce sync.Once
}

func NewPublisher(cfg config.MQTTConfig, logger *slog.Logger) *Publisher {
	p := &Publisher{
		cfg:     cfg,
		logger:  logger.With("component", "mqtt"),
		pending: make(chan struct{}, 1),
		stopCh:  make(chan struct{}),
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s:%d", cfg.Broker, cfg.Port))
	opts.SetClientID(cfg.ClientID)
	opts.SetCleanSession(true)

	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(5 * time.Second)
	opts.SetMaxReconnectInterval(60 * time.Second)

	opts.SetKeepAlive(30 * time.Second)
	opts.SetPingTimeout(10 * time.Second)

	opts.SetOnConnectHandler(func(_ mqtt.Client) {
		p.logger.Info("mqtt connected", "broker", cfg.Broker, "port", cfg.Port)
		p.handleConnect()
	})
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		p.setConnected(false)
		p.logger.Warn("mqtt connection lost", "error", err)
	})

	p.client = mqtt.NewClient(opts)
	return p
}

// Connect establishes the broker connection, honouring ctx and Disconnect.
func (p *Publisher) Connect(ctx context.Context) error {
	select {
	case <-p.stopCh:
		return fmt.Errorf("publisher stopped")
	default:
	}

	if p.IsConnected() {
		return nil
	}

	token := p.client.Connect()

	const poll = 200 * time.Millisecond
	for {
		if token.WaitTimeout(poll) {
			if err := token.Error(); err != nil {
				return fmt.Errorf("mqtt connect: %w", err)
			}
			return nil
		}

		select {
		case <-ctx.Done():
			p.client.Disconnect(0)
			return ctx.Err()
		case <-p.stopCh:
			p.client.Disconnect(0)
			return fmt.Errorf("publisher stopped")
		default:
		}
	}
}

// Publish sends text as a retained QoS 1 message on the configured topic.
func (p *Publisher) Publish(text string) error {
	if !p.IsConnected() {
		return errNotConnected
	}

	token := p.client.Publish(p.cfg.Topic, 1, true, text)
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("publish timeout for topic %s", p.cfg.Topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish to %s: %w", p.cfg.Topic, err)
	}
	return nil
}

// HandleDisplay records text as the newest display text and wakes Run without
// blocking. Texts that arrive before Run catches up are coalesced.
func (p *Publisher) HandleDisplay(text string) {
	p.mu.Lock()
	p.latest = text
	p.hasLatest = true
	p.mu.Unlock()

	p.signal()
}

// handleConnect runs on every (re)connect. The retained topic is rewritten with
// the newest text since publishes attempted while offline were dropped.
func (p *Publisher) handleConnect() {
	p.mu.Lock()
	p.connected = true
	pending := p.hasLatest
	p.mu.Unlock()

	if pending {
		p.signal()
	}
}

func (p *Publisher) signal() {
	select {
	case p.pending <- struct{}{}:
	default:
	}
}

func (p *Publisher) latestText() (string, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.latest, p.hasLatest
}

// Run publishes the newest display text until ctx is done or Disconnect is called.
// A failed publish is retried on the next connect.
func (p *Publisher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-p.stopCh:
			return
		case <-p.pending:
			text, ok := p.latestText()
			if !ok {
				continue
			}
			if err := p.Publish(text); err != nil {
				p.logger.Warn("failed to publish display text", "topic", p.cfg.Topic, "error", err)
				continue
			}
			p.logger.Debug("published display text", "topic", p.cfg.Topic, "text", text)
		}
	}
}

// IsConnected returns whether the client is connected.
func (p *Publisher) IsConnected() bool {
	p.mu.RLock()
	connected := p.connected
	p.mu.RUnlock()
	return connected && p.client.IsConnected()
}

// Disconnect closes the broker connection. Safe to call multiple times.
func (p *Publisher) Disconnect() {
	p.stopOnce.Do(func() { close(p.stopCh) })

	if p.client != nil {
		p.client.Disconnect(250)
	}

	p.setConnected(false)
	p.logger.Info("mqtt publisher disconnected")
}

func (p *Publisher) setConnected(v bool) {
	p.mu.Lock()
	p.connected = v
	p.mu.Unlock()
}
