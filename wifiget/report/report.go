// Package report publishes the outcome of a GET to an MQTT broker.
package report

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/netip"
	"strconv"
	"strings"
	"time"

	"github.com/harveysanders/picoweather/wifiget/httpget"
	mqtt "github.com/soypat/natiu-mqtt"
)

// DefaultTopic is used when Publisher.Topic is empty.
const DefaultTopic = "picoweather/wifiget"

var pubFlags, _ = mqtt.NewPublishFlags(mqtt.QoS0, false, false)

// Summary is the published payload.
type Summary struct {
	Host       string `json:"host"`
	Path       string `json:"path"`
	StatusCode int    `json:"status_code"`
	Status     string `json:"status"`
	Bytes      int    `json:"bytes"`
}

// NewSummary describes a successful fetch.
func NewSummary(host, path string, resp httpget.Response) Summary {
	return Summary{
		Host:       host,
		Path:       path,
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Bytes:      len(resp.Raw),
	}
}

// Publisher sends one message per call over a fresh connection.
type Publisher struct {
	ID       string
	Topic    string
	Timeout  time.Duration
	Logger   *slog.Logger
	Username string // MQTT broker username (optional)
	Password string // MQTT broker password (optional, requires Username)
}

// deadliner is implemented by connections that support I/O deadlines.
type deadliner interface {
	SetDeadline(time.Time) error
}

// Publish dials addr ("host:port") through d, connects, publishes s and
// disconnects.
func (p *Publisher) Publish(d httpget.Dialer, addr string, s Summary) error {
	log := p.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
			Level: slog.Level(127),
		}))
	}
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	topic := p.Topic
	if topic == "" {
		topic = DefaultTopic
	}

	brokerAddr, err := resolveBroker(d, addr)
	if err != nil {
		return err
	}
	log.Info("mqtt:dialing", slog.String("addr", brokerAddr.String()))
	conn, err := d.DialTCP(brokerAddr)
	if err != nil {
		return err
	}
	defer conn.Close()
	setDeadline := func() {
		if dl, ok := conn.(deadliner); ok {
			dl.SetDeadline(time.Now().Add(timeout))
		}
	}

	client := mqtt.NewClient(mqtt.ClientConfig{
		Decoder: mqtt.DecoderNoAlloc{UserBuffer: make([]byte, 512)},
		OnPub: func(pubHead mqtt.Header, varPub mqtt.VariablesPublish, r io.Reader) error {
			log.Info("received message", slog.String("topic", string(varPub.TopicName)))
			return nil
		},
	})
	var varconn mqtt.VariablesConnect
	varconn.SetDefaultMQTT([]byte(p.ID))
	// Set authentication credentials if provided
	if p.Username != "" {
		varconn.Username = []byte(p.Username)
		if p.Password != "" {
			varconn.Password = []byte(p.Password)
		}
	}

	log.Info("mqtt:start-connecting")
	setDeadline()
	err = client.StartConnect(conn, &varconn)
	if err != nil {
		return errors.New("mqtt start connect: " + err.Error())
	}
	retries := 50
	for retries > 0 && !client.IsConnected() {
		time.Sleep(100 * time.Millisecond)
		err = client.HandleNext()
		if err != nil {
			log.Error("mqtt:handle-next-failed", slog.String("err", err.Error()))
		}
		retries--
	}
	if !client.IsConnected() {
		return errors.New("mqtt connect timed out")
	}

	payload, err := json.Marshal(s)
	if err != nil {
		return errors.New("mqtt marshal: " + err.Error())
	}
	setDeadline()
	err = client.PublishPayload(pubFlags, mqtt.VariablesPublish{
		TopicName:        []byte(topic),
		PacketIdentifier: 0xc0fe,
	}, payload)
	if err != nil {
		return errors.New("mqtt publish: " + err.Error())
	}
	log.Info("published message", slog.String("topic", topic), slog.Int("bytes", len(payload)))
	return nil
}

// resolveBroker turns addr into a dialable address. An IP literal such as
// "10.0.0.9:1883" or "[fd00::9]:1883" is used as is; a name goes through d.
func resolveBroker(d httpget.Dialer, addr string) (netip.AddrPort, error) {
	if ap, err := netip.ParseAddrPort(addr); err == nil {
		if ap.Port() == 0 {
			return netip.AddrPort{}, errors.New("invalid port in " + addr)
		}
		return ap, nil
	}
	host, port, err := splitBroker(addr)
	if err != nil {
		return netip.AddrPort{}, err
	}
	ip, err := d.LookupIP(host)
	if err != nil {
		return netip.AddrPort{}, err
	}
	return netip.AddrPortFrom(ip, port), nil
}

// splitBroker parses "name:port". Names may not contain colons.
func splitBroker(addr string) (host string, port uint16, err error) {
	host, portStr, ok := strings.Cut(addr, ":")
	switch {
	case !ok:
		return "", 0, errors.New("missing port in " + addr)
	case host == "":
		return "", 0, errors.New("empty host in " + addr)
	case strings.IndexByte(portStr, ':') >= 0:
		return "", 0, errors.New("unbracketed IPv6 or extra colon in " + addr)
	}
	n, err := strconv.ParseUint(portStr, 10, 16)
	if err != nil || n == 0 {
		return "", 0, errors.New("invalid port in " + addr)
	}
	return host, uint16(n), nil
}
