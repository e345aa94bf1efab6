package voice

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/mattn/go-xmpp"
	"wayfinder.app/internal/logging"
)

// XMPPConfig addresses the chat account voice output is relayed to.
type XMPPConfig struct {
	Host     string
	Jid      string
	Password string
	To       string
}

var errMissingXMPPConfig = errors.New("missing xmpp config")

type chatClient interface {
	Send(chat xmpp.Chat) (int, error)
	Close() error
}

// XMPPRelay mirrors every utterance as a chat message, for drivers following
// along on a paired phone or watch. The connection is opened lazily and
// dropped on send failure so the next utterance reconnects.
type XMPPRelay struct {
	config XMPPConfig
	logger *slog.Logger
	dial   func(xmpp.Options) (chatClient, error)

	mu     sync.Mutex
	client chatClient
}

func NewXMPPRelay(config XMPPConfig, logger *slog.Logger) (*XMPPRelay, error) {
	if config.Jid == "" || config.Password == "" || config.To == "" {
		return nil, errMissingXMPPConfig
	}
	if config.Host == "" {
		host, err := serverName(config.Jid)
		if err != nil {
			return nil, err
		}
		config.Host = host
	}

	return &XMPPRelay{
		config: config,
		logger: logging.Component(logger, "xmpp"),
		dial: func(options xmpp.Options) (chatClient, error) {
			client, err := options.NewClient()
			if err != nil {
				return nil, err
			}
			return client, nil
		},
	}, nil
}

func serverName(jid string) (string, error) {
	_, domain, ok := strings.Cut(jid, "@")
	if !ok || domain == "" {
		return "", fmt.Errorf("invalid jid %q", jid)
	}
	domain, _, _ = strings.Cut(domain, "/")
	return domain, nil
}

func (x *XMPPRelay) options() xmpp.Options {
	host, _, _ := strings.Cut(x.config.Host, ":")
	return xmpp.Options{
		Host:          x.config.Host,
		User:          x.config.Jid,
		Password:      x.config.Password,
		TLSConfig:     &tls.Config{ServerName: host, MinVersion: tls.VersionTLS12},
		NoTLS:         true,
		StartTLS:      true,
		Session:       false,
		Status:        "xa",
		StatusMessage: "Relaying turn-by-turn directions",
	}
}

func (x *XMPPRelay) Say(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	x.mu.Lock()
	defer x.mu.Unlock()

	if x.client == nil {
		client, err := x.dial(x.options())
		if err != nil {
			return fmt.Errorf("xmpp connect: %w", err)
		}
		x.client = client
	}

	if _, err := x.client.Send(xmpp.Chat{Remote: x.config.To, Type: "chat", Text: text}); err != nil {
		logging.SafeCloseWithLogging(x.client, x.logger, "xmpp client")
		x.client = nil
		return fmt.Errorf("xmpp send: %w", err)
	}
	return nil
}

func (x *XMPPRelay) Close() error {
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.client == nil {
		return nil
	}
	err := x.client.Close()
	x.client = nil
	return err
}
