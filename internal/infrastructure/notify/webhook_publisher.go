package notify

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/adyatma/scorewire/internal/platform/logging"
	"github.com/adyatma/scorewire/internal/platform/resilience"
)

type WebhookPublisherConfig struct {
	Endpoint      string
	SigningToken  string
	Timeout       time.Duration
	BreakerConfig resilience.CircuitBreakerConfig
}

// WebhookPublisher pushes standings change notifications to a configured
// HTTP endpoint. Delivery is best effort; callers treat failures as
// non-fatal and the breaker sheds load when the receiver is down.
type WebhookPublisher struct {
	client       *http.Client
	endpoint     string
	signingToken string
	breaker      *resilience.CircuitBreaker
	logger       *logging.Logger
	now          func() time.Time
}

func NewWebhookPublisher(cfg WebhookPublisherConfig, logger *logging.Logger) (*WebhookPublisher, error) {
	endpoint, err := validateHTTPEndpoint(cfg.Endpoint)
	if err != nil {
		return nil, errors.Wrap(err, "invalid webhook endpoint")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = logging.Default()
	}

	var breaker *resilience.CircuitBreaker
	if cfg.BreakerConfig.Enabled {
		bcfg := resilience.NormalizeCircuitBreakerConfig(cfg.BreakerConfig)
		breaker = resilience.NewCircuitBreaker(bcfg.FailureThreshold, bcfg.OpenTimeout, bcfg.HalfOpenMaxReq)
	}

	return &WebhookPublisher{
		client:       &http.Client{Timeout: timeout},
		endpoint:     endpoint,
		signingToken: strings.TrimSpace(cfg.SigningToken),
		breaker:      breaker,
		logger:       logger,
		now:          time.Now,
	}, nil
}

type standingsUpdatedEvent struct {
	Event      string `json:"event"`
	LeagueID   string `json:"league_id"`
	Season     string `json:"season"`
	Reason     string `json:"reason"`
	OccurredAt string `json:"occurred_at"`
}

func (p *WebhookPublisher) StandingsUpdated(ctx context.Context, leagueID, season, reason string) error {
	if p.breaker != nil {
		if err := p.breaker.Allow(); err != nil {
			return errors.Wrap(err, "webhook receiver unavailable")
		}
	}

	err := p.deliver(ctx, standingsUpdatedEvent{
		Event:      "standings.updated",
		LeagueID:   leagueID,
		Season:     season,
		Reason:     reason,
		OccurredAt: p.now().UTC().Format(time.RFC3339),
	})
	if p.breaker != nil {
		if err != nil {
			p.breaker.RecordFailure()
		} else {
			p.breaker.RecordSuccess()
		}
	}

	return err
}

func (p *WebhookPublisher) deliver(ctx context.Context, event standingsUpdatedEvent) error {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	encoded, err := sonic.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "marshal webhook payload")
	}
	if _, err := buf.Write(encoded); err != nil {
		return errors.Wrap(err, "buffer webhook payload")
	}

	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(
			attribute.String("webhook.endpoint", p.endpoint),
			attribute.String("webhook.event", event.Event),
			attribute.String("webhook.league_id", event.LeagueID),
		)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(buf.B))
	if err != nil {
		return errors.Wrap(err, "create webhook request")
	}
	req.Header.Set("Content-Type", "application/json")
	if p.signingToken != "" {
		req.Header.Set("X-Webhook-Token", p.signingToken)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return errors.Wrapf(err, "post webhook event=%s endpoint=%s", event.Event, p.endpoint)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode/100 != 2 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return errors.Newf(
			"webhook delivery failed status=%d endpoint=%s body=%s",
			resp.StatusCode,
			p.endpoint,
			strings.TrimSpace(string(raw)),
		)
	}

	p.logger.DebugContext(ctx, "webhook delivered",
		"event", event.Event,
		"league_id", event.LeagueID,
		"season", event.Season,
		"reason", event.Reason,
	)

	return nil
}

func validateHTTPEndpoint(raw string) (string, error) {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return "", errors.New("value is empty")
	}

	parsed, err := url.Parse(candidate)
	if err != nil {
		return "", errors.Wrapf(err, "parse %q", candidate)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", errors.Newf("%q uses unsupported scheme=%q; expected http or https", candidate, parsed.Scheme)
	}
	if strings.TrimSpace(parsed.Host) == "" {
		return "", errors.Newf("%q has empty host", candidate)
	}

	return candidate, nil
}
