package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/smtp"
	"os"
	"strings"
	"time"

	"github.com/ppiankov/sitespectre/internal/analyzer"
	"github.com/ppiankov/sitespectre/internal/config"
)

// EventType identifies the notification trigger type.
type EventType string

const (
	EventNewCritical EventType = "new_critical"
	EventNewHigh     EventType = "new_high"
	EventResolved    EventType = "resolved"
)

var allEventTypes = []EventType{EventNewCritical, EventNewHigh, EventResolved}

// Event is a single notification-ready compliance change.
type Event struct {
	Type      EventType               `json:"type"`
	Timestamp string                  `json:"timestamp"`
	RunID     string                  `json:"run_id,omitempty"`
	Page      string                  `json:"page,omitempty"`
	Issue     analyzer.MappedIssue    `json:"issue"`
	Status    analyzer.BaselineStatus `json:"status"`
}

// EventsFromDiff converts baseline diff entries into notification events.
// Unchanged issues and new medium/low issues do not notify.
func EventsFromDiff(diff []analyzer.BaselineIssue, at time.Time) []Event {
	timestamp := at.UTC().Format(time.RFC3339)
	events := make([]Event, 0, len(diff))
	for i := range diff {
		item := &diff[i]
		eventType, ok := eventTypeForIssue(item)
		if !ok {
			continue
		}
		events = append(events, Event{
			Type:      eventType,
			Timestamp: timestamp,
			Issue:     item.MappedIssue,
			Status:    item.Status,
		})
	}
	return events
}

func eventTypeForIssue(item *analyzer.BaselineIssue) (EventType, bool) {
	switch item.Status {
	case analyzer.StatusResolved:
		return EventResolved, true
	case analyzer.StatusNew:
		switch item.SeverityLevel {
		case analyzer.SeverityCritical:
			return EventNewCritical, true
		case analyzer.SeverityHigh:
			return EventNewHigh, true
		}
	}
	return "", false
}

// DispatcherOptions hold the injectable pieces of a Dispatcher; zero values
// select production defaults.
type DispatcherOptions struct {
	DryRun     bool
	Writer     io.Writer
	HTTPClient *http.Client
	SendMail   func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error
}

// Dispatcher fans events out to the configured channels.
type Dispatcher struct {
	channels   []channel
	dryRun     bool
	writer     io.Writer
	httpClient *http.Client
	sendMail   func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error
}

type channelKind string

const (
	channelSlack   channelKind = "slack"
	channelWebhook channelKind = "webhook"
	channelEmail   channelKind = "email"
)

type channel struct {
	id   string
	kind channelKind
	on   map[EventType]bool

	url string

	// Email channel settings.
	smtpHost string
	smtpPort int
	from     string
	to       []string
}

// NewDispatcher builds a dispatcher from config file notification entries.
func NewDispatcher(cfgs []config.Notification, opts DispatcherOptions) (*Dispatcher, error) {
	channels, err := buildChannels(cfgs)
	if err != nil {
		return nil, err
	}
	if len(channels) == 0 {
		return nil, fmt.Errorf("no notification channels configured")
	}

	writer := opts.Writer
	if writer == nil {
		writer = io.Discard
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}

	sendMail := opts.SendMail
	if sendMail == nil {
		sendMail = smtp.SendMail
	}

	return &Dispatcher{
		channels:   channels,
		dryRun:     opts.DryRun,
		writer:     writer,
		httpClient: httpClient,
		sendMail:   sendMail,
	}, nil
}

func buildChannels(cfgs []config.Notification) ([]channel, error) {
	channels := make([]channel, 0, len(cfgs))
	for i, cfg := range cfgs {
		id := cfg.ID
		if id == "" {
			id = fmt.Sprintf("channel-%d", i)
		}

		on, err := parseEventFilters(cfg.Events)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", id, err)
		}

		ch := channel{id: id, kind: channelKind(cfg.Type), on: on}
		switch ch.kind {
		case channelWebhook, channelSlack:
			if cfg.URL == "" {
				return nil, fmt.Errorf("%s: url is required", id)
			}
			ch.url = os.ExpandEnv(cfg.URL)
		case channelEmail:
			if cfg.SMTPHost == "" || cfg.From == "" || len(cfg.To) == 0 {
				return nil, fmt.Errorf("%s: smtp_host, from, and to are required", id)
			}
			ch.smtpHost = cfg.SMTPHost
			ch.smtpPort = cfg.SMTPPort
			if ch.smtpPort == 0 {
				ch.smtpPort = 25
			}
			ch.from = cfg.From
			ch.to = cfg.To
		default:
			return nil, fmt.Errorf("%s: unsupported channel type %q", id, cfg.Type)
		}
		channels = append(channels, ch)
	}
	return channels, nil
}

// parseEventFilters validates the per-channel event list. An empty list
// subscribes the channel to every event type.
func parseEventFilters(raw []string) (map[EventType]bool, error) {
	on := make(map[EventType]bool, len(allEventTypes))
	if len(raw) == 0 {
		for _, et := range allEventTypes {
			on[et] = true
		}
		return on, nil
	}
	for _, r := range raw {
		et := EventType(strings.ToLower(strings.TrimSpace(r)))
		switch et {
		case EventNewCritical, EventNewHigh, EventResolved:
			on[et] = true
		default:
			return nil, fmt.Errorf("unknown event type %q", r)
		}
	}
	return on, nil
}

// Notify sends all events to all matching channels and aggregates non-fatal send errors.
func (d *Dispatcher) Notify(ctx context.Context, events []Event) error {
	var sendErrs []error

	for i := range events {
		event := &events[i]
		for _, ch := range d.channels {
			if !ch.on[event.Type] {
				continue
			}
			if err := d.sendEvent(ctx, ch, event); err != nil {
				sendErrs = append(sendErrs, fmt.Errorf("%s: %w", ch.id, err))
			}
		}
	}

	return errors.Join(sendErrs...)
}

func (d *Dispatcher) sendEvent(ctx context.Context, ch channel, event *Event) error {
	switch ch.kind {
	case channelSlack:
		payload, err := buildSlackPayload(event)
		if err != nil {
			return err
		}
		if d.dryRun {
			d.logDryRun(ch.id, event.Type, payload)
			return nil
		}
		return d.postJSON(ctx, ch.url, payload)
	case channelWebhook:
		payload, err := buildWebhookPayload(event)
		if err != nil {
			return err
		}
		if d.dryRun {
			d.logDryRun(ch.id, event.Type, payload)
			return nil
		}
		return d.postJSON(ctx, ch.url, payload)
	case channelEmail:
		subject, message := buildEmailMessage(event, &ch)
		if d.dryRun {
			d.logDryRun(ch.id, event.Type, []byte(subject))
			return nil
		}
		addr := fmt.Sprintf("%s:%d", ch.smtpHost, ch.smtpPort)
		return d.sendMail(addr, nil, ch.from, ch.to, message)
	default:
		return fmt.Errorf("unsupported channel type: %s", ch.kind)
	}
}

func (d *Dispatcher) postJSON(ctx context.Context, url string, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}

func (d *Dispatcher) logDryRun(channelID string, eventType EventType, payload []byte) {
	_, _ = fmt.Fprintf(d.writer, "[notify dry-run] channel=%s event=%s payload=%s\n", channelID, eventType, string(payload))
}

func buildWebhookPayload(event *Event) ([]byte, error) {
	return json.Marshal(event)
}

func buildSlackPayload(event *Event) ([]byte, error) {
	text := fmt.Sprintf("[%s] %s | %s (%s, fix: %s)",
		strings.ToUpper(string(event.Type)),
		event.Issue.IssueType,
		event.Issue.RegulationReference,
		event.Issue.ElementSelector,
		event.Issue.EstimatedFixTime,
	)
	return json.Marshal(map[string]string{"text": text})
}

func buildEmailMessage(event *Event, ch *channel) (string, []byte) {
	subject := fmt.Sprintf("sitespectre: %s %s", event.Type, event.Issue.Category)
	body := fmt.Sprintf(
		"Subject: %s\r\nFrom: %s\r\nTo: %s\r\n\r\n%s\n%s\nElement: %s\nSeverity: %s\nEstimated fix: %s\n",
		subject, ch.from, strings.Join(ch.to, ", "),
		event.Issue.IssueType,
		event.Issue.RegulationReference,
		event.Issue.ElementPath,
		event.Issue.SeverityLevel,
		event.Issue.EstimatedFixTime,
	)
	return subject, []byte(body)
}
