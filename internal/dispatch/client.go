package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"whatsapp-notify/internal/config"
	"whatsapp-notify/internal/templates"

	"github.com/sirupsen/logrus"
)

// ProbeTimeout bounds health-check probe calls. Production sends use the
// configurable Config.SendTimeout instead.
const ProbeTimeout = 5 * time.Second

// Client issues outbound template sends against the messaging gateway.
// Validation happens in full before any network call; transport failures are
// returned inside Result, never as an error, so callers always get a
// structured outcome.
type Client struct {
	cfg      *config.Config
	registry *templates.Registry
	http     *http.Client
}

func NewClient(cfg *config.Config, registry *templates.Registry) *Client {
	return &Client{
		cfg:      cfg,
		registry: registry,
		http:     &http.Client{},
	}
}

// Configured reports whether the gateway credential is set.
func (c *Client) Configured() bool {
	return c.cfg.GatewayConfigured()
}

type SendRequest struct {
	TemplateID string
	Phone      string
	Args       []string
	// ArgsProvided distinguishes an explicit empty argument list from an
	// absent or malformed field in the inbound JSON.
	ArgsProvided bool
}

type Result struct {
	Success   bool
	MessageID string
	Error     string
}

// gatewayPayload is the wire body the gateway expects for button template
// sends.
type gatewayPayload struct {
	Type             string   `json:"type"`
	TemplateID       string   `json:"templateId"`
	TemplateLanguage string   `json:"templateLanguage"`
	SenderPhone      string   `json:"sender_phone"`
	TemplateArgs     []string `json:"templateArgs"`
}

// Validation error types. Each maps to its own 400 response; none of them is
// produced after the network call has been issued.

type UnknownTemplateError struct {
	TemplateID string
	Available  []string
}

func (e *UnknownTemplateError) Error() string {
	return fmt.Sprintf("unknown template %q", e.TemplateID)
}

type MissingPhoneError struct{}

func (e *MissingPhoneError) Error() string {
	return "phone is required"
}

type InvalidArgsError struct{}

func (e *InvalidArgsError) Error() string {
	return "templateArgs must be an array of strings"
}

type ArgCountError struct {
	TemplateID      string
	Got             int
	Want            int
	ArgDescriptions []string
	SampleArgs      []string
}

func (e *ArgCountError) Error() string {
	return fmt.Sprintf("template %q expects %d arguments, got %d", e.TemplateID, e.Want, e.Got)
}

// Validate runs the pre-send checks in contract order. Exposed separately so
// the send endpoints can reject bad input without constructing a client call.
func (c *Client) Validate(req SendRequest) error {
	def, ok := c.registry.Lookup(req.TemplateID)
	if !ok {
		return &UnknownTemplateError{TemplateID: req.TemplateID, Available: c.registry.IDs()}
	}
	if req.Phone == "" {
		return &MissingPhoneError{}
	}
	if !req.ArgsProvided {
		return &InvalidArgsError{}
	}
	if len(req.Args) != def.ArgCount {
		return &ArgCountError{
			TemplateID:      req.TemplateID,
			Got:             len(req.Args),
			Want:            def.ArgCount,
			ArgDescriptions: def.ArgDescriptions,
			SampleArgs:      def.SampleArgs,
		}
	}
	return nil
}

// Send validates and dispatches one template message. The returned error is
// non-nil only for validation failures; once the request reaches the network
// all outcomes land in Result.
func (c *Client) Send(ctx context.Context, req SendRequest) (Result, error) {
	if err := c.Validate(req); err != nil {
		return Result{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.SendTimeout)
	defer cancel()

	return c.post(ctx, gatewayPayload{
		Type:             "buttonTemplate",
		TemplateID:       req.TemplateID,
		TemplateLanguage: "en",
		SenderPhone:      req.Phone,
		TemplateArgs:     req.Args,
	}), nil
}

// Probe issues one bounded dummy send to verify gateway reachability. Used by
// the health check only.
func (c *Client) Probe(ctx context.Context) Result {
	ctx, cancel := context.WithTimeout(ctx, ProbeTimeout)
	defer cancel()

	defs := c.registry.List()
	if len(defs) == 0 {
		return Result{Success: false, Error: "no templates registered"}
	}
	probe := defs[0]

	return c.post(ctx, gatewayPayload{
		Type:             "buttonTemplate",
		TemplateID:       probe.ID,
		TemplateLanguage: "en",
		SenderPhone:      "910000000000",
		TemplateArgs:     probe.SampleArgs,
	})
}

func (c *Client) post(ctx context.Context, payload gatewayPayload) Result {
	body, err := json.Marshal(payload)
	if err != nil {
		return Result{Success: false, Error: "failed to encode request: " + err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.GatewayEndpoint, bytes.NewBuffer(body))
	if err != nil {
		return Result{Success: false, Error: err.Error()}
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.WhatsAppAPIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		logrus.WithError(err).WithField("templateId", payload.TemplateID).Error("Gateway request failed")
		return Result{Success: false, Error: err.Error()}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{Success: false, Error: "failed to read gateway response: " + err.Error()}
	}

	if resp.StatusCode >= 300 {
		logrus.WithFields(logrus.Fields{
			"templateId": payload.TemplateID,
			"status":     resp.StatusCode,
		}).Error("Gateway rejected send")
		return Result{
			Success: false,
			Error:   fmt.Sprintf("gateway error: %s - %s", resp.Status, strings.TrimSpace(string(respBody))),
		}
	}

	return Result{Success: true, MessageID: extractMessageID(respBody)}
}

// extractMessageID probes the gateway response loosely; different gateway
// versions have used different field names.
func extractMessageID(body []byte) string {
	var parsed map[string]interface{}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return ""
	}
	for _, key := range []string{"messageId", "message_id", "id"} {
		if v, ok := parsed[key].(string); ok && v != "" {
			return v
		}
	}
	if data, ok := parsed["data"].(map[string]interface{}); ok {
		for _, key := range []string{"messageId", "message_id", "id"} {
			if v, ok := data[key].(string); ok && v != "" {
				return v
			}
		}
	}
	return ""
}

// FetchTemplateStatuses queries the gateway for the review status of every
// registered template. The response shape is tolerated loosely: a top-level
// "data" list of objects with "name"/"templateId" and "status".
func (c *Client) FetchTemplateStatuses(ctx context.Context) (map[string]string, error) {
	url := strings.TrimSuffix(c.cfg.GatewayEndpoint, "/messages") + "/templates"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.WhatsAppAPIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("gateway error: %s - %s", resp.Status, strings.TrimSpace(string(respBody)))
	}

	var parsed struct {
		Data []map[string]interface{} `json:"data"`
	}
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("invalid template status response: %w", err)
	}

	statuses := make(map[string]string, len(parsed.Data))
	for _, item := range parsed.Data {
		name, _ := item["name"].(string)
		if name == "" {
			name, _ = item["templateId"].(string)
		}
		status, _ := item["status"].(string)
		if name != "" {
			statuses[name] = strings.ToLower(status)
		}
	}
	return statuses, nil
}
