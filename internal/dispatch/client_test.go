package dispatch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"whatsapp-notify/internal/config"
	"whatsapp-notify/internal/templates"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(endpoint string) *config.Config {
	return &config.Config{
		WhatsAppAPIKey:  "test-key",
		GatewayEndpoint: endpoint,
		SendTimeout:     5 * time.Second,
	}
}

func newTestClient(endpoint string) *Client {
	return NewClient(testConfig(endpoint), templates.Default())
}

func TestValidate_UnknownTemplate(t *testing.T) {
	client := newTestClient("http://gateway.invalid")

	err := client.Validate(SendRequest{
		TemplateID:   "not_a_real_template",
		Phone:        "919999999999",
		Args:         []string{},
		ArgsProvided: true,
	})
	require.Error(t, err)

	var unknown *UnknownTemplateError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "not_a_real_template", unknown.TemplateID)
	assert.Equal(t, templates.Default().IDs(), unknown.Available)
}

func TestValidate_MissingPhone(t *testing.T) {
	client := newTestClient("http://gateway.invalid")

	err := client.Validate(SendRequest{
		TemplateID:   "wallet_created",
		Args:         []string{"a", "b", "c"},
		ArgsProvided: true,
	})

	var missing *MissingPhoneError
	assert.ErrorAs(t, err, &missing)
}

func TestValidate_ArgsNotProvided(t *testing.T) {
	client := newTestClient("http://gateway.invalid")

	err := client.Validate(SendRequest{
		TemplateID: "wallet_created",
		Phone:      "919999999999",
	})

	var invalid *InvalidArgsError
	assert.ErrorAs(t, err, &invalid)
}

func TestValidate_ArgCountMismatch(t *testing.T) {
	client := newTestClient("http://gateway.invalid")

	err := client.Validate(SendRequest{
		TemplateID:   "wallet_created",
		Phone:        "919999999999",
		Args:         []string{"only one"},
		ArgsProvided: true,
	})
	require.Error(t, err)

	var count *ArgCountError
	require.ErrorAs(t, err, &count)
	assert.Equal(t, 3, count.Want)
	assert.Equal(t, 1, count.Got)

	def, ok := templates.Default().Lookup("wallet_created")
	require.True(t, ok)
	assert.Equal(t, def.ArgDescriptions, count.ArgDescriptions)
	assert.Equal(t, def.SampleArgs, count.SampleArgs)
}

// Sample args are always internally consistent with their template's declared
// count, so a send built from them must pass validation.
func TestValidate_SampleArgsRoundTrip(t *testing.T) {
	client := newTestClient("http://gateway.invalid")

	for _, def := range templates.Default().List() {
		err := client.Validate(SendRequest{
			TemplateID:   def.ID,
			Phone:        "919999999999",
			Args:         def.SampleArgs,
			ArgsProvided: true,
		})
		assert.NoError(t, err, "template %s", def.ID)
	}
}

func TestSend_ValidationFailureMakesNoNetworkCall(t *testing.T) {
	var calls int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	_, err := client.Send(context.Background(), SendRequest{
		TemplateID:   "wallet_created",
		Phone:        "919999999999",
		Args:         []string{"wrong", "count"},
		ArgsProvided: true,
	})
	require.Error(t, err)
	assert.Zero(t, atomic.LoadInt64(&calls))
}

func TestSend_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"message_id": "msg-123"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	result, err := client.Send(context.Background(), SendRequest{
		TemplateID:   "wallet_created",
		Phone:        "919999999999",
		Args:         []string{"Ravi Kumar", "Green Meadows", "WLT-10421"},
		ArgsProvided: true,
	})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "msg-123", result.MessageID)
}

func TestSend_GatewayError_ReturnsStructuredResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "internal"}`, http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	result, err := client.Send(context.Background(), SendRequest{
		TemplateID:   "wallet_created",
		Phone:        "919999999999",
		Args:         []string{"a", "b", "c"},
		ArgsProvided: true,
	})
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "gateway error")
}

func TestSend_TransportFailure_ReturnsStructuredResult(t *testing.T) {
	// Closed server: the dial fails, but Send still returns a Result.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := newTestClient(server.URL)

	result, err := client.Send(context.Background(), SendRequest{
		TemplateID:   "wallet_created",
		Phone:        "919999999999",
		Args:         []string{"a", "b", "c"},
		ArgsProvided: true,
	})
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Error)
}

func TestProbe_MapsOutcome(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id": "probe-1"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	result := client.Probe(context.Background())
	assert.True(t, result.Success)

	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer bad.Close()

	client = newTestClient(bad.URL)
	result = client.Probe(context.Background())
	assert.False(t, result.Success)
}

func TestFetchTemplateStatuses(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Write([]byte(`{"data": [
			{"name": "wallet_created", "status": "APPROVED"},
			{"name": "topup_success", "status": "pending"}
		]}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL + "/messages")

	statuses, err := client.FetchTemplateStatuses(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "approved", statuses["wallet_created"])
	assert.Equal(t, "pending", statuses["topup_success"])
}
