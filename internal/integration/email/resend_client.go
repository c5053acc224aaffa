package email

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"sort"
	"strings"

	"github.com/resend/resend-go/v2"

	"github.com/boi-gordo/backend/internal/application/adapter"
	domainerror "github.com/boi-gordo/backend/internal/domain/error"
)

// rejectionMarkers are fragments of Resend error messages for requests that
// will fail the same way on every retry.
var rejectionMarkers = []string{
	"401", "403", "422",
	"unauthorized", "forbidden", "validation", "invalid", "bad request", "missing",
}

// ResendClient sends alerts through the Resend API.
type ResendClient struct {
	client *resend.Client
	from   string
}

// NewResendClient creates a new Resend client sending as "fromName <fromEmail>".
func NewResendClient(apiKey, fromName, fromEmail string) *ResendClient {
	return &ResendClient{
		client: resend.NewClient(apiKey),
		from:   fmt.Sprintf("%s <%s>", fromName, fromEmail),
	}
}

// WithBaseURL points the client at another Resend-compatible endpoint.
func (c *ResendClient) WithBaseURL(raw string) error {
	if !strings.HasSuffix(raw, "/") {
		raw += "/"
	}
	baseURL, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid resend base url: %w", err)
	}
	c.client.BaseURL = baseURL
	return nil
}

// Send delivers one alert and returns the Resend message ID.
func (c *ResendClient) Send(ctx context.Context, message adapter.AlertMessage) (string, error) {
	request := &resend.SendEmailRequest{
		From:    c.from,
		To:      []string{message.To},
		Subject: message.Subject,
		Html:    message.HTML,
		Text:    message.Text,
		Tags:    tags(message.Tags),
	}

	resp, err := c.client.Emails.SendWithContext(ctx, request)
	if err != nil {
		return "", classify(err)
	}
	return resp.Id, nil
}

func tags(values map[string]string) []resend.Tag {
	if len(values) == 0 {
		return nil
	}
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]resend.Tag, len(names))
	for i, name := range names {
		out[i] = resend.Tag{Name: name, Value: values[name]}
	}
	return out
}

// classify maps a Resend error to a coded alert error. Transport failures and
// cancellations are temporary; so is anything the provider did not reject outright.
func classify(err error) error {
	var netErr net.Error
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || errors.As(err, &netErr) {
		return domainerror.NewAlertError(domainerror.ErrCodeAlertTemporaryFailure, "alert provider unreachable", err)
	}

	message := strings.ToLower(err.Error())
	for _, marker := range rejectionMarkers {
		if strings.Contains(message, marker) {
			return domainerror.NewAlertError(
				domainerror.ErrCodeAlertPermanentFailure,
				"alert rejected by provider",
				errors.Join(domainerror.ErrAlertRejected, err),
			)
		}
	}

	return domainerror.NewAlertError(domainerror.ErrCodeAlertTemporaryFailure, "alert provider failed", err)
}

var _ adapter.AlertSender = (*ResendClient)(nil)
