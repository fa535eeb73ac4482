package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/shopspring/decimal"

	"khidma/pkg/logger"
	"khidma/pkg/utils"
)

type Config struct {
	BaseURL     string
	ProfileID   string
	ServerKey   string
	Currency    string
	CallbackURL string
	ReturnURL   string
	Timeout     time.Duration
}

type Customer struct {
	Name  string
	Email string
	Phone string
}

type InitiateParams struct {
	CartID      string
	Amount      decimal.Decimal
	Description string
	Customer    Customer
}

// InitiateResult carries the gateway-assigned transaction reference and the
// hosted payment page the user must be redirected to.
type InitiateResult struct {
	TranRef     string
	RedirectURL string
}

type VerificationResult struct {
	TranRef         string
	ResponseStatus  string
	ResponseCode    string
	ResponseMessage string
}

// Authorized reports a definitive successful payment.
func (v *VerificationResult) Authorized() bool {
	return v.ResponseStatus == "A"
}

// Final reports whether the gateway verdict is terminal. Pending and hold
// statuses are not final and must not drive any ledger transition.
func (v *VerificationResult) Final() bool {
	switch v.ResponseStatus {
	case "A", "D", "E", "V", "C":
		return true
	}
	return false
}

type Client interface {
	Initiate(ctx context.Context, p InitiateParams) (*InitiateResult, error)
	Verify(ctx context.Context, tranRef string) (*VerificationResult, error)
}

type payTabsClient struct {
	cfg  Config
	http *retryablehttp.Client
	log  *logger.Logger
}

func NewPayTabsClient(cfg Config, log *logger.Logger) Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 2
	rc.Logger = nil
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	rc.HTTPClient.Timeout = cfg.Timeout

	return &payTabsClient{cfg: cfg, http: rc, log: log}
}

type initiateRequest struct {
	ProfileID       string          `json:"profile_id"`
	TranType        string          `json:"tran_type"`
	TranClass       string          `json:"tran_class"`
	CartID          string          `json:"cart_id"`
	CartCurrency    string          `json:"cart_currency"`
	CartAmount      decimal.Decimal `json:"cart_amount"`
	CartDescription string          `json:"cart_description"`
	Callback        string          `json:"callback"`
	Return          string          `json:"return"`
	CustomerDetails customerDetails `json:"customer_details"`
}

type customerDetails struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

type initiateResponse struct {
	TranRef     string `json:"tran_ref"`
	RedirectURL string `json:"redirect_url"`
}

type queryRequest struct {
	ProfileID string `json:"profile_id"`
	TranRef   string `json:"tran_ref"`
}

type queryResponse struct {
	TranRef       string `json:"tran_ref"`
	PaymentResult *struct {
		ResponseStatus  string `json:"response_status"`
		ResponseCode    string `json:"response_code"`
		ResponseMessage string `json:"response_message"`
	} `json:"payment_result"`
}

func (c *payTabsClient) Initiate(ctx context.Context, p InitiateParams) (*InitiateResult, error) {
	body := initiateRequest{
		ProfileID:       c.cfg.ProfileID,
		TranType:        "sale",
		TranClass:       "ecom",
		CartID:          p.CartID,
		CartCurrency:    c.cfg.Currency,
		CartAmount:      p.Amount,
		CartDescription: p.Description,
		Callback:        c.cfg.CallbackURL,
		Return:          c.cfg.ReturnURL,
		CustomerDetails: customerDetails{
			Name:  p.Customer.Name,
			Email: p.Customer.Email,
			Phone: p.Customer.Phone,
		},
	}

	raw, err := c.post(ctx, "/payment/request", body)
	if err != nil {
		return nil, errors.Mark(err, utils.ErrGatewayUnavailable)
	}

	var resp initiateResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "decode payment/request response"), utils.ErrGatewayUnavailable)
	}
	if resp.RedirectURL == "" || resp.TranRef == "" {
		return nil, errors.Mark(errors.Newf("payment/request response missing redirect_url (cart %s)", p.CartID), utils.ErrGatewayUnavailable)
	}

	return &InitiateResult{TranRef: resp.TranRef, RedirectURL: resp.RedirectURL}, nil
}

// Verify queries the authoritative payment status for a tran_ref. Any
// transport or decoding failure is undetermined, never a decline.
func (c *payTabsClient) Verify(ctx context.Context, tranRef string) (*VerificationResult, error) {
	raw, err := c.post(ctx, "/payment/query", queryRequest{ProfileID: c.cfg.ProfileID, TranRef: tranRef})
	if err != nil {
		return nil, errors.Mark(err, utils.ErrVerificationUndetermined)
	}

	var resp queryResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "decode payment/query response"), utils.ErrVerificationUndetermined)
	}
	if resp.PaymentResult == nil {
		return nil, errors.Mark(errors.Newf("payment/query response missing payment_result (tran_ref %s)", tranRef), utils.ErrVerificationUndetermined)
	}

	return &VerificationResult{
		TranRef:         resp.TranRef,
		ResponseStatus:  resp.PaymentResult.ResponseStatus,
		ResponseCode:    resp.PaymentResult.ResponseCode,
		ResponseMessage: resp.PaymentResult.ResponseMessage,
	}, nil
}

func (c *payTabsClient) post(ctx context.Context, path string, body any) ([]byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, errors.Wrap(err, "encode gateway request")
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, errors.Wrap(err, "build gateway request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", c.cfg.ServerKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "gateway %s", path)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "read gateway %s response", path)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Warnf("gateway %s returned %d: %s", path, resp.StatusCode, string(raw))
		return nil, errors.Newf("gateway %s returned status %d", path, resp.StatusCode)
	}

	return raw, nil
}
