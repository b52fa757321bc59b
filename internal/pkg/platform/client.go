package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"syscall"
	"time"
)

const defaultTimeout = 10 * time.Second

// Error codes returned by the platform assignment endpoint
const (
	CodeBookingAlreadyExists = "BOOKING_ALREADY_EXISTS"
	CodeDateConflict         = "DATE_CONFLICT"
)

// APIError is a structured rejection from the platform, carrying the
// machine code and the human-readable message to surface verbatim.
type APIError struct {
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("platform error %s: %s", e.Code, e.Message)
}

// Client represents the booking platform HTTP client
type Client struct {
	baseURL string
	token   string
	ua      string
	http    *http.Client
}

// AssignmentPayload is the form model accepted by the platform's
// assignment endpoint.
type AssignmentPayload struct {
	BookingDateID string `json:"booking_date_id"`
	PropertyID    string `json:"property_id"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
	Postcode      string `json:"postcode"`

	ContractorName  string `json:"contractor_name"`
	ContractorEmail string `json:"contractor_email"`
	ContractorPhone string `json:"contractor_phone"`
	CompanyName     string `json:"company_name"`
	TeamSize        int    `json:"team_size"`

	PropertyName string `json:"property_name"`
	LandlordID   string `json:"landlord_id"`
	LandlordName string `json:"landlord_name"`
}

// Confirmation is a successful assignment acknowledgement
type Confirmation struct {
	Message string `json:"message"`
}

type assignmentResponse struct {
	Success bool `json:"success"`
	Data    *struct {
		Message string `json:"message"`
	} `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// NewClient creates a new platform client
func NewClient(baseURL, token string, timeout time.Duration, ua string) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		ua:      ua,
		http: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

// SubmitAssignment posts an assignment to the platform. A structured
// rejection comes back as *APIError; anything else is a transport or
// protocol error.
func (c *Client) SubmitAssignment(ctx context.Context, p AssignmentPayload) (*Confirmation, error) {
	if c == nil || c.http == nil {
		return nil, fmt.Errorf("platform assignment request error: client is nil")
	}
	if strings.TrimSpace(c.baseURL) == "" {
		return nil, fmt.Errorf("platform assignment config error: base_url is empty")
	}

	payload, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("platform assignment request error: %w", err)
	}

	url := c.baseURL + "/internal/admin/assignments"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(payload))
	if err != nil {
		return nil, fmt.Errorf("platform assignment request error: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if c.ua != "" {
		req.Header.Set("User-Agent", c.ua)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, classifyRequestError(ctx, err)
	}
	defer resp.Body.Close()

	body, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		return nil, fmt.Errorf("platform assignment http error: status=%d body=<failed to read body: %v>", resp.StatusCode, readErr)
	}

	var parsed assignmentResponse
	decodable := json.Unmarshal(body, &parsed) == nil

	if resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated {
		conf := &Confirmation{Message: "Assignment created"}
		if decodable && parsed.Data != nil && parsed.Data.Message != "" {
			conf.Message = parsed.Data.Message
		}
		return conf, nil
	}

	if decodable && parsed.Error != nil {
		return nil, &APIError{Code: parsed.Error.Code, Message: parsed.Error.Message}
	}

	return nil, fmt.Errorf("platform assignment http error: status=%d body=%s", resp.StatusCode, string(body))
}

func classifyRequestError(ctx context.Context, err error) error {
	if isTimeoutError(ctx, err) {
		return fmt.Errorf("platform assignment timeout: %w", err)
	}
	if isNetworkError(err) {
		return fmt.Errorf("platform assignment network error: %w", err)
	}
	return fmt.Errorf("platform assignment request error: %w", err)
}

func isTimeoutError(ctx context.Context, err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return false
}

func isNetworkError(err error) bool {
	if err == nil {
		return false
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		err = urlErr.Err
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}

	if errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ENETUNREACH) ||
		errors.Is(err, syscall.EHOSTUNREACH) {
		return true
	}

	return false
}
