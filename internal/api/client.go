// Package api is the portal's client for the healthcare REST backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/harentsoaR/healthcare-portal/internal/models"
)

const maxBodyBytes = 4 << 20

type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger
}

// NewClient builds a client for baseURL. A nil httpClient gets a default
// client with the given timeout.
func NewClient(baseURL string, httpClient *http.Client, timeout time.Duration, log *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		log:     log.Named("api"),
	}
}

// AuthResult is what login and registration return: the profile and an
// optional bearer token for subsequent reads.
type AuthResult struct {
	Token   string
	Profile models.Profile
}

type authEnvelope struct {
	Token   string          `json:"token"`
	Profile json.RawMessage `json:"profile"`
}

func (c *Client) Login(ctx context.Context, data models.LoginFormData) (*AuthResult, error) {
	return c.authenticate(ctx, "/auth/login", data)
}

func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (*AuthResult, error) {
	return c.authenticate(ctx, "/auth/register", req)
}

func (c *Client) authenticate(ctx context.Context, path string, body any) (*AuthResult, error) {
	var env authEnvelope
	if err := c.do(ctx, http.MethodPost, path, nil, "", body, &env); err != nil {
		return nil, err
	}
	if len(env.Profile) == 0 {
		return nil, fmt.Errorf("api: POST %s: response has no profile", path)
	}
	profile, err := models.ParseProfile(env.Profile)
	if err != nil {
		return nil, fmt.Errorf("api: POST %s: %w", path, err)
	}
	return &AuthResult{Token: env.Token, Profile: profile}, nil
}

// Doctors lists the doctor directory offered during patient registration.
func (c *Client) Doctors(ctx context.Context) ([]models.Doctor, error) {
	var doctors []models.Doctor
	if err := c.do(ctx, http.MethodGet, "/doctors", nil, "", nil, &doctors); err != nil {
		return nil, err
	}
	return doctors, nil
}

// Scope names whose records a panel reads: the held profile's role and id.
type Scope struct {
	Role  models.Role
	ID    models.ID
	Token string
}

func (s Scope) query() url.Values {
	return url.Values{string(s.Role): {s.ID.String()}}
}

func (c *Client) Appointments(ctx context.Context, s Scope) ([]models.Appointment, error) {
	var out []models.Appointment
	err := c.do(ctx, http.MethodGet, "/appointments", s.query(), s.Token, nil, &out)
	return out, err
}

func (c *Client) Medications(ctx context.Context, s Scope) ([]models.Medication, error) {
	var out []models.Medication
	err := c.do(ctx, http.MethodGet, "/medications", s.query(), s.Token, nil, &out)
	return out, err
}

func (c *Client) Advice(ctx context.Context, s Scope) ([]models.Advice, error) {
	var out []models.Advice
	err := c.do(ctx, http.MethodGet, "/advice", s.query(), s.Token, nil, &out)
	return out, err
}

func (c *Client) Reports(ctx context.Context, s Scope) ([]models.PatientReport, error) {
	var out []models.PatientReport
	err := c.do(ctx, http.MethodGet, "/reports", s.query(), s.Token, nil, &out)
	return out, err
}

func (c *Client) HealthMetrics(ctx context.Context, s Scope) ([]models.HealthMetric, error) {
	var out []models.HealthMetric
	err := c.do(ctx, http.MethodGet, "/health-metrics", s.query(), s.Token, nil, &out)
	return out, err
}

// Patients lists the patients assigned to the doctor in scope.
func (c *Client) Patients(ctx context.Context, s Scope) ([]models.Patient, error) {
	var out []models.Patient
	path := "/doctors/" + url.PathEscape(s.ID.String()) + "/patients"
	err := c.do(ctx, http.MethodGet, path, nil, s.Token, nil, &out)
	return out, err
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, token string, in, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("api: encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("api: build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("request failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return fmt.Errorf("api: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("api: read %s %s: %w", method, path, err)
	}
	c.log.Debug("request done",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("took", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{StatusCode: resp.StatusCode, Message: errorMessage(raw)}
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("api: decode %s %s: %w", method, path, err)
	}
	return nil
}
