// Package restapi implements service.Service and service.Authenticator
// against the task manager REST backend.
package restapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"

	"taskboard/internal/config"
	"taskboard/internal/logging"
	"taskboard/internal/service"
	"taskboard/internal/session"
)

const (
	tasksPath  = "/tasks/"
	loginPath  = "/auth/login"
	signupPath = "/auth/signup"
)

// Client implements service.Service and service.Authenticator over HTTP.
// Task calls carry the session token as a bearer credential; auth calls
// go out without one.
type Client struct {
	baseURL string
	authed  *http.Client
	anon    *http.Client
	log     *slog.Logger
}

// New creates a client for the backend named in cfg. The token is read
// from store before every task request.
func New(cfg *config.Config, store session.Store, log *slog.Logger) *Client {
	return NewWithHTTPClient(cfg.APIURL, store, http.DefaultClient, log)
}

// NewWithHTTPClient creates a client on top of base (for testing).
func NewWithHTTPClient(baseURL string, store session.Store, base *http.Client, log *slog.Logger) *Client {
	if log == nil {
		log = logging.Discard()
	}
	authed := *base
	authed.Transport = &oauth2.Transport{
		Source: session.TokenSource(store),
		Base:   base.Transport,
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		authed:  &authed,
		anon:    base,
		log:     log,
	}
}

// SetLogger replaces the request logger. A nil log discards.
func (c *Client) SetLogger(log *slog.Logger) {
	if log == nil {
		log = logging.Discard()
	}
	c.log = log
}

// ListTasks implements service.Service.
func (c *Client) ListTasks(ctx context.Context) ([]service.Task, error) {
	var out []taskJSON
	if err := c.do(ctx, c.authed, http.MethodGet, tasksPath, nil, &out); err != nil {
		return nil, err
	}
	tasks := make([]service.Task, 0, len(out))
	for _, tj := range out {
		t, err := tj.toTask()
		if err != nil {
			return nil, failed(err)
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

// CreateTask implements service.Service.
func (c *Client) CreateTask(ctx context.Context, in service.TaskInput) (service.Task, error) {
	body := createJSON{
		Title:       in.Title,
		Description: in.Description,
		Status:      string(in.Status),
		DueDate:     formatTime(in.DueDate),
	}
	var out taskJSON
	if err := c.do(ctx, c.authed, http.MethodPost, tasksPath, body, &out); err != nil {
		return service.Task{}, err
	}
	t, err := out.toTask()
	if err != nil {
		return service.Task{}, failed(err)
	}
	return t, nil
}

// UpdateTask implements service.Service. The full task is sent,
// identifier and owner included.
func (c *Client) UpdateTask(ctx context.Context, id int64, t service.Task) (service.Task, error) {
	var out taskJSON
	if err := c.do(ctx, c.authed, http.MethodPut, taskPath(id), fromTask(t), &out); err != nil {
		return service.Task{}, err
	}
	updated, err := out.toTask()
	if err != nil {
		return service.Task{}, failed(err)
	}
	return updated, nil
}

// DeleteTask implements service.Service.
func (c *Client) DeleteTask(ctx context.Context, id int64) error {
	return c.do(ctx, c.authed, http.MethodDelete, taskPath(id), nil, nil)
}

// Login implements service.Authenticator.
func (c *Client) Login(ctx context.Context, email, password string) (service.Credential, error) {
	var out tokenJSON
	in := loginJSON{Email: email, Password: password}
	if err := c.do(ctx, c.anon, http.MethodPost, loginPath, in, &out); err != nil {
		return service.Credential{}, err
	}
	if out.AccessToken == "" {
		return service.Credential{}, failed(errors.New("login response has no access token"))
	}
	return service.Credential{AccessToken: out.AccessToken, TokenType: out.TokenType}, nil
}

// Signup implements service.Authenticator.
func (c *Client) Signup(ctx context.Context, name, email, password string) error {
	in := signupJSON{Name: name, Email: email, Password: password}
	return c.do(ctx, c.anon, http.MethodPost, signupPath, in, nil)
}

func taskPath(id int64) string {
	return "/tasks/" + strconv.FormatInt(id, 10)
}

// do sends one request and decodes a JSON response into out when out is
// non-nil. Every failure comes back as a *service.APIError.
func (c *Client) do(ctx context.Context, hc *http.Client, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return failed(err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return failed(err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := hc.Do(req)
	if err != nil {
		c.log.Debug("request failed", "method", method, "path", path, "err", err)
		return wrapTransportError(err)
	}
	defer res.Body.Close()
	c.log.Debug("request", "method", method, "path", path, "status", res.StatusCode)

	if err := googleapi.CheckResponse(res); err != nil {
		return wrapError(err)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return failed(fmt.Errorf("invalid response body: %w", err))
	}
	return nil
}

func failed(err error) error {
	return &service.APIError{Kind: service.KindFailed, Err: err}
}

// wrapTransportError classifies an error from http.Client.Do. A missing
// session token surfaces here, from the oauth2 transport.
func wrapTransportError(err error) error {
	if errors.Is(err, session.ErrNoToken) {
		return &service.APIError{Kind: service.KindUnauthorized, Err: err}
	}
	return failed(err)
}

// wrapError turns a non-2xx response into a *service.APIError.
func wrapError(err error) error {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return failed(err)
	}

	apiErr := &service.APIError{
		StatusCode: gerr.Code,
		Detail:     parseDetail(gerr.Body),
		Err:        err,
	}
	switch {
	case gerr.Code == http.StatusUnauthorized:
		apiErr.Kind = service.KindUnauthorized
	case gerr.Code >= 400 && gerr.Code < 500:
		apiErr.Kind = service.KindRejected
	default:
		apiErr.Kind = service.KindFailed
	}
	return apiErr
}

// parseDetail extracts the human-readable message from an error body.
// The backend sends {"detail": "..."} for handled errors and
// {"detail": [{"msg": "..."}, ...]} for request validation failures.
func parseDetail(body string) string {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal([]byte(body), &envelope); err != nil || len(envelope.Detail) == 0 {
		return ""
	}

	var msg string
	if err := json.Unmarshal(envelope.Detail, &msg); err == nil {
		return msg
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(envelope.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if it.Msg != "" {
				msgs = append(msgs, it.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return ""
}
