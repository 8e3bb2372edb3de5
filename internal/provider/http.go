package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"

	"go.uber.org/zap"
)

const (
	apiRegister = "/api/register"
	apiLogin    = "/api/login"
	apiLogout   = "/api/logout"
)

// HTTPGateway implements Gateway against the ReelPlan backend's account
// endpoints using bearer tokens.
type HTTPGateway struct {
	client  *http.Client
	baseURL string
	log     *zap.Logger

	mu      sync.Mutex
	token   string
	current *Principal
	subs    map[int]func(*Principal)
	nextSub int
}

// NewHTTPGateway constructs a gateway talking to baseURL.
func NewHTTPGateway(client *http.Client, baseURL string, log *zap.Logger) *HTTPGateway {
	if client == nil {
		client = http.DefaultClient
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &HTTPGateway{
		client:  client,
		baseURL: baseURL,
		log:     log,
		subs:    make(map[int]func(*Principal)),
	}
}

// sessionResponse is the backend's reply to register and login.
type sessionResponse struct {
	Token     string    `json:"token"`
	Principal Principal `json:"principal"`
}

// SignIn exchanges credentials for a principal via POST /api/login.
func (g *HTTPGateway) SignIn(ctx context.Context, creds Credentials) (Principal, error) {
	return g.exchange(ctx, apiLogin, creds)
}

// SignUp registers a new account via POST /api/register.
func (g *HTTPGateway) SignUp(ctx context.Context, creds Credentials) (Principal, error) {
	return g.exchange(ctx, apiRegister, creds)
}

func (g *HTTPGateway) exchange(ctx context.Context, path string, creds Credentials) (Principal, error) {
	b, err := json.Marshal(creds)
	if err != nil {
		return Principal{}, fmt.Errorf("marshal credentials: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, bytes.NewReader(b))
	if err != nil {
		return Principal{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return Principal{}, fmt.Errorf("%s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Principal{}, fmt.Errorf("%s: status %d: %s", path, resp.StatusCode, bytes.TrimSpace(body))
	}

	var out sessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Principal{}, fmt.Errorf("%s: decode response: %w", path, err)
	}

	g.mu.Lock()
	g.token = out.Token
	p := out.Principal
	g.current = &p
	g.mu.Unlock()

	g.log.Debug("session established", zap.String("user", p.ID))
	g.notify(&p)
	return p, nil
}

// SignOut revokes the session via POST /api/logout. The local session is
// cleared and subscribers are notified even if the revoke call fails.
func (g *HTTPGateway) SignOut(ctx context.Context) error {
	g.mu.Lock()
	token := g.token
	g.token = ""
	g.current = nil
	g.mu.Unlock()

	defer g.notify(nil)

	if token == "" {
		return nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+apiLogout, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("logout: status %d", resp.StatusCode)
	}
	return nil
}

// OnChange registers fn on the change stream. The current principal is
// delivered asynchronously right after registration.
func (g *HTTPGateway) OnChange(fn func(*Principal)) Unsubscribe {
	g.mu.Lock()
	id := g.nextSub
	g.nextSub++
	g.subs[id] = fn
	current := g.current
	g.mu.Unlock()

	// Initial delivery mirrors every later notification: asynchronous,
	// after registration returns.
	go fn(current)

	return func() {
		g.mu.Lock()
		delete(g.subs, id)
		g.mu.Unlock()
	}
}

// Token returns the current bearer token, or "" when signed out.
func (g *HTTPGateway) Token() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.token
}

func (g *HTTPGateway) notify(p *Principal) {
	g.mu.Lock()
	fns := make([]func(*Principal), 0, len(g.subs))
	for _, fn := range g.subs {
		fns = append(fns, fn)
	}
	g.mu.Unlock()

	for _, fn := range fns {
		go fn(p)
	}
}
