// Package pokeapi provides the species lookup client.
package pokeapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"favedex/internal/model"
	"github.com/patrickmn/go-cache"
)

// DefaultBaseURL is the public species endpoint.
const DefaultBaseURL = "https://pokeapi.co/api/v2/pokemon"

const (
	requestTimeout = 15 * time.Second
	cacheTTL       = 10 * time.Minute
	cacheSweep     = 15 * time.Minute
)

// ErrNotFound covers every failed lookup: bad status, transport failure or
// an unparseable body. Callers present it as "not found".
var ErrNotFound = errors.New("species not found")

// Client fetches species records over HTTP. Successful lookups are cached
// by normalized term so repeated searches skip the network.
type Client struct {
	baseURL string
	client  *http.Client
	cache   *cache.Cache
}

// NewClient creates a client against the public endpoint.
func NewClient() *Client {
	return NewClientWithBase(DefaultBaseURL)
}

// NewClientWithBase creates a client against a custom endpoint.
func NewClientWithBase(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: requestTimeout},
		cache:   cache.New(cacheTTL, cacheSweep),
	}
}

// speciesResponse represents the API response for one species.
type speciesResponse struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Sprites struct {
		FrontDefault string `json:"front_default"`
	} `json:"sprites"`
	Types []struct {
		Type struct {
			Name string `json:"name"`
		} `json:"type"`
	} `json:"types"`
	Height int `json:"height"`
	Weight int `json:"weight"`
}

// Lookup fetches the species for a search term. The term is lowercased and
// trimmed before the request.
func (c *Client) Lookup(ctx context.Context, term string) (model.Species, error) {
	name := strings.ToLower(strings.TrimSpace(term))
	if name == "" {
		return model.Species{}, ErrNotFound
	}

	if hit, ok := c.cache.Get(name); ok {
		return hit.(model.Species), nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+url.PathEscape(name), nil)
	if err != nil {
		return model.Species{}, fmt.Errorf("build request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return model.Species{}, fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return model.Species{}, fmt.Errorf("%w: status %d", ErrNotFound, resp.StatusCode)
	}

	var sr speciesResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return model.Species{}, fmt.Errorf("%w: %v", ErrNotFound, err)
	}

	sp := model.Species{
		ID:     sr.ID,
		Name:   sr.Name,
		Sprite: sr.Sprites.FrontDefault,
		Height: sr.Height,
		Weight: sr.Weight,
	}
	for _, t := range sr.Types {
		sp.Types = append(sp.Types, t.Type.Name)
	}

	c.cache.Set(name, sp, cache.DefaultExpiration)
	return sp, nil
}
