package api

import (
	"context"
	"encoding/json"
	"fmt"
	"mkworld-overlay/internal/config"
	"mkworld-overlay/internal/constants"
	"mkworld-overlay/internal/domain"
	"mkworld-overlay/internal/metrics"
	"net/url"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
)

type LoungeClient struct {
	baseURL   string
	userAgent string
	timeout   time.Duration
	client    *fasthttp.Client
	metrics   *metrics.Metrics
}

func NewLoungeClient(cfg *config.Config, m *metrics.Metrics) *LoungeClient {
	return NewLoungeClientWith(cfg.UpstreamBaseURL, cfg.UpstreamTimeout, m)
}

func NewLoungeClientWith(baseURL string, timeout time.Duration, m *metrics.Metrics) *LoungeClient {
	if m == nil {
		m = metrics.Nop()
	}
	return &LoungeClient{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: constants.LoungeUserAgent,
		timeout:   timeout,
		client: &fasthttp.Client{
			MaxConnsPerHost:     100,
			ReadTimeout:         timeout,
			WriteTimeout:        timeout,
			MaxIdleConnDuration: 1 * time.Minute,
		},
		metrics: m,
	}
}

// GetPlayerDetails fetches one lounge player. name must already be trimmed
// and validated.
func (c *LoungeClient) GetPlayerDetails(ctx context.Context, name string, variant domain.Variant) (*PlayerDetailsResponse, error) {
	query := url.Values{}
	query.Set("name", name)
	query.Set("game", variant.UpstreamTag())
	uri := fmt.Sprintf("%s/api/player/details?%s", c.baseURL, query.Encode())

	return doRequest[PlayerDetailsResponse](ctx, c, uri)
}

func (c *LoungeClient) deadline(ctx context.Context) time.Time {
	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		return d
	}
	return deadline
}

func doRequest[T any](ctx context.Context, client *LoungeClient, uri string) (*T, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(uri)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.SetUserAgent(client.userAgent)
	req.Header.Set("Accept", "application/json")

	if err := ctx.Err(); err != nil {
		client.observe("network", time.Now())
		return nil, &Error{Kind: ErrNetwork, Err: err}
	}

	start := time.Now()
	if err := client.client.DoDeadline(req, resp, client.deadline(ctx)); err != nil {
		client.observe("network", start)
		return nil, &Error{Kind: ErrNetwork, Err: err}
	}

	status := resp.StatusCode()
	if status < 200 || status > 299 {
		client.observe("status", start)
		body := strings.TrimSpace(string(resp.Body()))
		return nil, &Error{Kind: ErrUpstreamStatus, Status: status, Body: body}
	}

	var result T
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		client.observe("decode", start)
		return nil, &Error{Kind: ErrDecode, Err: err}
	}

	client.observe("ok", start)
	return &result, nil
}

func (c *LoungeClient) observe(outcome string, start time.Time) {
	c.metrics.UpstreamRequests.WithLabelValues(outcome).Inc()
	c.metrics.UpstreamDuration.Observe(time.Since(start).Seconds())
}

type PlayerDetailsResponse struct {
	PlayerID        int         `json:"playerId"`
	Name            string      `json:"name"`
	CountryCode     string      `json:"countryCode"`
	CountryName     string      `json:"countryName"`
	Mmr             *float64    `json:"mmr"`
	MaxMmr          *float64    `json:"maxMmr"`
	OverallRank     *int        `json:"overallRank"`
	EventsPlayed    *int        `json:"eventsPlayed"`
	WinRate         *float64    `json:"winRate"`
	WinLossLastTen  string      `json:"winLossLastTen"`
	GainLossLastTen *int        `json:"gainLossLastTen"`
	LargestGain     *int        `json:"largestGain"`
	AverageScore    *float64    `json:"averageScore"`
	AverageLastTen  *float64    `json:"averageLastTen"`
	Rank            string      `json:"rank"`
	MmrChanges      []MmrChange `json:"mmrChanges"`
}

// MmrChange is one entry of the player's history, most recent first.
type MmrChange struct {
	ChangeID      *int   `json:"changeId"`
	NewMmr        *int   `json:"newMmr"`
	MmrDelta      *int   `json:"mmrDelta"`
	Reason        string `json:"reason"`
	Time          string `json:"time"`
	Score         *int   `json:"score"`
	PartnerScores []int  `json:"partnerScores"`
	NumTeams      *int   `json:"numTeams"`
}
