// Package scb fetches monthly municipal population figures from the
// SCB (Statistics Sweden) PxWeb API.
package scb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/josaatt/josaatt.github.io/internal/model"
	"github.com/josaatt/josaatt.github.io/internal/period"
	"github.com/josaatt/josaatt.github.io/internal/providers"
)

const (
	defaultBaseURL        = "https://api.scb.se/ov0104/v2beta/api/v2/tables/TAB6471/data"
	defaultLang           = "sv"
	defaultContentsCode   = "000007SF"
	defaultAgeCode        = "TotSA"
	defaultSexCode        = "TotSa"
	defaultRegionCodelist = "vs_CKM03Kommun"
	defaultAgeCodelist    = "vs_CKM01AlderTot"
	defaultTimeoutSeconds = 45
	defaultUserAgent      = "josaatt.github.io/update-data"
)

// ErrNotPublished marks a 400-class rejection: SCB has not published the
// requested months yet. Callers treat it as an empty result, not a failure.
var ErrNotPublished = errors.New("scb: requested months not yet published")

// ErrMissingData marks a response without a usable DATA block.
var ErrMissingData = errors.New("scb: response missing DATA block")

// ErrRegionMismatch marks a response whose echoed region codes differ from
// the requested set. Accepting it would misalign every value index.
var ErrRegionMismatch = errors.New("scb: response region codes do not match request")

type Config struct {
	BaseURL        string
	Lang           string
	ContentsCode   string
	AgeCode        string
	SexCode        string
	RegionCodelist string
	AgeCodelist    string
	RegionCodes    []string
	RegionNames    map[string]string
	Timeout        time.Duration
	UserAgent      string
}

type Provider struct {
	config Config
	client *http.Client
}

func New() (*Provider, error) {
	return NewWithConfig(ConfigFromEnv())
}

func NewWithConfig(cfg Config) (*Provider, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if strings.TrimSpace(cfg.Lang) == "" {
		cfg.Lang = defaultLang
	}
	if strings.TrimSpace(cfg.ContentsCode) == "" {
		cfg.ContentsCode = defaultContentsCode
	}
	if strings.TrimSpace(cfg.AgeCode) == "" {
		cfg.AgeCode = defaultAgeCode
	}
	if strings.TrimSpace(cfg.SexCode) == "" {
		cfg.SexCode = defaultSexCode
	}
	if strings.TrimSpace(cfg.RegionCodelist) == "" {
		cfg.RegionCodelist = defaultRegionCodelist
	}
	if strings.TrimSpace(cfg.AgeCodelist) == "" {
		cfg.AgeCodelist = defaultAgeCodelist
	}
	if len(cfg.RegionCodes) == 0 {
		cfg.RegionCodes = DefaultRegionCodes()
	}
	if len(cfg.RegionNames) == 0 {
		cfg.RegionNames = DefaultRegionNames()
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeoutSeconds * time.Second
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}

	return &Provider{
		config: cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

func ConfigFromEnv() Config {
	cfg := Config{
		BaseURL:        getenv("SCB_BASE_URL", defaultBaseURL),
		Lang:           getenv("SCB_LANG", defaultLang),
		ContentsCode:   getenv("SCB_CONTENTS_CODE", defaultContentsCode),
		AgeCode:        getenv("SCB_AGE_CODE", defaultAgeCode),
		SexCode:        getenv("SCB_SEX_CODE", defaultSexCode),
		RegionCodelist: getenv("SCB_REGION_CODELIST", defaultRegionCodelist),
		AgeCodelist:    getenv("SCB_AGE_CODELIST", defaultAgeCodelist),
		UserAgent:      getenv("SCB_USER_AGENT", defaultUserAgent),
	}
	cfg.Timeout = time.Duration(getenvInt("SCB_TIMEOUT_SECONDS", defaultTimeoutSeconds)) * time.Second
	return cfg
}

// DefaultRegionCodes returns the tracked municipality codes in request order.
func DefaultRegionCodes() []string {
	return []string{"0581", "0680"} // Norrköping, Jönköping
}

// DefaultRegionNames maps municipality codes to the names stored in the dataset.
func DefaultRegionNames() map[string]string {
	return map[string]string{
		"0581": "Norrköping",
		"0680": "Jönköping",
	}
}

func (p *Provider) Name() string {
	return "scb"
}

// RegionNames returns the human-readable names of every tracked region.
func (p *Provider) RegionNames() []string {
	names := make([]string, 0, len(p.config.RegionCodes))
	for _, code := range p.config.RegionCodes {
		name, ok := p.config.RegionNames[code]
		if !ok {
			name = code
		}
		names = append(names, name)
	}
	return names
}

// FetchMonths issues one batched request covering every month in months
// and decodes the response into observations. A 400-class status yields
// ErrNotPublished; any other non-2xx status is a hard failure.
func (p *Provider) FetchMonths(ctx context.Context, months []period.Month) ([]model.Observation, error) {
	if len(months) == 0 {
		return nil, nil
	}

	body, err := p.doRequest(ctx, period.Tokens(months))
	if err != nil {
		return nil, err
	}
	return decodeTable(body, p.config.RegionCodes, p.config.RegionNames, months)
}

func (p *Provider) doRequest(ctx context.Context, tokens []string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.buildURL(tokens), nil)
	if err != nil {
		return nil, err
	}
	if p.config.UserAgent != "" {
		req.Header.Set("User-Agent", p.config.UserAgent)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("scb: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("scb: reading response: %w", err)
	}

	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		return nil, fmt.Errorf("%w (%s)", ErrNotPublished, resp.Status)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("scb: request failed (%s): %s", resp.Status, strings.TrimSpace(string(body)))
	}

	return body, nil
}

// buildURL assembles the query by hand: PxWeb expects the bracketed keys
// and comma-joined value lists verbatim, and url.Values would
// percent-encode both.
func (p *Provider) buildURL(tokens []string) string {
	pairs := []string{
		"lang=" + p.config.Lang,
		"valueCodes[ContentsCode]=" + p.config.ContentsCode,
		"valueCodes[Region]=" + strings.Join(p.config.RegionCodes, ","),
		"valueCodes[Alder]=" + p.config.AgeCode,
		"valueCodes[Kon]=" + p.config.SexCode,
		"codelist[Region]=" + p.config.RegionCodelist,
		"codelist[Alder]=" + p.config.AgeCodelist,
		"valueCodes[Tid]=" + strings.Join(tokens, ","),
	}
	return p.config.BaseURL + "?" + strings.Join(pairs, "&")
}

func getenv(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func getenvInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

var _ providers.Provider = (*Provider)(nil)
