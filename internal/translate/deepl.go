// Package translate wraps the DeepL text-translation API with the
// degradation policy the résumé workflow depends on: a failed or
// unconfigured translation returns the original text, never an error.
package translate

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tmoreau/cvfolio/internal/config"
)

// Translator translates a single piece of text between two languages.
// Implementations never fail: on any problem the input comes back
// unchanged.
type Translator interface {
	Translate(ctx context.Context, text, source, target string) string
}

// DeepL is the Translator backed by the DeepL HTTP API.
type DeepL struct {
	apiKey  string
	baseURL string
	timeout time.Duration
	client  *http.Client
}

func NewDeepL(cfg config.DeepLConfig) *DeepL {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = config.DefaultDeepLWait
	}
	return &DeepL{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		timeout: timeout,
		client:  &http.Client{},
	}
}

// Translate translates text from source to target.
//   - empty or whitespace-only text returns "" without a network call
//   - identical source and target returns the text unchanged
//   - any provider failure (missing key, timeout, non-2xx, malformed
//     body) falls back to the original text
func (d *DeepL) Translate(ctx context.Context, text, source, target string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	src := langOrDefault(source, "fr")
	tgt := langOrDefault(target, "en")
	if src == tgt {
		return text
	}
	if d.apiKey == "" {
		return text
	}

	out, err := d.request(ctx, text, src, tgt)
	if err != nil {
		log.Printf("translate: falling back to source text: %v", err)
		return text
	}
	return out
}

func (d *DeepL) request(ctx context.Context, text, source, target string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	form := url.Values{}
	form.Set("text", text)
	if code := normalizeLang(source); code != "" {
		form.Set("source_lang", code)
	}
	if code := normalizeLang(target); code != "" {
		form.Set("target_lang", code)
	}
	form.Set("preserve_formatting", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		d.baseURL+"/v2/translate", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "DeepL-Auth-Key "+d.apiKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := d.client.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		io.Copy(io.Discard, res.Body)
		return "", &statusError{status: res.StatusCode}
	}

	var body struct {
		Translations []struct {
			Text string `json:"text"`
		} `json:"translations"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return "", err
	}
	if len(body.Translations) == 0 || body.Translations[0].Text == "" {
		return "", &statusError{status: res.StatusCode, empty: true}
	}
	return body.Translations[0].Text, nil
}

type statusError struct {
	status int
	empty  bool
}

func (e *statusError) Error() string {
	if e.empty {
		return "provider returned no translation"
	}
	return "provider returned status " + http.StatusText(e.status)
}

func langOrDefault(code, fallback string) string {
	c := strings.ToLower(strings.TrimSpace(code))
	if c == "" {
		return fallback
	}
	return c
}

// normalizeLang maps two-letter codes to DeepL's vocabulary. Unknown
// codes are omitted and DeepL auto-detects.
func normalizeLang(code string) string {
	c := strings.ToLower(code)
	switch {
	case strings.HasPrefix(c, "fr"):
		return "FR"
	case strings.HasPrefix(c, "en"):
		return "EN"
	default:
		return ""
	}
}
