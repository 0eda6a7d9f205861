package fhem

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	log "github.com/sirupsen/logrus"
)

const csrfTokenHeader = "X-FHEM-csrfToken"

// Client sends commands to an FHEM server.
type Client interface {
	SendCommand(ctx context.Context, command string) error
}

// WebClient talks to the FHEMWEB frontend over HTTP.
type WebClient struct {
	baseURL    string
	httpClient *http.Client
	csrfToken  string
	csrfRead   bool
}

func NewWebClient(protocol string, host string, port int, timeout time.Duration) *WebClient {
	return &WebClient{
		baseURL:    fmt.Sprintf("%s://%s:%d/fhem", protocol, host, port),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// SendCommand executes command like typing it into the FHEMWEB command line.
func (c *WebClient) SendCommand(ctx context.Context, command string) error {
	if !c.csrfRead {
		token, err := c.fetchCSRFToken(ctx)
		if err != nil {
			log.Errorf("Failed to obtain FHEM csrf token: %v", err)
			return err
		}
		c.csrfToken = token
		c.csrfRead = true
	}

	query := url.Values{}
	query.Set("cmd", command)
	query.Set("XHR", "1")
	if c.csrfToken != "" {
		query.Set("fwcsrf", c.csrfToken)
	}

	resp, err := c.get(ctx, c.baseURL+"?"+query.Encode())
	if err != nil {
		log.Errorf("Failed to execute request: %v", err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		err := fmt.Errorf("FHEM returned non-OK status: %d %s", resp.StatusCode, string(body))
		log.Error(err)
		return err
	}
	return nil
}

// fetchCSRFToken reads the token FHEMWEB hands out on every page; an empty token means csrf checks are off.
func (c *WebClient) fetchCSRFToken(ctx context.Context) (string, error) {
	resp, err := c.get(ctx, c.baseURL+"?XHR=1")
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("FHEM returned non-OK status: %d", resp.StatusCode)
	}
	return resp.Header.Get(csrfTokenHeader), nil
}

func (c *WebClient) get(ctx context.Context, requestURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, err
	}
	return c.httpClient.Do(req)
}
