package sheets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/terraincognita07/ketchup/internal/services"
)

const maxValuesBytes = 4 << 20

var ErrSheetURLMissing = errors.New("sheet url not configured")

type Client struct {
	url   string
	token string
	http  *retryablehttp.Client
}

type Options struct {
	URL      string
	Token    string
	RetryMax int
	Timeout  time.Duration
}

func NewClient(options Options) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.Logger = log.New(io.Discard, "", 0)
	retryClient.RetryMax = options.RetryMax
	retryClient.RetryWaitMin = 100 * time.Millisecond
	retryClient.RetryWaitMax = 2 * time.Second
	if options.Timeout > 0 {
		retryClient.HTTPClient.Timeout = options.Timeout
	} else {
		retryClient.HTTPClient.Timeout = 15 * time.Second
	}

	return &Client{
		url:   strings.TrimSpace(options.URL),
		token: strings.TrimSpace(options.Token),
		http:  retryClient,
	}
}

// FetchRows downloads the values range and maps it to sheet rows.
func (client *Client) FetchRows(ctx context.Context) ([]services.SheetRow, error) {
	if client.url == "" {
		return nil, ErrSheetURLMissing
	}
	request, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, client.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build sheet request: %w", err)
	}
	request.Header.Set("Accept", "application/json")
	if client.token != "" {
		request.Header.Set("Authorization", "Bearer "+client.token)
	}

	response, err := client.http.Do(request)
	if err != nil {
		return nil, fmt.Errorf("fetch sheet: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch sheet: unexpected status %d", response.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(response.Body, maxValuesBytes))
	if err != nil {
		return nil, fmt.Errorf("read sheet body: %w", err)
	}
	return ParseValues(body)
}
