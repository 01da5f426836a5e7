package image

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/fekuna/omnipos-picklist-service/internal/apperr"
	"github.com/fekuna/omnipos-picklist-service/internal/model"
	"github.com/go-resty/resty/v2"
)

const DefaultBaseURL = "https://assets.icanet.se/t_minbutik_preview,f_auto"

type Config struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
}

// Image is a fetched photo.
type Image struct {
	ContentType string `json:"content_type"`
	Data        []byte `json:"data"`
}

// CDNClient fetches product photos keyed by the 13-digit zero-padded EAN.
type CDNClient struct {
	client  *resty.Client
	baseURL string
}

func NewCDNClient(cfg *Config) *CDNClient {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := resty.New().
		SetTimeout(timeout).
		SetHeader("User-Agent", cfg.UserAgent)

	return &CDNClient{client: client, baseURL: base}
}

// Fetch returns NotFound when the CDN has no photo for ean and Transient
// when the CDN cannot be reached.
func (c *CDNClient) Fetch(ctx context.Context, ean string) (*Image, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		Get(c.baseURL + "/" + model.PadEAN(ean) + ".jpg")
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, apperr.Wrap(apperr.KindTransient, err, "fetch image")
	}

	switch {
	case resp.StatusCode() == http.StatusOK:
	case resp.StatusCode() >= 500:
		return nil, apperr.New(apperr.KindTransient, "image cdn answered %d", resp.StatusCode())
	default:
		return nil, apperr.NotFound("image not found")
	}

	contentType := resp.Header().Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}
	return &Image{ContentType: contentType, Data: resp.Body()}, nil
}
