// Package geocode resolves coordinates to a country name through the
// BigDataCloud reverse geocoding endpoint, which needs no API key.
package geocode

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

// FallbackCountry is shown when the upstream answer carries no usable name.
const FallbackCountry = "Desconocido"

type reverseResponse struct {
	CountryName string `json:"countryName"`
	CountryCode string `json:"countryCode"`
}

type Client struct {
	http *resty.Client
}

// New builds a client against baseURL, e.g.
// "https://api.bigdatacloud.net/data/reverse-geocode-client".
func New(baseURL string, timeout time.Duration) *Client {
	c := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout)
	return &Client{http: c}
}

// CountryName resolves lat/lon to a Spanish country name. Missing fields
// degrade to the country code and finally to FallbackCountry; transport
// errors are returned so callers can decide whether to hide the badge.
func (c *Client) CountryName(ctx context.Context, lat, lon float64) (string, error) {
	var out reverseResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"latitude":         strconv.FormatFloat(lat, 'f', -1, 64),
			"longitude":        strconv.FormatFloat(lon, 'f', -1, 64),
			"localityLanguage": "es",
		}).
		SetResult(&out).
		Get("")
	if err != nil {
		return "", err
	}
	if resp.IsError() {
		return "", fmt.Errorf("geocode: respuesta %s del servicio inverso", resp.Status())
	}

	if out.CountryName != "" {
		return out.CountryName, nil
	}
	if out.CountryCode != "" {
		return out.CountryCode, nil
	}
	return FallbackCountry, nil
}
