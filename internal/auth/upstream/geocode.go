package upstream

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

const DefaultGeocodeBaseURL = "https://nominatim.openstreetmap.org"

// ErrNoAddress means the geocoder answered but knows no address there.
var ErrNoAddress = errors.New("no_address")

// Geocoder turns coordinates into a human readable address.
type Geocoder interface {
	Reverse(ctx context.Context, lat, lon float64) (string, error)
}

type nominatimReverse struct {
	DisplayName string `json:"display_name"`
	Error       string `json:"error"`
}

// NominatimGeocoder queries an OpenStreetMap Nominatim instance. Lookups
// are GETs and are retried once.
type NominatimGeocoder struct {
	client *resty.Client
}

// NewNominatimGeocoder needs a descriptive userAgent; the public instance
// rejects anonymous clients.
func NewNominatimGeocoder(baseURL, userAgent string, timeout time.Duration) *NominatimGeocoder {
	if baseURL == "" {
		baseURL = DefaultGeocodeBaseURL
	}
	return &NominatimGeocoder{
		client: withRetry(newClient(baseURL, ClampTimeout(timeout), userAgent)),
	}
}

func (g *NominatimGeocoder) Reverse(ctx context.Context, lat, lon float64) (string, error) {
	var out nominatimReverse
	resp, err := g.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"format": "jsonv2",
			"lat":    strconv.FormatFloat(lat, 'f', -1, 64),
			"lon":    strconv.FormatFloat(lon, 'f', -1, 64),
		}).
		SetResult(&out).
		Get("/reverse")
	if err := check("nominatim", resp, err); err != nil {
		return "", err
	}
	if out.Error != "" || out.DisplayName == "" {
		return "", ErrNoAddress
	}
	return out.DisplayName, nil
}
