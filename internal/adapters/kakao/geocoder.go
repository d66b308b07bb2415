package kakao

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/samirrijal/routedesk/internal/core/domain"
)

// Geocoder implements ports.Geocoder with Kakao Local address search.
type Geocoder struct {
	client *Client
}

// NewGeocoder creates a geocoder. baseURL defaults to DefaultLocalURL when empty.
func NewGeocoder(baseURL, apiKey string, opts ...Option) *Geocoder {
	if baseURL == "" {
		baseURL = DefaultLocalURL
	}
	return &Geocoder{client: newClient(baseURL, apiKey, opts...)}
}

type addressResponse struct {
	Documents []struct {
		AddressName string `json:"address_name"`
		X           string `json:"x"`
		Y           string `json:"y"`
	} `json:"documents"`
}

// Geocode returns the first match for address, or nil when there is none.
func (g *Geocoder) Geocode(ctx context.Context, address string) (*domain.Coordinate, error) {
	var out addressResponse
	path := "/v2/local/search/address.json?query=" + url.QueryEscape(address)
	if err := g.client.getJSON(ctx, path, &out); err != nil {
		return nil, fmt.Errorf("geocode %q: %w", address, err)
	}
	if len(out.Documents) == 0 {
		return nil, nil
	}

	doc := out.Documents[0]
	lng, err := strconv.ParseFloat(doc.X, 64)
	if err != nil {
		return nil, fmt.Errorf("geocode %q: bad x %q: %w", address, doc.X, err)
	}
	lat, err := strconv.ParseFloat(doc.Y, 64)
	if err != nil {
		return nil, fmt.Errorf("geocode %q: bad y %q: %w", address, doc.Y, err)
	}
	c := domain.Coordinate{Lat: lat, Lng: lng}
	if !c.Valid() {
		return nil, nil
	}
	return &c, nil
}
