// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package imagesearch

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

const pexelsBaseURL = "https://api.pexels.com/v1"

// pexels searches https://www.pexels.com. Pexels has no download tracking.
type pexels struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

type pexelsResponse struct {
	Photos []struct {
		ID  int64  `json:"id"`
		Alt string `json:"alt"`
		Src struct {
			Tiny  string `json:"tiny"`
			Large string `json:"large"`
		} `json:"src"`
		Photographer string `json:"photographer"`
	} `json:"photos"`
}

func (p *pexels) Name() string { return "pexels" }

func (p *pexels) Search(ctx context.Context, query string) ([]Image, error) {
	if p.apiKey == "" {
		return nil, &ProviderError{Provider: p.Name(), Message: "Pexels API key not configured (PEXELS_API_KEY)"}
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("per_page", strconv.Itoa(ResultLimit))
	params.Set("orientation", "landscape")

	var resp pexelsResponse
	err := getJSON(ctx, p.client, p.Name(), p.baseURL+"/search?"+params.Encode(),
		map[string]string{"Authorization": p.apiKey}, &resp)
	if err != nil {
		return nil, err
	}

	images := make([]Image, 0, len(resp.Photos))
	for _, ph := range resp.Photos {
		alt := ph.Alt
		if alt == "" {
			alt = "Photo"
		}
		images = append(images, Image{
			ID:           strconv.FormatInt(ph.ID, 10),
			ThumbURL:     ph.Src.Tiny,
			RegularURL:   ph.Src.Large,
			Alt:          alt,
			Photographer: ph.Photographer,
		})
	}
	return images, nil
}
