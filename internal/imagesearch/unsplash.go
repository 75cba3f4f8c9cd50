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

const unsplashBaseURL = "https://api.unsplash.com"

// unsplash searches https://unsplash.com via its public REST API.
type unsplash struct {
	accessKey string
	baseURL   string
	client    *http.Client
}

type unsplashResponse struct {
	Results []struct {
		ID             string  `json:"id"`
		AltDescription *string `json:"alt_description"`
		URLs           struct {
			Thumb   string `json:"thumb"`
			Regular string `json:"regular"`
		} `json:"urls"`
		Links struct {
			DownloadLocation string `json:"download_location"`
		} `json:"links"`
		User struct {
			Name string `json:"name"`
		} `json:"user"`
	} `json:"results"`
}

func (u *unsplash) Name() string { return "unsplash" }

func (u *unsplash) Search(ctx context.Context, query string) ([]Image, error) {
	if u.accessKey == "" {
		return nil, &ProviderError{Provider: u.Name(), Message: "Unsplash API key not configured (UNSPLASH_ACCESS_KEY)"}
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("per_page", strconv.Itoa(ResultLimit))
	params.Set("orientation", "landscape")

	var resp unsplashResponse
	err := getJSON(ctx, u.client, u.Name(), u.baseURL+"/search/photos?"+params.Encode(),
		map[string]string{"Authorization": "Client-ID " + u.accessKey}, &resp)
	if err != nil {
		return nil, err
	}

	images := make([]Image, 0, len(resp.Results))
	for _, p := range resp.Results {
		alt := "Photo"
		if p.AltDescription != nil && *p.AltDescription != "" {
			alt = *p.AltDescription
		}
		images = append(images, Image{
			ID:               p.ID,
			ThumbURL:         p.URLs.Thumb,
			RegularURL:       p.URLs.Regular,
			Alt:              alt,
			Photographer:     p.User.Name,
			DownloadLocation: p.Links.DownloadLocation,
		})
	}
	return images, nil
}
