// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package qr

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"

	qrcode "github.com/skip2/go-qrcode"
)

// DefaultSize is the PNG edge length in pixels
const DefaultSize = 256

var ErrEmptyContent = errors.New("qr content is empty")

// VoteURL builds the public vote link for a question: baseURL?q=<id>.
// Existing query parameters on baseURL are kept.
func VoteURL(baseURL string, questionID int64) string {
	id := strconv.FormatInt(questionID, 10)

	u, err := url.Parse(baseURL)
	if err != nil {
		return baseURL + "?q=" + id
	}
	q := u.Query()
	q.Set("q", id)
	u.RawQuery = q.Encode()
	return u.String()
}

// PNG encodes content as a QR code image
func PNG(content string, size int) ([]byte, error) {
	if content == "" {
		return nil, ErrEmptyContent
	}
	if size <= 0 {
		size = DefaultSize
	}

	png, err := qrcode.Encode(content, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("failed to encode qr code: %w", err)
	}
	return png, nil
}
