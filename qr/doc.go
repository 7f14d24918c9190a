// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package qr builds public vote links and encodes them as QR code images.

	link := qr.VoteURL(cfg.BaseURL, questionID) // https://host/vote?q=12
	png, err := qr.PNG(link, qr.DefaultSize)

Images are PNG, medium error correction (github.com/skip2/go-qrcode).
*/
package qr
