package models

import (
	"fmt"
	"time"

	cerr "github.com/Yulian302/lfusys-services-notifier/errors"
)

type SignedLinkRequest struct {
	Bucket string
	Key    string
	TTL    time.Duration
}

func (r SignedLinkRequest) Validate() error {
	if r.Bucket == "" {
		return fmt.Errorf("%w: bucket is empty", cerr.ErrInvalidLinkRequest)
	}
	if r.Key == "" {
		return fmt.Errorf("%w: key is empty", cerr.ErrInvalidLinkRequest)
	}
	if r.TTL <= 0 {
		return fmt.Errorf("%w: ttl must be positive, got %s", cerr.ErrInvalidLinkRequest, r.TTL)
	}
	return nil
}

type SignedLink struct {
	URL       string
	ExpiresAt time.Time
}
