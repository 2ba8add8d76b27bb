// Package share sends exported strategy documents out of the app.
package share

import (
	"context"
	"errors"
)

var (
	ErrNotConfigured = errors.New("sharing channel is not configured")
	ErrNoRecipient   = errors.New("no recipient given")
	ErrBadRecipient  = errors.New("invalid recipient")
	ErrEmptyDocument = errors.New("document is empty")
)

// Document is an exported file ready to be delivered
type Document struct {
	Filename  string
	Title     string
	Body      []byte
	Recipient string
}

type Sharer interface {
	Share(ctx context.Context, doc Document) error
}

func (d Document) validate() error {
	if len(d.Body) == 0 {
		return ErrEmptyDocument
	}
	return nil
}
