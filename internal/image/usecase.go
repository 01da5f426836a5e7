package image

import "context"

// Fetcher loads a photo by EAN from its origin.
type Fetcher interface {
	Fetch(ctx context.Context, ean string) (*Image, error)
}

type UseCase interface {
	// GetImage resolves an opaque image ID to the photo bytes.
	GetImage(ctx context.Context, id string) (*Image, error)
}
