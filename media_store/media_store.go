package media_store

import (
	"context"
	"io"
)

// ProcessUrlBeforeFetchFuncType rewrites a media url before download,
// e.g. to route through the sheet's image proxy.
type ProcessUrlBeforeFetchFuncType func(string) string

// CustomizeUploadedUrlType maps a stored key to the public url embedded
// into post content.
type CustomizeUploadedUrlType func(string) string

// MediaStore keeps post and avatar media. Upload takes bytes straight
// from the viewer (a new photo), FetchAndStore pulls a remote reference
// into the store, keyed by content address so repeated references are
// stored once.
type MediaStore interface {
	Upload(ctx context.Context, fileName string, body io.Reader) (key string, err error)
	FetchAndStore(ctx context.Context, url string) (key string, err error)
	UrlFromKey(key string) string
	CleanUp()
}
