package media_store

import (
	"context"
	"io"
	"io/ioutil"
)

// FakeMediaStore swallows bytes and echoes references, for tests.
type FakeMediaStore struct{}

func (*FakeMediaStore) Upload(ctx context.Context, fileName string, body io.Reader) (key string, err error) {
	if _, err := io.Copy(ioutil.Discard, body); err != nil {
		return "", err
	}
	return fileName, nil
}

func (*FakeMediaStore) FetchAndStore(ctx context.Context, url string) (key string, err error) {
	return url, nil
}

func (*FakeMediaStore) UrlFromKey(key string) string {
	return key
}

func (*FakeMediaStore) CleanUp() {}
