package media_store

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/gridfeed/gridfeed/utils"
	Logger "github.com/gridfeed/gridfeed/utils/log"
)

// LocalMediaStore caches media on disk so avatars and post images keep
// rendering between refreshes and across restarts.
type LocalMediaStore struct {
	root                      string
	client                    *http.Client
	processUrlBeforeFetchFunc ProcessUrlBeforeFetchFuncType

	// Set when the root was created as a throwaway, CleanUp removes it.
	ephemeral bool
}

func NewLocalMediaStore(root string) (*LocalMediaStore, error) {
	ephemeral := false
	if root == "" {
		dir, err := os.MkdirTemp("", "gridfeed_media_*")
		if err != nil {
			return nil, errors.Wrap(err, "create media cache dir")
		}
		root = dir
		ephemeral = true
	} else if err := os.MkdirAll(root, 0755); err != nil {
		return nil, errors.Wrap(err, "create media cache dir")
	}
	return &LocalMediaStore{
		root:                      root,
		client:                    &http.Client{Timeout: 30 * time.Second},
		processUrlBeforeFetchFunc: func(s string) string { return s },
		ephemeral:                 ephemeral,
	}, nil
}

func (s *LocalMediaStore) SetProcessUrlBeforeFetchFunc(f ProcessUrlBeforeFetchFuncType) {
	s.processUrlBeforeFetchFunc = f
}

func (s *LocalMediaStore) Upload(ctx context.Context, fileName string, body io.Reader) (key string, err error) {
	key = uuid.New().String() + utils.GetUrlExtNameWithDot(fileName)
	file, err := os.Create(filepath.Join(s.root, key))
	if err != nil {
		return "", errors.Wrap(err, "store media")
	}
	defer file.Close()
	if _, err := io.Copy(file, body); err != nil {
		return "", errors.Wrap(err, "store media")
	}
	return key, nil
}

// FetchAndStore downloads url into the cache. The key is the hash of
// the url, a reference already cached is not downloaded again.
func (s *LocalMediaStore) FetchAndStore(ctx context.Context, url string) (key string, err error) {
	key, err = keyFromUrl(url)
	if err != nil {
		return "", err
	}
	path := filepath.Join(s.root, key)
	if _, err := os.Stat(path); err == nil {
		return key, nil
	}

	eventualUrl := s.processUrlBeforeFetchFunc(url)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, eventualUrl, nil)
	if err != nil {
		return "", err
	}
	response, err := s.client.Do(req)
	if err != nil {
		Logger.Log.Warnln("cannot fetch media from url:", eventualUrl, "err:", err)
		return "", err
	}
	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		return "", errors.Errorf("media fetch status %d for %s", response.StatusCode, eventualUrl)
	}

	file, err := os.Create(path)
	if err != nil {
		return "", errors.Wrap(err, "store media")
	}
	defer file.Close()
	if _, err := io.Copy(file, response.Body); err != nil {
		os.Remove(path)
		return "", errors.Wrap(err, "store media")
	}
	return key, nil
}

func (s *LocalMediaStore) UrlFromKey(key string) string {
	return "file://" + filepath.Join(s.root, key)
}

// Cached reports whether a reference is already on disk without
// touching the network.
func (s *LocalMediaStore) Cached(url string) bool {
	key, err := keyFromUrl(url)
	if err != nil {
		return false
	}
	_, err = os.Stat(filepath.Join(s.root, key))
	return err == nil
}

func (s *LocalMediaStore) CleanUp() {
	if s.ephemeral {
		os.RemoveAll(s.root)
	}
}

func keyFromUrl(url string) (string, error) {
	key, err := utils.TextToMd5Hash(url)
	if err != nil {
		return "", err
	}
	if len(key) == 0 {
		return "", errors.New("generate empty media key, invalid")
	}
	return key + utils.GetUrlExtNameWithDot(url), nil
}
