package snapshot

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/gridfeed/gridfeed/model"
	"github.com/gridfeed/gridfeed/utils"
	Logger "github.com/gridfeed/gridfeed/utils/log"
)

type Format string

const (
	FormatAuto Format = "auto"
	FormatCSV  Format = "csv"
	FormatHTML Format = "html"
)

// SourceSet lists the export URL of each tab. Blank entries are simply
// not fetched, a deployment without photos or notifications configures
// only what it has.
type SourceSet struct {
	Accounts      string `yaml:"accounts"`
	Posts         string `yaml:"posts"`
	Comments      string `yaml:"comments"`
	Likes         string `yaml:"likes"`
	Follows       string `yaml:"follows"`
	Blocks        string `yaml:"blocks"`
	Bans          string `yaml:"bans"`
	Messages      string `yaml:"messages"`
	Notifications string `yaml:"notifications"`
	Photos        string `yaml:"photos"`
	Status        string `yaml:"status"`
}

// Configured reports which tab names a Fetch over this set will
// actually attempt.
func (s SourceSet) Configured() map[string]bool {
	tabs := map[string]bool{}
	for name, uri := range map[string]string{
		"accounts":      s.Accounts,
		"posts":         s.Posts,
		"comments":      s.Comments,
		"likes":         s.Likes,
		"follows":       s.Follows,
		"blocks":        s.Blocks,
		"bans":          s.Bans,
		"messages":      s.Messages,
		"notifications": s.Notifications,
		"photos":        s.Photos,
		"status":        s.Status,
	} {
		if uri != "" {
			tabs[name] = true
		}
	}
	return tabs
}

/*
	Reader turns the read source's tab exports into a typed Snapshot.
	Tabs are fetched in parallel, each with its own bounded retries, and
	a tab that fails is recorded in SourceErrors instead of failing the
	whole snapshot. Parse failures are terminal per attempt: refetching
	identical bytes cannot fix a shredded table.
*/
type Reader struct {
	client  *Client
	sources SourceSet
	format  Format

	// Overridable in tests, defaults to 1s then 2s.
	RetrySchedule []time.Duration
}

func NewReader(sources SourceSet, format Format, timeout time.Duration) *Reader {
	if format == "" {
		format = FormatAuto
	}
	return &Reader{
		client:        NewClient(timeout),
		sources:       sources,
		format:        format,
		RetrySchedule: []time.Duration{time.Second, 2 * time.Second},
	}
}

type tabBinding struct {
	name   string
	uri    string
	decode func(*Table) error
}

// Fetch reads every configured tab and assembles a snapshot. The error
// is non-nil only when no tab could be read at all, a partial snapshot
// is returned as success with the failures listed in SourceErrors.
func (r *Reader) Fetch(ctx context.Context) (*model.Snapshot, error) {
	snap := model.NewSnapshot(time.Now())

	bindings := []tabBinding{
		{"accounts", r.sources.Accounts, func(t *Table) error {
			decoded, err := DecodeAccounts(t)
			snap.Accounts = decoded
			return err
		}},
		{"posts", r.sources.Posts, func(t *Table) error {
			decoded, err := DecodePosts(t)
			snap.Posts = decoded
			return err
		}},
		{"comments", r.sources.Comments, func(t *Table) error {
			decoded, err := DecodeComments(t)
			snap.Comments = decoded
			return err
		}},
		{"likes", r.sources.Likes, func(t *Table) error {
			decoded, err := DecodeLikes(t)
			snap.Likes = decoded
			return err
		}},
		{"follows", r.sources.Follows, func(t *Table) error {
			decoded, err := DecodeFollows(t)
			snap.Follows = decoded
			return err
		}},
		{"blocks", r.sources.Blocks, func(t *Table) error {
			decoded, err := DecodeBlocks(t)
			snap.Blocks = decoded
			return err
		}},
		{"bans", r.sources.Bans, func(t *Table) error {
			decoded, err := DecodeBans(t)
			snap.Bans = decoded
			return err
		}},
		{"messages", r.sources.Messages, func(t *Table) error {
			decoded, err := DecodeMessages(t)
			snap.Messages = decoded
			return err
		}},
		{"notifications", r.sources.Notifications, func(t *Table) error {
			decoded, err := DecodeNotifications(t)
			snap.Notifications = decoded
			return err
		}},
		{"photos", r.sources.Photos, func(t *Table) error {
			decoded, err := DecodePhotos(t)
			snap.Photos = decoded
			return err
		}},
		{"status", r.sources.Status, func(t *Table) error {
			decoded, err := DecodeStatus(t)
			snap.Status = decoded
			return err
		}},
	}

	var m sync.Mutex
	var wg sync.WaitGroup
	configured := 0
	for _, binding := range bindings {
		if binding.uri == "" {
			continue
		}
		configured++
		wg.Add(1)
		go func(binding tabBinding) {
			defer wg.Done()
			table, err := r.fetchTable(ctx, binding.name, binding.uri)

			m.Lock()
			defer m.Unlock()
			if err == nil {
				err = binding.decode(table)
			}
			if err != nil {
				snap.SourceErrors[binding.name] = err.Error()
				Logger.Log.WithFields(logrus.Fields{"source": binding.name}).
					Warnln("tab unavailable:", err)
			}
		}(binding)
	}
	wg.Wait()

	if configured > 0 && len(snap.SourceErrors) == configured {
		return snap, errors.New("read source unreachable: every tab failed")
	}
	return snap, nil
}

// fetchTable retries the fetch on the configured schedule; parsing runs
// once on whatever bytes finally arrive.
func (r *Reader) fetchTable(ctx context.Context, name string, uri string) (*Table, error) {
	var body []byte
	var contentType string
	err := utils.WithRetries(ctx, r.RetrySchedule, func() error {
		fetched, ct, err := r.client.GetFresh(ctx, uri)
		if err != nil {
			return err
		}
		body, contentType = fetched, ct
		return nil
	})
	if err != nil {
		return nil, &FetchError{Source: name, Err: err}
	}
	return r.parse(name, body, contentType)
}

func (r *Reader) parse(name string, body []byte, contentType string) (*Table, error) {
	switch r.format {
	case FormatCSV:
		return ParseCSV(name, body)
	case FormatHTML:
		return ParseHTMLTable(name, body)
	}
	if looksLikeHTML(body, contentType) {
		return ParseHTMLTable(name, body)
	}
	return ParseCSV(name, body)
}

func looksLikeHTML(body []byte, contentType string) bool {
	if strings.Contains(contentType, "html") {
		return true
	}
	trimmed := strings.TrimLeft(string(body), " \t\r\n\uFEFF")
	return strings.HasPrefix(trimmed, "<")
}
