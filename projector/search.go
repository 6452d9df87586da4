package projector

import (
	"strings"

	"github.com/gridfeed/gridfeed/model"
)

// searchLimit caps each result section. The sheet is small, but a
// one-letter query would otherwise return the whole platform.
const searchLimit = 50

// Search matches accounts by handle or display name and posts by
// content. A query starting with '#' switches to exact hashtag match.
// All the usual gates apply: what search returns is exactly what the
// viewer could reach by browsing.
func Search(in Input, query string) *model.SearchView {
	j := newJoined(in)

	view := &model.SearchView{
		Query:    query,
		Accounts: []*model.ProfileView{},
		Posts:    []*model.PostView{},
	}

	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return view
	}

	tag := ""
	if strings.HasPrefix(needle, "#") {
		tag = strings.TrimPrefix(needle, "#")
	}

	if tag == "" {
		for _, account := range j.accounts {
			if len(view.Accounts) >= searchLimit {
				break
			}
			if !matchesAccount(account, needle) {
				continue
			}
			if j.banned(account) || (account.Id != in.ViewerId && j.blockedEither(in.ViewerId, account.Id)) {
				continue
			}
			view.Accounts = append(view.Accounts, j.accountCard(account))
		}
	}

	for _, post := range j.posts {
		if len(view.Posts) >= searchLimit {
			break
		}
		if !matchesPost(post, needle, tag) {
			continue
		}
		if !j.visiblePost(post) {
			continue
		}
		view.Posts = append(view.Posts, j.postView(post))
	}
	sortPostViews(view.Posts)
	return view
}

func matchesAccount(account *model.Account, needle string) bool {
	return strings.Contains(strings.ToLower(account.Handle), needle) ||
		strings.Contains(strings.ToLower(account.DisplayName), needle)
}

func matchesPost(post *model.Post, needle string, tag string) bool {
	if tag != "" {
		for _, candidate := range model.ExtractHashtags(post.Content) {
			if candidate == tag {
				return true
			}
		}
		return false
	}
	return strings.Contains(strings.ToLower(post.Content), needle)
}

// accountCard is the postless profile used in search results.
func (j *joined) accountCard(account *model.Account) *model.ProfileView {
	card := &model.ProfileView{
		Account:         account,
		Relationship:    j.relationship(account.Id),
		BlockedByViewer: j.blocks[j.in.ViewerId][account.Id],
		Posts:           []*model.PostView{},
	}
	for _, targets := range j.follows {
		if targets[account.Id] {
			card.FollowerCount++
		}
	}
	card.FollowingCount = len(j.follows[account.Id])
	return card
}
