package projector

import (
	"time"

	"github.com/gridfeed/gridfeed/model"
)

// forYouRecency is the window that separates the fresh buckets of the
// for-you feed from the archive tail.
const forYouRecency = 24 * time.Hour

// FollowingFeed renders the chronological home timeline: posts from
// followed accounts plus the viewer's own, newest first.
func FollowingFeed(in Input) *model.FeedView {
	j := newJoined(in)

	var views []*model.PostView
	for _, post := range j.posts {
		if post.AuthorId != in.ViewerId && !j.followsEdge(in.ViewerId, post.AuthorId) {
			continue
		}
		if !j.visiblePost(post) {
			continue
		}
		views = append(views, j.postView(post))
	}
	sortPostViews(views)

	return &model.FeedView{Kind: model.FeedKindFollowing, GeneratedAt: in.Now, Posts: views}
}

/*
	ForYouFeed renders the discovery timeline in three tiers:

	  1. fresh posts with media from followed accounts or the viewer
	  2. the remaining fresh posts
	  3. everything older

	Each tier is newest-first. The tiers are concatenated rather than
	interleaved so a new photo from a friend always beats a stranger's
	text post, however recent.
*/
func ForYouFeed(in Input) *model.FeedView {
	j := newJoined(in)

	var tier1, tier2, tier3 []*model.PostView
	for _, post := range j.posts {
		if !j.visiblePost(post) {
			continue
		}
		view := j.postView(post)
		// Future-dated rows (sheet clock skew) count as fresh.
		fresh := in.Now.Sub(post.CreatedAt) <= forYouRecency
		followedOrOwn := post.AuthorId == in.ViewerId || j.followsEdge(in.ViewerId, post.AuthorId)

		switch {
		case fresh && followedOrOwn && model.HasMedia(post.Content):
			tier1 = append(tier1, view)
		case fresh:
			tier2 = append(tier2, view)
		default:
			tier3 = append(tier3, view)
		}
	}
	sortPostViews(tier1)
	sortPostViews(tier2)
	sortPostViews(tier3)

	posts := make([]*model.PostView, 0, len(tier1)+len(tier2)+len(tier3))
	posts = append(posts, tier1...)
	posts = append(posts, tier2...)
	posts = append(posts, tier3...)

	return &model.FeedView{Kind: model.FeedKindForYou, GeneratedAt: in.Now, Posts: posts}
}
