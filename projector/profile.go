package projector

import "github.com/gridfeed/gridfeed/model"

// Profile renders an account page by handle. Returns nil when no such
// account exists or the viewer is not allowed to know it exists (the
// account is banned, or blocking cuts the pair apart).
func Profile(in Input, handle string) *model.ProfileView {
	j := newJoined(in)

	account, ok := j.accountByHandle[handle]
	if !ok {
		return nil
	}
	if j.banned(account) && account.Id != in.ViewerId {
		return nil
	}
	if account.Id != in.ViewerId && j.blocks[account.Id][in.ViewerId] {
		// The profile owner blocked the viewer: the page is gone for them.
		return nil
	}

	view := &model.ProfileView{
		Account:         account,
		Relationship:    j.relationship(account.Id),
		BlockedByViewer: j.blocks[in.ViewerId][account.Id],
		Banned:          j.banned(account),
		Posts:           []*model.PostView{},
	}
	for _, targets := range j.follows {
		if targets[account.Id] {
			view.FollowerCount++
		}
	}
	view.FollowingCount = len(j.follows[account.Id])
	for postId, likes := range j.likesByPost {
		if post, ok := j.postById[postId]; ok && post.AuthorId == account.Id {
			view.TotalLikes += len(likes)
		}
	}

	if !j.profilePostsOpen(account) {
		return view
	}
	for _, post := range j.posts {
		if post.AuthorId != account.Id || !j.visiblePost(post) {
			continue
		}
		view.Posts = append(view.Posts, j.postView(post))
	}
	sortPostViews(view.Posts)
	return view
}

// profilePostsOpen decides whether the post grid is shown: private
// profiles only open up to mutual followers and the owner, and the
// per-post visibility setting still applies on top.
func (j *joined) profilePostsOpen(account *model.Account) bool {
	if account.Id == j.in.ViewerId {
		return true
	}
	if account.Privacy == model.PrivacyPrivate && !j.mutualFollow(j.in.ViewerId, account.Id) {
		return false
	}
	return true
}
