package projector

import (
	"sort"

	"github.com/gridfeed/gridfeed/model"
)

func (j *joined) postView(post *model.Post) *model.PostView {
	view := &model.PostView{
		Id:            post.Id,
		Author:        j.account(post.AuthorId),
		Content:       post.Content,
		Caption:       model.StripMediaRefs(post.Content),
		MediaUrls:     model.ExtractMediaUrls(post.Content),
		Hashtags:      model.ExtractHashtags(post.Content),
		CreatedAt:     post.CreatedAt,
		IsStory:       post.IsStory,
		LikeCount:     len(j.likesByPost[post.Id]),
		LikedByViewer: j.viewerLikes[post.Id],
		Comments:      j.commentViews(post.Id),
		Pending:       j.in.PendingPosts[post.Id],
	}
	if post.IsStory {
		expires := post.CreatedAt.Add(model.StoryLifetime)
		view.StoryExpiresAt = &expires
	}
	return view
}

// commentViews renders a post's thread oldest-first, dropping comments
// whose authors the viewer cannot see.
func (j *joined) commentViews(postId string) []*model.CommentView {
	comments := j.commentsByPost[postId]
	views := make([]*model.CommentView, 0, len(comments))
	for _, comment := range comments {
		author := j.account(comment.AuthorId)
		if j.banned(author) {
			continue
		}
		if comment.AuthorId != j.in.ViewerId && j.blockedEither(j.in.ViewerId, comment.AuthorId) {
			continue
		}
		views = append(views, &model.CommentView{
			Id:        comment.Id,
			PostId:    comment.PostId,
			Author:    author,
			Text:      comment.Text,
			MediaUrl:  comment.MediaUrl,
			CreatedAt: comment.CreatedAt,
			Pending:   j.in.PendingComments[comment.Id],
		})
	}
	sort.SliceStable(views, func(a, b int) bool {
		if views[a].CreatedAt.Equal(views[b].CreatedAt) {
			return views[a].Id < views[b].Id
		}
		return views[a].CreatedAt.Before(views[b].CreatedAt)
	})
	return views
}

// sortPostViews orders newest-first with the id as a deterministic tie
// break, so repeated projections of the same world render identically.
func sortPostViews(views []*model.PostView) {
	sort.SliceStable(views, func(a, b int) bool {
		if views[a].CreatedAt.Equal(views[b].CreatedAt) {
			return views[a].Id > views[b].Id
		}
		return views[a].CreatedAt.After(views[b].CreatedAt)
	})
}
