package server

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gridfeed/gridfeed/engine"
	"github.com/gridfeed/gridfeed/model"
	Logger "github.com/gridfeed/gridfeed/utils/log"
)

// renderError maps engine failures onto status codes: no snapshot yet is
// 503 (try again shortly), a suspended or down session refuses intents
// with 403, anything else is a plain 500.
func renderError(c *gin.Context, err error) {
	var inactive *engine.SessionInactiveError
	switch {
	case errors.Is(err, engine.ErrNotReady):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	case errors.As(err, &inactive):
		c.JSON(http.StatusForbidden, gin.H{
			"error": err.Error(),
			"state": inactive.State.String(),
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func (s *Server) getFeed(c *gin.Context) {
	var kind model.FeedKind
	switch c.DefaultQuery("kind", "following") {
	case "following":
		kind = model.FeedKindFollowing
	case "foryou":
		kind = model.FeedKindForYou
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown feed kind"})
		return
	}
	if c.Query("refresh") == "1" {
		s.sync.RequestRefresh("feed_view")
	}

	feed, err := s.sync.Feed(kind)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, feed)
}

func (s *Server) getProfile(c *gin.Context) {
	profile, err := s.sync.Profile(c.Param("handle"))
	if err != nil {
		renderError(c, err)
		return
	}
	if profile == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no such profile"})
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (s *Server) getConversations(c *gin.Context) {
	conversations, err := s.sync.Conversations()
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, conversations)
}

func (s *Server) getConversation(c *gin.Context) {
	conversation, err := s.sync.Conversation(c.Param("partnerId"))
	if err != nil {
		renderError(c, err)
		return
	}
	if conversation == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no such conversation"})
		return
	}
	c.JSON(http.StatusOK, conversation)
}

func (s *Server) getNotifications(c *gin.Context) {
	if c.Query("refresh") == "1" {
		s.sync.RequestRefresh("notification_view")
	}
	notifications, err := s.sync.Notifications()
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, notifications)
}

func (s *Server) getSearch(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing query"})
		return
	}
	results, err := s.sync.Search(query)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

func (s *Server) getStatus(c *gin.Context) {
	c.JSON(http.StatusOK, s.sync.Status())
}

// streamEvents pushes engine signals as server-sent events until the
// client hangs up.
func (s *Server) streamEvents(c *gin.Context) {
	ch, chId := s.sync.Signals().AddNewConnection(c.Request.Context())
	Logger.Log.Infof("signal stream connected: %s", chId)

	c.Stream(func(w io.Writer) bool {
		select {
		case signal, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent("signal", signal)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

type createPostRequest struct {
	Content string `json:"content" binding:"required"`
	IsStory bool   `json:"is_story"`
}

func (s *Server) createPost(c *gin.Context) {
	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	post, err := s.sync.CreatePost(req.Content, req.IsStory)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, post)
}

func (s *Server) deletePost(c *gin.Context) {
	if err := s.sync.DeletePost(c.Param("id")); err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "queued"})
}

type likeRequest struct {
	// Absent means like; {"liked": false} unlikes.
	Liked *bool `json:"liked"`
}

func (s *Server) likePost(c *gin.Context) {
	var req likeRequest
	if err := c.ShouldBindJSON(&req); err != nil && err != io.EOF {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	liked := true
	if req.Liked != nil {
		liked = *req.Liked
	}
	if err := s.sync.SetLike(c.Param("id"), liked); err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "queued"})
}

type createCommentRequest struct {
	Text     string `json:"text" binding:"required"`
	MediaUrl string `json:"media_url"`
}

func (s *Server) createComment(c *gin.Context) {
	var req createCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	comment, err := s.sync.CreateComment(c.Param("id"), req.Text, req.MediaUrl)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, comment)
}

func (s *Server) deleteComment(c *gin.Context) {
	if err := s.sync.DeleteComment(c.Param("id")); err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "queued"})
}

func (s *Server) follow(c *gin.Context) {
	if err := s.sync.SetFollow(c.Param("id"), true); err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "queued"})
}

func (s *Server) unfollow(c *gin.Context) {
	if err := s.sync.SetFollow(c.Param("id"), false); err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "queued"})
}

type sendMessageRequest struct {
	PartnerId string `json:"partner_id" binding:"required"`
	Text      string `json:"text" binding:"required"`
}

func (s *Server) sendMessage(c *gin.Context) {
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	message, err := s.sync.SendMessage(req.PartnerId, req.Text)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, message)
}

func (s *Server) block(c *gin.Context) {
	if err := s.sync.Block(c.Param("id")); err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "queued"})
}

func (s *Server) unblock(c *gin.Context) {
	if err := s.sync.Unblock(c.Param("id")); err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "queued"})
}

func (s *Server) dismissNotification(c *gin.Context) {
	if err := s.sync.DismissNotification(c.Param("id")); err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "queued"})
}

func (s *Server) markNotificationsRead(c *gin.Context) {
	if err := s.sync.MarkNotificationsRead(); err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "queued"})
}

// uploadPhoto stores the bytes first so the queued record_photo command
// carries a url that already resolves.
func (s *Server) uploadPhoto(c *gin.Context) {
	file, header, err := c.Request.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing photo file"})
		return
	}
	defer file.Close()

	key, err := s.media.Upload(c.Request.Context(), header.Filename, file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	photo, err := s.sync.RecordPhoto(s.media.UrlFromKey(key), c.PostForm("caption"))
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, photo)
}

func (s *Server) requestRefresh(c *gin.Context) {
	s.sync.RequestRefresh("manual")
	c.JSON(http.StatusAccepted, gin.H{"status": "queued"})
}

type openConversationRequest struct {
	PartnerId string `json:"partner_id" binding:"required"`
}

// openConversation also marks the thread read, opening it is the moment
// the viewer sees what was unread. The partner rides the body, not the
// path: a path parameter next to the static close route would collide
// in the router.
func (s *Server) openConversation(c *gin.Context) {
	var req openConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.sync.OpenConversation(req.PartnerId)
	if err := s.sync.MarkConversationRead(req.PartnerId); err != nil {
		var inactive *engine.SessionInactiveError
		if !errors.As(err, &inactive) {
			renderError(c, err)
			return
		}
		// An inactive session still gets to read the thread.
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "polling"})
}

func (s *Server) closeConversation(c *gin.Context) {
	s.sync.CloseConversation()
	c.JSON(http.StatusAccepted, gin.H{"status": "stopped"})
}
