package server

import (
	"github.com/gin-gonic/gin"

	"github.com/gridfeed/gridfeed/engine"
	"github.com/gridfeed/gridfeed/media_store"
)

// Server is the HTTP façade over one viewer's sync engine. It translates
// engine results into status codes and nothing more, interpretation of
// business state stays inside the engine.
type Server struct {
	sync  *engine.SyncEngine
	media media_store.MediaStore
}

func NewServer(sync *engine.SyncEngine, media media_store.MediaStore) *Server {
	return &Server{
		sync:  sync,
		media: media,
	}
}

// RegisterRoutes binds every view and intent route onto the router.
func (s *Server) RegisterRoutes(router *gin.Engine) {
	router.GET("/feed", s.getFeed)
	router.GET("/profile/:handle", s.getProfile)
	router.GET("/conversations", s.getConversations)
	router.GET("/conversations/:partnerId", s.getConversation)
	router.GET("/notifications", s.getNotifications)
	router.GET("/search", s.getSearch)
	router.GET("/status", s.getStatus)
	router.GET("/events", s.streamEvents)

	router.POST("/posts", s.createPost)
	router.DELETE("/posts/:id", s.deletePost)
	router.POST("/posts/:id/like", s.likePost)
	router.POST("/posts/:id/comments", s.createComment)
	router.DELETE("/comments/:id", s.deleteComment)
	router.POST("/follows/:id", s.follow)
	router.DELETE("/follows/:id", s.unfollow)
	router.POST("/messages", s.sendMessage)
	router.POST("/blocks/:id", s.block)
	router.DELETE("/blocks/:id", s.unblock)
	router.DELETE("/notifications/:id", s.dismissNotification)
	router.POST("/notifications/read", s.markNotificationsRead)
	router.POST("/photos", s.uploadPhoto)

	router.POST("/refresh", s.requestRefresh)
	router.POST("/conversations/open", s.openConversation)
	router.POST("/conversations/close", s.closeConversation)
}
