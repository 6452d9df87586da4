package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DataDog/datadog-go/statsd"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	gintrace "gopkg.in/DataDog/dd-trace-go.v1/contrib/gin-gonic/gin"

	"github.com/gridfeed/gridfeed/app_config"
	"github.com/gridfeed/gridfeed/dispatcher"
	"github.com/gridfeed/gridfeed/engine"
	"github.com/gridfeed/gridfeed/media_store"
	"github.com/gridfeed/gridfeed/overlay"
	"github.com/gridfeed/gridfeed/server"
	"github.com/gridfeed/gridfeed/server/middlewares"
	"github.com/gridfeed/gridfeed/snapshot"
	"github.com/gridfeed/gridfeed/state_store"
	"github.com/gridfeed/gridfeed/utils"
	"github.com/gridfeed/gridfeed/utils/dotenv"
	Flag "github.com/gridfeed/gridfeed/utils/flag"
	Logger "github.com/gridfeed/gridfeed/utils/log"
)

var (
	AppConfigPath *string
	// Configuration to customize daemon startup.
	AppConfig app_config.GridFeedAppConfig
)

// init() will always be called before the execution of main function.
func init() {
	AppConfigPath = flag.String("app_config_path", "cmd/gridfeed/config.yaml", "path to gridfeed app config")
	if err := dotenv.LoadDotEnvs(); err != nil {
		panic(err)
	}
}

func NewDogStatsdClient() *statsd.Client {
	client, err := statsd.New("127.0.0.1:8125")
	if err != nil {
		// Metrics are never worth refusing to start over.
		Logger.Log.Warnf("statsd unavailable, metrics disabled: %v", err)
		return nil
	}
	return client
}

func NewSourceSet(sources app_config.SheetSources) snapshot.SourceSet {
	return snapshot.SourceSet{
		Accounts:      sources.ACCOUNTS,
		Posts:         sources.POSTS,
		Comments:      sources.COMMENTS,
		Likes:         sources.LIKES,
		Follows:       sources.FOLLOWS,
		Blocks:        sources.BLOCKS,
		Bans:          sources.BANS,
		Messages:      sources.MESSAGES,
		Notifications: sources.NOTIFICATIONS,
		Photos:        sources.PHOTOS,
		Status:        sources.STATUS,
	}
}

func NewConfiguredMediaStore() media_store.MediaStore {
	if AppConfig.MEDIA_STORE_BACKEND == "s3" {
		store, err := media_store.NewS3MediaStore(AppConfig.MEDIA_S3_BUCKET)
		if err != nil {
			panic(err)
		}
		return store
	}
	store, err := media_store.NewLocalMediaStore(AppConfig.MEDIA_CACHE_DIR)
	if err != nil {
		panic(err)
	}
	return store
}

func cleanup() {
	utils.CloseProfiler()
	utils.CloseTracer()
	Logger.Log.Info("gridfeed daemon shutdown")
}

func main() {
	defer cleanup()
	flag.Parse()
	AppConfig = app_config.ParseGridFeedAppConfig(*AppConfigPath)

	if utils.IsProdEnv() {
		utils.StartTracer()
		utils.StartProfiler()
	}

	statsdClient := NewDogStatsdClient()
	ctx, cancel := context.WithCancel(context.Background())

	eventbus := gochannel.NewGoChannel(
		gochannel.Config{
			OutputChannelBuffer:            100,
			BlockPublishUntilSubscriberAck: false,
		},
		watermill.NewStdLogger(false, false),
	)

	store, err := state_store.New(
		AppConfig.STATE_STORE_BACKEND, AppConfig.VIEWER_ID, AppConfig.STATE_STORE_PATH)
	if err != nil {
		panic(err)
	}
	ov := overlay.New(AppConfig.VIEWER_ID, store)
	defer ov.Close()

	queue := dispatcher.NewQueue(
		dispatcher.NewHTTPEndpoint(AppConfig.WRITE_ENDPOINT_URL, os.Getenv("GRIDFEED_WRITE_TOKEN")),
		statsdClient,
	)

	sync := engine.NewSyncEngine(engine.SyncEngineConfig{
		ViewerId:     AppConfig.VIEWER_ID,
		Sources:      NewSourceSet(AppConfig.SOURCES),
		Format:       snapshot.Format(AppConfig.SHEET_FORMAT),
		FetchTimeout: time.Duration(AppConfig.FETCH_TIMEOUT_SECOND) * time.Second,
	}, ov, queue, eventbus)

	media := NewConfiguredMediaStore()

	// Initialize all engine modules here.
	modules := []engine.Module{
		// Dispatch hosts the single queue worker, writes stay serialized.
		engine.NewDispatchModule(engine.DispatchModuleConfig{Name: "dispatch"}, queue),
		// Refresh runs the startup read cycle and every bus-requested one.
		engine.NewRefreshModule(engine.RefreshModuleConfig{Name: "refresh"}, sync, eventbus),
		// ConversationPoll keeps the open thread fresh on a fast ticker.
		engine.NewConversationPollModule(engine.ConversationPollConfig{
			Name:     "conversation_poll",
			Interval: time.Duration(AppConfig.CONVERSATION_POLL_SECOND) * time.Second,
		}, sync, eventbus),
		// MediaPrefetch warms the media cache after each refresh.
		engine.NewMediaPrefetchModule(engine.MediaPrefetchConfig{Name: "media_prefetch"}, sync, media, eventbus),
		// Reporter forwards engine events to datadog for monitoring.
		engine.NewReporter(engine.ReporterConfig{Name: "reporter"}, statsdClient, eventbus),
	}

	e := engine.NewEngine(modules, ctx, cancel, eventbus)
	go e.Run()

	middlewares.Setup(os.Getenv("GRIDFEED_API_TOKEN"))
	if !utils.IsProdEnv() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Default with the Logger and Recovery middleware already attached.
	router := gin.Default()
	router.Use(cors.Default())
	if utils.IsProdEnv() {
		router.Use(gintrace.Middleware(Flag.ServiceName))
	}
	if !Flag.ByPassAuth {
		router.Use(middlewares.LocalToken())
	}
	server.NewServer(sync, media).RegisterRoutes(router)

	httpServer := &http.Server{
		Addr:    AppConfig.SERVE_ADDRESS,
		Handler: router,
	}
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			Logger.Log.Fatalf("facade cannot serve: %v", err)
		}
	}()
	Logger.Log.Infof("gridfeed daemon serving %s on %s", AppConfig.VIEWER_ID, AppConfig.SERVE_ADDRESS)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	Logger.Log.Infoln("shutdown signal received")

	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		Logger.Log.Warnf("facade shutdown: %v", err)
	}
	e.Shutdown()
	media.CleanUp()
}
