package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gridfeed/gridfeed/dispatcher"
	"github.com/gridfeed/gridfeed/model"
	"github.com/gridfeed/gridfeed/utils/dotenv"
)

// This binary sends one test command straight to a write endpoint,
// bypassing the engine, for endpoint debugging. Run the demo_sheet
// script and fire a few of these to watch rows appear.

var (
	endpointUrl = flag.String("endpoint", "http://127.0.0.1:9090/apply", "write endpoint url")
	action      = flag.String("action", "create_post", "create_post | like_post | follow_user | send_message")
	viewerId    = flag.String("viewer", "u_demo", "acting account id")
	target      = flag.String("target", "p_1", "post id, account id or recipient id the action applies to")
	content     = flag.String("content", "sent from the command script", "post content or message text")
)

func main() {
	flag.Parse()
	dotenv.LoadDotEnvs()

	endpoint := dispatcher.NewHTTPEndpoint(*endpointUrl, os.Getenv("GRIDFEED_WRITE_TOKEN"))

	var cmd *dispatcher.Command
	switch *action {
	case "create_post":
		cmd = dispatcher.CreatePost(&model.Post{
			Id:        fmt.Sprintf("script_%d", time.Now().UnixNano()),
			AuthorId:  *viewerId,
			Content:   *content,
			CreatedAt: time.Now(),
		})
	case "like_post":
		cmd = dispatcher.LikePost(*viewerId, *target, true)
	case "follow_user":
		cmd = dispatcher.FollowUser(*viewerId, *target, true)
	case "send_message":
		cmd = dispatcher.SendMessage(&model.Message{
			Id:          fmt.Sprintf("script_%d", time.Now().UnixNano()),
			SenderId:    *viewerId,
			RecipientId: *target,
			Content:     model.EncodeBody(*content),
			CreatedAt:   time.Now(),
		})
	default:
		log.Fatalf("unsupported action %q", *action)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := endpoint.Execute(ctx, cmd); err != nil {
		log.Fatalln("command failed:", err)
	}
	fmt.Printf("applied %s ref=%s\n", cmd.Action, cmd.Ref)
}
