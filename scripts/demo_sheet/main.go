package main

import (
	"encoding/base64"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"
)

// This binary serves a demo sheet plus a write endpoint for end to end
// testing: point every SOURCES url at /<tab>, WRITE_ENDPOINT_URL at
// /apply, and run the daemon against it. Applied commands mutate the
// in-memory tabs, so optimistic rows get confirmed by later refreshes
// exactly like they would against the real backend.

var (
	addr    = flag.String("addr", "127.0.0.1:9090", "listen address")
	latency = flag.Duration("latency", 300*time.Millisecond, "simulated sheet latency per tab read")
)

type demoSheet struct {
	m       sync.Mutex
	headers map[string][]string
	rows    map[string][][]string
}

func newDemoSheet() *demoSheet {
	s := &demoSheet{
		headers: map[string][]string{
			"accounts":      {"id", "handle", "display_name", "bio", "verified"},
			"posts":         {"id", "author_id", "content", "created_at", "is_story"},
			"comments":      {"id", "post_id", "author_id", "text", "created_at"},
			"likes":         {"post_id", "account_id"},
			"follows":       {"follower_id", "target_id"},
			"blocks":        {"blocker_id", "target_id"},
			"bans":          {"handle", "reason", "until"},
			"messages":      {"id", "sender_id", "recipient_id", "content", "created_at", "read"},
			"notifications": {"id", "recipient_id", "actor_id", "kind", "post_id", "created_at", "read"},
			"photos":        {"id", "owner_id", "url", "caption", "created_at"},
			"status":        {"state", "message"},
		},
		rows: map[string][][]string{},
	}

	now := time.Now().UTC()
	stamp := func(minutesAgo int) string {
		return now.Add(-time.Duration(minutesAgo) * time.Minute).Format(time.RFC3339)
	}
	s.rows["accounts"] = [][]string{
		{"u_demo", "demo", "Demo Viewer", "just trying things", "false"},
		{"u_ada", "ada", "Ada", "systems and coffee", "true"},
		{"u_lin", "lin", "Lin", "", "false"},
	}
	s.rows["posts"] = [][]string{
		{"p_1", "u_ada", "shipping something new today #golang", stamp(90), "false"},
		{"p_2", "u_lin", "morning run done", stamp(45), "false"},
		{"p_3", "u_ada", "story time [media|https://example.com/coffee.jpg]", stamp(10), "true"},
	}
	s.rows["comments"] = [][]string{
		{"c_1", "p_1", "u_lin", "congrats!", stamp(80)},
	}
	s.rows["likes"] = [][]string{
		{"p_1", "u_demo"},
		{"p_1", "u_lin"},
	}
	s.rows["follows"] = [][]string{
		{"u_demo", "u_ada"},
		{"u_demo", "u_lin"},
		{"u_lin", "u_demo"},
	}
	s.rows["messages"] = [][]string{
		{"m_1", "u_ada", "u_demo", encode("welcome to gridfeed"), stamp(30), "false"},
	}
	s.rows["status"] = [][]string{
		{"up", ""},
	}
	return s
}

func encode(text string) string {
	return base64.StdEncoding.EncodeToString([]byte(text))
}

func csvEscape(cell string) string {
	if strings.ContainsAny(cell, ",\"\n") {
		return "\"" + strings.ReplaceAll(cell, "\"", "\"\"") + "\""
	}
	return cell
}

func (s *demoSheet) serveTab(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/")
	s.m.Lock()
	header, ok := s.headers[name]
	rows := s.rows[name]
	s.m.Unlock()
	if !ok {
		http.NotFound(w, r)
		return
	}
	time.Sleep(*latency)

	var b strings.Builder
	b.WriteString(strings.Join(header, ","))
	for _, row := range rows {
		b.WriteString("\n")
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = csvEscape(cell)
		}
		b.WriteString(strings.Join(cells, ","))
	}
	w.Header().Set("Content-Type", "text/csv")
	fmt.Fprint(w, b.String())
}

func (s *demoSheet) append(tab string, row []string) {
	s.rows[tab] = append(s.rows[tab], row)
}

func (s *demoSheet) removeWhere(tab string, match func(row []string) bool) {
	kept := s.rows[tab][:0]
	for _, row := range s.rows[tab] {
		if !match(row) {
			kept = append(kept, row)
		}
	}
	s.rows[tab] = kept
}

// apply mutates the tabs the way the production apps-script endpoint
// does, one command per request, strictly in arrival order.
func (s *demoSheet) apply(w http.ResponseWriter, r *http.Request) {
	var cmd map[string]string
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	log.Printf("apply %s ref=%s", cmd["action"], cmd["client_ref"])

	s.m.Lock()
	defer s.m.Unlock()

	reject := func(reason string, code string) {
		json.NewEncoder(w).Encode(map[string]string{
			"status": "error",
			"error":  reason,
			"code":   code,
		})
	}

	switch cmd["action"] {
	case "create_post":
		if strings.Contains(strings.ToLower(cmd["content"]), "spam") {
			reject("content not allowed", "content_rejected")
			return
		}
		s.append("posts", []string{cmd["client_ref"], cmd["author_id"], cmd["content"], cmd["created_at"], cmd["is_story"]})
	case "delete_post":
		s.removeWhere("posts", func(row []string) bool { return row[0] == cmd["post_id"] })
	case "create_comment":
		s.append("comments", []string{cmd["client_ref"], cmd["post_id"], cmd["author_id"], cmd["text"], cmd["created_at"]})
	case "delete_comment":
		s.removeWhere("comments", func(row []string) bool { return row[0] == cmd["comment_id"] })
	case "like_post":
		s.append("likes", []string{cmd["post_id"], cmd["account_id"]})
	case "unlike_post":
		s.removeWhere("likes", func(row []string) bool {
			return row[0] == cmd["post_id"] && row[1] == cmd["account_id"]
		})
	case "follow_user":
		s.append("follows", []string{cmd["follower_id"], cmd["target_id"]})
	case "unfollow_user":
		s.removeWhere("follows", func(row []string) bool {
			return row[0] == cmd["follower_id"] && row[1] == cmd["target_id"]
		})
	case "send_message":
		s.append("messages", []string{cmd["client_ref"], cmd["sender_id"], cmd["recipient_id"], cmd["content"], cmd["created_at"], "false"})
	case "mark_conversation_read":
		for _, row := range s.rows["messages"] {
			if row[1] == cmd["partner_id"] && row[2] == cmd["account_id"] {
				row[5] = "true"
			}
		}
	case "block_user":
		s.append("blocks", []string{cmd["blocker_id"], cmd["target_id"]})
	case "unblock_user":
		s.removeWhere("blocks", func(row []string) bool {
			return row[0] == cmd["blocker_id"] && row[1] == cmd["target_id"]
		})
	case "dismiss_notification":
		s.removeWhere("notifications", func(row []string) bool { return row[0] == cmd["notification_id"] })
	case "mark_notifications_read":
		for _, row := range s.rows["notifications"] {
			if row[1] == cmd["account_id"] {
				row[6] = "true"
			}
		}
	case "record_photo":
		s.append("photos", []string{cmd["client_ref"], cmd["owner_id"], cmd["url"], cmd["caption"], cmd["created_at"]})
	default:
		reject("unsupported action", "bad_action")
		return
	}

	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func main() {
	flag.Parse()
	sheet := newDemoSheet()

	mux := http.NewServeMux()
	mux.HandleFunc("/apply", sheet.apply)
	mux.HandleFunc("/", sheet.serveTab)

	log.Printf("demo sheet serving on %s (latency %s)", *addr, *latency)
	log.Fatal(http.ListenAndServe(*addr, mux))
}
