package main

import (
	"fmt"
	"io"
	"sync"

	"github.com/polkiloo/catering/internal/feed"
)

const timeLayout = "2006-01-02 15:04"

type renderer struct {
	mu  sync.Mutex
	out io.Writer
}

func newRenderer(out io.Writer) *renderer {
	return &renderer{out: out}
}

// Render prints the whole snapshot, unread entries marked with an asterisk.
func (r *renderer) Render(s feed.Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()

	fmt.Fprintf(r.out, "--- %d unread ---\n", s.Unread)
	for _, n := range s.Items {
		mark := " "
		if !n.Read {
			mark = "*"
		}
		fmt.Fprintf(r.out, "%s %s [%s] %s: %s\n", mark, n.CreatedAt.Format(timeLayout), n.Role, n.Title, n.Message)
	}
}
