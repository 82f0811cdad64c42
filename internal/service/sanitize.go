package service

import (
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	ugcOnce   sync.Once
	ugcPolicy *bluemonday.Policy
)

// sanitizeHTML strips scripts, event handlers and unsafe URLs from
// user-authored rich text while keeping ordinary formatting.
func sanitizeHTML(s string) string {
	ugcOnce.Do(func() {
		ugcPolicy = bluemonday.UGCPolicy()
	})
	return ugcPolicy.Sanitize(s)
}
