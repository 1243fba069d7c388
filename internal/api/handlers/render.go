package handlers

import (
	"bytes"
	"html"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/SoulMinT05/threadsnet/internal/core/posts"
)

var (
	markdown = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(
			goldmarkhtml.WithHardWraps(),
		),
	)
	policy = newPolicy()
)

func newPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AddTargetBlankToFullyQualifiedLinks(true)
	p.RequireNoReferrerOnLinks(true)
	return p
}

// RenderText converts post text from markdown to sanitised HTML.
// Stored text is never rewritten; this is presentation only.
func RenderText(source string) string {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(source), &buf); err != nil {
		return "<p>" + html.EscapeString(source) + "</p>"
	}
	return string(policy.SanitizeBytes(buf.Bytes()))
}

// ViewerState describes the authenticated caller's relationship to a post
type ViewerState struct {
	Liked bool `json:"liked"`
	Saved bool `json:"saved"`
}

// PostView is a post as returned to clients
type PostView struct {
	*posts.Post
	Viewer   *ViewerState `json:"viewer,omitempty"`
	TextHTML string       `json:"textHtml"`
}

// NewPostView wraps post with its rendered text
func NewPostView(post *posts.Post) *PostView {
	return &PostView{Post: post, TextHTML: RenderText(post.TextComment)}
}

// NewPostViews wraps every post in list. The result is never nil.
func NewPostViews(list []*posts.Post) []*PostView {
	views := make([]*PostView, 0, len(list))
	for _, p := range list {
		views = append(views, NewPostView(p))
	}
	return views
}
