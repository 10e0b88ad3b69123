package feed

import (
	"html/template"
	"strings"
)

// postListTmpl renders the fragment that polling clients splice into the
// feed. Markup mirrors the server-rendered feed cards.
var postListTmpl = template.Must(template.New("post_list").Parse(`{{range .}}
<article class="post-card" data-post-id="{{.ID}}" data-timestamp="{{.Timestamp}}">
  <header class="post-header">
    <span class="post-author">{{.Author.Username}}</span>
    <span class="post-category">{{.Category}}</span>
    <time class="post-time">{{.CreatedAt}}</time>
  </header>
  <div class="post-content">{{.Content}}</div>
  {{range .ImageURLs}}<img class="post-image" src="{{.}}" alt="">
  {{end}}{{if .VideoURL}}<video class="post-video" src="{{.VideoURL}}" controls></video>
  {{end}}<footer class="post-actions">
    <button class="like-btn{{if .Liked}} liked{{end}}" data-post-id="{{.ID}}">{{.LikesCount}}</button>
    <button class="comment-btn" data-post-id="{{.ID}}">{{.CommentsCount}}</button>
    <button class="share-btn" data-post-id="{{.ID}}">{{.SharesCount}}</button>
    <button class="bookmark-btn{{if .Bookmarked}} active{{end}}" data-post-id="{{.ID}}"></button>
  </footer>
</article>
{{end}}`))

// RenderPostList renders post cards to an HTML fragment. Content is
// escaped by html/template, so user text cannot break the markup.
func RenderPostList(views []PostView) (string, error) {
	var b strings.Builder
	if err := postListTmpl.Execute(&b, views); err != nil {
		return "", err
	}
	return b.String(), nil
}
