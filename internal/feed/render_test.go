package feed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderPostList_EscapesUserContent(t *testing.T) {
	html, err := RenderPostList([]PostView{{
		ID:      1,
		Content: `<script>alert("xss")</script>`,
		Author:  AuthorInfo{Username: "alice"},
	}})
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "&lt;script&gt;")
}

func TestRenderPostList_EmptyInput(t *testing.T) {
	html, err := RenderPostList(nil)
	require.NoError(t, err)
	assert.Empty(t, html)
}

func TestRenderPostList_CardPerPost(t *testing.T) {
	views := []PostView{
		{ID: 1, Content: "first", Author: AuthorInfo{Username: "a"}},
		{ID: 2, Content: "second", Author: AuthorInfo{Username: "Anonymous", IsAnonymous: true}},
	}
	html, err := RenderPostList(views)
	require.NoError(t, err)
	assert.Contains(t, html, `data-post-id="1"`)
	assert.Contains(t, html, `data-post-id="2"`)
	assert.Contains(t, html, "Anonymous")
}
