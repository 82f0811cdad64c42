package server

import (
	"fmt"
	"net/url"
	"strings"
	"testing"

	"github.com/mandeell/Mandel-Blog-Complete/internal/models"
	"github.com/mandeell/Mandel-Blog-Complete/internal/testutil"
	"github.com/mandeell/Mandel-Blog-Complete/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateComment_AnonymousIsRedirected(t *testing.T) {
	env := newTestEnv(t)
	author := testutil.CreateUser(t, env.db, "agent@example.com", testPassword, true, false)
	post := testutil.CreatePost(t, env.db, author, "Open Thread")

	resp := env.client(t).postForm(fmt.Sprintf("/post/%d", post.ID), url.Values{"comment_text": {"hi"}})
	assertRedirect(t, resp, "/login")

	var count int64
	require.NoError(t, env.db.Model(&models.Comment{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateComment(t *testing.T) {
	env := newTestEnv(t)
	author := testutil.CreateUser(t, env.db, "agent@example.com", testPassword, true, false)
	reader := testutil.CreateUser(t, env.db, "reader@example.com", testPassword, false, false)
	post := testutil.CreatePost(t, env.db, author, "Open Thread")
	path := fmt.Sprintf("/post/%d", post.ID)

	tc := env.client(t)
	tc.login("reader@example.com", testPassword)

	resp := tc.postForm(path, url.Values{"comment_text": {"   "}})
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), validation.MsgRequired)

	resp = tc.postForm(path, url.Values{"comment_text": {"Great read"}})
	assertRedirect(t, resp, path)

	var comments []models.Comment
	require.NoError(t, env.db.Where("post_id = ?", post.ID).Find(&comments).Error)
	require.Len(t, comments, 1)
	assert.Equal(t, reader.ID, comments[0].UserID)
	assert.Equal(t, "Great read", comments[0].Text)

	assert.Contains(t, readBody(t, tc.get(path)), "Great read")

	assert.Equal(t, fiber.StatusNotFound, tc.postForm("/post/9999", url.Values{"comment_text": {"lost"}}).StatusCode)
}

func TestDeleteComment(t *testing.T) {
	env := newTestEnv(t)
	agent := testutil.CreateUser(t, env.db, "agent@example.com", testPassword, true, false)
	testutil.CreateUser(t, env.db, "root@example.com", testPassword, false, true)
	post := testutil.CreatePost(t, env.db, agent, "Thread")
	comment := testutil.CreateComment(t, env.db, agent, post, "remove me")
	path := fmt.Sprintf("/delete_comment/%d", comment.ID)

	assert.Equal(t, fiber.StatusForbidden, env.client(t).get(path).StatusCode)

	nonAdmin := env.client(t)
	nonAdmin.login("agent@example.com", testPassword)
	assert.Equal(t, fiber.StatusForbidden, nonAdmin.get(path).StatusCode)

	admin := env.client(t)
	admin.login("root@example.com", testPassword)
	assertRedirect(t, admin.get(path), fmt.Sprintf("/post/%d", post.ID))

	var count int64
	require.NoError(t, env.db.Model(&models.Comment{}).Count(&count).Error)
	assert.Zero(t, count)
	assert.Equal(t, fiber.StatusNotFound, admin.get(path).StatusCode)
}

func TestShowPost_CommentsKeepStoredAuthorName(t *testing.T) {
	env := newTestEnv(t)
	agent := testutil.CreateUser(t, env.db, "agent@example.com", testPassword, true, false)
	reader := testutil.CreateUser(t, env.db, "reader@example.com", testPassword, false, false)
	post := testutil.CreatePost(t, env.db, agent, "Thread")
	testutil.CreateComment(t, env.db, reader, post, "alpha-comment")
	testutil.CreateComment(t, env.db, reader, post, "beta-comment")
	require.NoError(t, env.db.Model(reader).Update("name", "Renamed Reader").Error)

	body := readBody(t, env.client(t).get(fmt.Sprintf("/post/%d", post.ID)))
	assert.Contains(t, body, ">reader</span>")
	assert.NotContains(t, body, "Renamed Reader")
	require.Contains(t, body, "beta-comment")
	assert.Less(t, strings.Index(body, "alpha-comment"), strings.Index(body, "beta-comment"))
}
