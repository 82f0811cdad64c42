package seed

import (
	"testing"

	"github.com/mandeell/Mandel-Blog-Complete/internal/auth"
	"github.com/mandeell/Mandel-Blog-Complete/internal/models"
	"github.com/mandeell/Mandel-Blog-Complete/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeed_CreatesRequestedData(t *testing.T) {
	db := testutil.NewSQLiteDB(t)

	res, err := Seed(db, Options{Users: 6, Posts: 8, Comments: 10, RandSeed: 42})
	require.NoError(t, err)
	assert.Len(t, res.Users, 6)
	assert.Len(t, res.Posts, 8)
	assert.Equal(t, 10, res.Comments)

	var users, posts, comments int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	require.NoError(t, db.Model(&models.Post{}).Count(&posts).Error)
	require.NoError(t, db.Model(&models.Comment{}).Count(&comments).Error)
	assert.Equal(t, int64(6), users)
	assert.Equal(t, int64(8), posts)
	assert.Equal(t, int64(10), comments)

	titles := map[string]bool{}
	for _, p := range res.Posts {
		var owner models.User
		require.NoError(t, db.First(&owner, p.UserID).Error)
		assert.True(t, owner.Agent, "posts are owned by agents")
		assert.False(t, titles[p.Title], "duplicate title %q", p.Title)
		titles[p.Title] = true
	}

	assert.True(t, auth.CheckPassword(res.Users[0].Password, DefaultPassword))
}

func TestSeed_CleanRemovesExistingRows(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	author := testutil.CreateUser(t, db, "old@example.com", "Sup3r$ecret!", true, false)
	post := testutil.CreatePost(t, db, author, "Old Post")
	testutil.CreateComment(t, db, author, post, "old comment")

	_, err := Seed(db, Options{Users: 1, Posts: 1, Clean: true})
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Where("email = ?", "old@example.com").Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, db.Model(&models.Comment{}).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, db.Model(&models.Post{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestSeed_PostsNeedUsers(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	_, err := Seed(db, Options{Posts: 3})
	assert.Error(t, err)
}
