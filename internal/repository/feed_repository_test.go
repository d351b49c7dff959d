package repository

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/microblog/internal/testutil"
)

var ignoreTimes = cmpopts.IgnoreFields(TweetRow{}, "CreatedAt", "UpdatedAt")

func TestFeedListTweets(t *testing.T) {
	db := testutil.NewDB(t)
	fx := testutil.NewFixture(t, db)
	ctx := context.Background()

	alice, bob := fx.User("alice"), fx.User("bob")
	t1 := fx.Tweet(alice, "first")
	t2 := fx.Tweet(bob, "second")
	fx.Like(alice, t1)
	fx.Like(bob, t1)
	fx.Reply(bob, t1, "nice")

	rows, err := NewFeedRepository(db).ListTweets(ctx, Page{})
	require.NoError(t, err)

	want := []TweetRow{
		{ID: t2.ID, UserID: bob.ID, Description: "second", Account: "bob", Name: "bob", Avatar: bob.Avatar},
		{ID: t1.ID, UserID: alice.ID, Description: "first", Account: "alice", Name: "alice", Avatar: alice.Avatar, LikesNum: 2, RepliesNum: 1},
	}
	if diff := cmp.Diff(want, rows, ignoreTimes); diff != "" {
		t.Errorf("ListTweets mismatch (-want +got):\n%s", diff)
	}
}

func TestFeedListTweetsPaged(t *testing.T) {
	db := testutil.NewDB(t)
	fx := testutil.NewFixture(t, db)
	u := fx.User("alice")
	var ids []string
	for i := 0; i < 5; i++ {
		ids = append(ids, fx.Tweet(u, "t").ID)
	}

	rows, err := NewFeedRepository(db).ListTweets(context.Background(), NewPage(2, 2))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	// 倒序：第二页是第 3、2 条
	assert.Equal(t, ids[2], rows[0].ID)
	assert.Equal(t, ids[1], rows[1].ID)
}

func TestFeedGetTweet(t *testing.T) {
	db := testutil.NewDB(t)
	fx := testutil.NewFixture(t, db)
	repo := NewFeedRepository(db)
	ctx := context.Background()

	u := fx.User("alice")
	tw := fx.Tweet(u, "hello")
	fx.Like(u, tw)

	row, err := repo.GetTweet(ctx, tw.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello", row.Description)
	assert.Equal(t, "alice", row.Account)
	assert.EqualValues(t, 1, row.LikesNum)
	assert.True(t, row.CreatedAt.Equal(tw.CreatedAt))

	_, err = repo.GetTweet(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFeedListRepliesAscending(t *testing.T) {
	db := testutil.NewDB(t)
	fx := testutil.NewFixture(t, db)

	alice, bob := fx.User("alice"), fx.User("bob")
	tw := fx.Tweet(alice, "hello")
	r1 := fx.Reply(bob, tw, "one")
	r2 := fx.Reply(alice, tw, "two")
	fx.Reply(bob, fx.Tweet(bob, "other"), "elsewhere")

	rows, err := NewFeedRepository(db).ListReplies(context.Background(), tw.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, r1.ID, rows[0].ID)
	assert.Equal(t, "bob", rows[0].Account)
	assert.Equal(t, r2.ID, rows[1].ID)
	assert.Equal(t, "alice", rows[1].Account)
}

func TestFeedListUserTweetsViewerScoped(t *testing.T) {
	db := testutil.NewDB(t)
	fx := testutil.NewFixture(t, db)
	repo := NewFeedRepository(db)
	ctx := context.Background()

	alice, bob, carol := fx.User("alice"), fx.User("bob"), fx.User("carol")
	liked := fx.Tweet(alice, "liked by bob")
	plain := fx.Tweet(alice, "plain")
	fx.Tweet(carol, "not alice")
	fx.Like(bob, liked)

	rows, err := repo.ListUserTweets(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	want := []TweetRow{
		{ID: plain.ID, UserID: alice.ID, Description: "plain", Account: "alice", Name: "alice", Avatar: alice.Avatar},
		{ID: liked.ID, UserID: alice.ID, Description: "liked by bob", Account: "alice", Name: "alice", Avatar: alice.Avatar, LikesNum: 1, IsLiked: true},
	}
	if diff := cmp.Diff(want, rows, ignoreTimes); diff != "" {
		t.Errorf("ListUserTweets mismatch (-want +got):\n%s", diff)
	}

	// carol 看到同样的计数，但 isLiked 为 false
	rows, err = repo.ListUserTweets(ctx, alice.ID, carol.ID)
	require.NoError(t, err)
	for _, r := range rows {
		assert.False(t, r.IsLiked)
	}
}

func TestFeedListUserRepliesLimit(t *testing.T) {
	db := testutil.NewDB(t)
	fx := testutil.NewFixture(t, db)

	alice, bob := fx.User("alice"), fx.User("bob")
	tw := fx.Tweet(alice, "hello")
	var last string
	for i := 0; i < 7; i++ {
		last = fx.Reply(bob, tw, "r").ID
	}

	rows, err := NewFeedRepository(db).ListUserReplies(context.Background(), bob.ID, 5)
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, last, rows[0].ID)
	assert.Equal(t, tw.ID, rows[0].TweetID)
	assert.Equal(t, alice.ID, rows[0].TweetAuthorID)
	assert.Equal(t, "alice", rows[0].TweetAuthorAccount)
	for i := 1; i < len(rows); i++ {
		assert.False(t, rows[i].CreatedAt.After(rows[i-1].CreatedAt))
	}
}

func TestFeedListUserLikes(t *testing.T) {
	db := testutil.NewDB(t)
	fx := testutil.NewFixture(t, db)
	repo := NewFeedRepository(db)
	ctx := context.Background()

	alice, bob, carol := fx.User("alice"), fx.User("bob"), fx.User("carol")
	t1 := fx.Tweet(alice, "one")
	t2 := fx.Tweet(carol, "two")
	fx.Like(bob, t2)
	fx.Like(bob, t1) // 后点赞，排在前面
	fx.Like(carol, t1)

	rows, err := repo.ListUserLikes(ctx, bob.ID, carol.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, t1.ID, rows[0].ID)
	assert.EqualValues(t, 2, rows[0].LikesNum)
	assert.True(t, rows[0].IsLiked, "carol liked t1")
	assert.Equal(t, "alice", rows[0].Account)
	assert.Equal(t, t2.ID, rows[1].ID)
	assert.False(t, rows[1].IsLiked)
	assert.True(t, rows[0].LikedAt.After(rows[1].LikedAt))
}

func TestFeedGetProfile(t *testing.T) {
	db := testutil.NewDB(t)
	fx := testutil.NewFixture(t, db)
	repo := NewFeedRepository(db)
	ctx := context.Background()

	alice, bob, carol := fx.User("alice"), fx.User("bob"), fx.User("carol")
	fx.Follow(alice, bob)
	fx.Follow(alice, carol)
	fx.Follow(carol, alice)

	row, err := repo.GetProfile(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", row.Email)
	assert.EqualValues(t, 2, row.FollowingNum)
	assert.EqualValues(t, 1, row.FollowerNum)

	row, err = repo.GetProfile(ctx, bob.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, row.FollowingNum)
	assert.EqualValues(t, 1, row.FollowerNum)

	_, err = repo.GetProfile(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
