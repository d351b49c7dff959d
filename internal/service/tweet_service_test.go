package service

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/microblog/internal/model"
	"github.com/d60-Lab/microblog/pkg/apperr"
)

func TestPostTweetLengthBoundary(t *testing.T) {
	e := newEnv(t)
	s := NewTweetService(e.store)
	ctx := context.Background()
	alice := e.fx.User("alice")

	_, err := s.PostTweet(ctx, alice, strings.Repeat("a", 141))
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, http.StatusUnprocessableEntity, ae.Status)
	assert.EqualValues(t, 0, e.count(t, &model.Tweet{}))

	v, err := s.PostTweet(ctx, alice, strings.Repeat("a", 140))
	require.NoError(t, err)
	assert.NotEmpty(t, v.ID)
	assert.Zero(t, v.LikesNum)
	assert.Zero(t, v.RepliesNum)
	assert.False(t, v.IsLiked)
	assert.Equal(t, alice.Author(), v.User)
	assert.False(t, v.CreatedAt.IsZero())
}

func TestPostTweetCountsRunes(t *testing.T) {
	e := newEnv(t)
	s := NewTweetService(e.store)
	alice := e.fx.User("alice")

	// 140 个汉字超过 140 字节但不超过 140 字符
	_, err := s.PostTweet(context.Background(), alice, strings.Repeat("推", 140))
	assert.NoError(t, err)
}

func TestPostTweetBlank(t *testing.T) {
	e := newEnv(t)
	s := NewTweetService(e.store)
	alice := e.fx.User("alice")

	_, err := s.PostTweet(context.Background(), alice, "   ")
	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, http.StatusBadRequest, ae.Status)
	assert.Equal(t, "Description is required!", ae.Message)
}

func TestPostReply(t *testing.T) {
	e := newEnv(t)
	s := NewTweetService(e.store)
	ctx := context.Background()
	alice, bob := e.fx.User("alice"), e.fx.User("bob")
	tw := e.fx.Tweet(alice, "hello")

	r, err := s.PostReply(ctx, bob, tw.ID, "hi")
	require.NoError(t, err)
	assert.Equal(t, tw.ID, r.TweetID)
	assert.Equal(t, "bob", r.User.Account)

	_, err = s.PostReply(ctx, bob, "missing", "hi")
	assert.ErrorIs(t, err, ErrTweetNotFound)

	_, err = s.PostReply(ctx, bob, tw.ID, "")
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	assert.EqualValues(t, 1, e.count(t, &model.Reply{}))
}

func TestAddLikeTwiceConflicts(t *testing.T) {
	e := newEnv(t)
	s := NewTweetService(e.store)
	ctx := context.Background()
	alice := e.fx.User("alice")
	tw := e.fx.Tweet(alice, "hello")

	l, err := s.AddLike(ctx, alice.ID, tw.ID)
	require.NoError(t, err)
	assert.Equal(t, tw.ID, l.TweetID)

	_, err = s.AddLike(ctx, alice.ID, tw.ID)
	assert.ErrorIs(t, err, ErrAlreadyLiked)
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
	assert.EqualValues(t, 1, e.count(t, &model.Like{}))

	_, err = s.AddLike(ctx, alice.ID, "missing")
	assert.ErrorIs(t, err, ErrTweetNotFound)
}

func TestRemoveLike(t *testing.T) {
	e := newEnv(t)
	s := NewTweetService(e.store)
	ctx := context.Background()
	alice, bob := e.fx.User("alice"), e.fx.User("bob")
	tw := e.fx.Tweet(alice, "hello")
	other := e.fx.Like(bob, tw)

	// 没点过赞：NotFound，且不影响他人的赞
	_, err := s.RemoveLike(ctx, alice.ID, tw.ID)
	assert.ErrorIs(t, err, ErrLikeNotFound)
	assert.EqualValues(t, 1, e.count(t, &model.Like{}))

	deleted, err := s.RemoveLike(ctx, bob.ID, tw.ID)
	require.NoError(t, err)
	assert.Equal(t, other.ID, deleted.ID)
	assert.EqualValues(t, 0, e.count(t, &model.Like{}))
}

func TestDeleteTweet(t *testing.T) {
	e := newEnv(t)
	s := NewTweetService(e.store)
	ctx := context.Background()
	alice, bob := e.fx.User("alice"), e.fx.User("bob")
	tw := e.fx.Tweet(alice, "hello")
	e.fx.Like(bob, tw)
	e.fx.Reply(bob, tw, "hi")

	err := s.DeleteTweet(ctx, bob.ID, tw.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	assert.EqualValues(t, 1, e.count(t, &model.Tweet{}))

	require.NoError(t, s.DeleteTweet(ctx, alice.ID, tw.ID))
	assert.EqualValues(t, 0, e.count(t, &model.Tweet{}))
	assert.EqualValues(t, 0, e.count(t, &model.Like{}))
	assert.EqualValues(t, 0, e.count(t, &model.Reply{}))

	assert.ErrorIs(t, s.DeleteTweet(ctx, alice.ID, tw.ID), ErrTweetNotFound)
}
