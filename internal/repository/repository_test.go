package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/d60-Lab/microblog/internal/model"
	"github.com/d60-Lab/microblog/internal/testutil"
	"github.com/d60-Lab/microblog/pkg/database"
)

func TestUserRepository(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	u := &model.User{Email: "a@example.com", Account: "alice", Password: "h", Name: "Alice", Role: model.RoleUser}
	require.NoError(t, repo.Create(ctx, u))
	require.NotEmpty(t, u.ID)

	got, err := repo.GetByAccount(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	ok, err := repo.Exists(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	accTaken, mailTaken, err := repo.Taken(ctx, "alice", "other@example.com", "")
	require.NoError(t, err)
	assert.True(t, accTaken)
	assert.False(t, mailTaken)

	// 排除自己
	accTaken, mailTaken, err = repo.Taken(ctx, "alice", "a@example.com", u.ID)
	require.NoError(t, err)
	assert.False(t, accTaken)
	assert.False(t, mailTaken)

	require.NoError(t, repo.Updates(ctx, u.ID, map[string]interface{}{"name": "Alice B"}))
	got, err = repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice B", got.Name)
	assert.ErrorIs(t, repo.Updates(ctx, "missing", map[string]interface{}{"name": "x"}), ErrNotFound)

	dup := &model.User{Email: "a@example.com", Account: "alice2", Password: "h", Name: "A2", Role: model.RoleUser}
	assert.True(t, database.IsUniqueViolation(repo.Create(ctx, dup)))
}

func TestLikeRepository(t *testing.T) {
	db := testutil.NewDB(t)
	fx := testutil.NewFixture(t, db)
	repo := NewLikeRepository(db)
	ctx := context.Background()

	u := fx.User("alice")
	t1, t2 := fx.Tweet(u, "one"), fx.Tweet(u, "two")

	l, err := repo.Create(ctx, u.ID, t1.ID)
	require.NoError(t, err)

	_, err = repo.Create(ctx, u.ID, t1.ID)
	assert.True(t, database.IsUniqueViolation(err))

	cnt, err := repo.CountByTweet(ctx, t1.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, cnt)

	set, err := repo.LikedTweetIDs(ctx, u.ID)
	require.NoError(t, err)
	assert.Contains(t, set, t1.ID)
	assert.NotContains(t, set, t2.ID)

	found, err := repo.Find(ctx, u.ID, t1.ID)
	require.NoError(t, err)
	assert.Equal(t, l.ID, found.ID)

	require.NoError(t, repo.Delete(ctx, l.ID))
	_, err = repo.Find(ctx, u.ID, t1.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, l.ID), ErrNotFound)
}

func TestTweetDeleteCascades(t *testing.T) {
	db := testutil.NewDB(t)
	fx := testutil.NewFixture(t, db)
	s := NewStore(db)
	ctx := context.Background()

	u := fx.User("alice")
	tw := fx.Tweet(u, "bye")
	keep := fx.Tweet(u, "stay")
	fx.Like(u, tw)
	fx.Reply(u, tw, "r")
	fx.Like(u, keep)

	err := s.Transaction(ctx, func(tx Store) error {
		return tx.Tweets().Delete(ctx, tw.ID)
	})
	require.NoError(t, err)

	var likes, replies int64
	require.NoError(t, db.Model(&model.Like{}).Count(&likes).Error)
	require.NoError(t, db.Model(&model.Reply{}).Count(&replies).Error)
	assert.EqualValues(t, 1, likes)
	assert.EqualValues(t, 0, replies)

	ok, err := s.Tweets().Exists(ctx, tw.ID)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.ErrorIs(t, s.Tweets().Delete(ctx, tw.ID), ErrNotFound)
}

func TestStoreTransactionRollback(t *testing.T) {
	db := testutil.NewDB(t)
	fx := testutil.NewFixture(t, db)
	s := NewStore(db)
	ctx := context.Background()
	u := fx.User("alice")

	boom := errors.New("boom")
	err := s.Transaction(ctx, func(tx Store) error {
		if err := tx.Tweets().Create(ctx, &model.Tweet{UserID: u.ID, Description: "x"}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	rows, err := s.Feed().ListTweets(ctx, Page{})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestNewPage(t *testing.T) {
	assert.Equal(t, Page{}, NewPage(0, 0))
	assert.Equal(t, Page{Offset: 0, Limit: 20}, NewPage(1, 0))
	assert.Equal(t, Page{Offset: 40, Limit: 20}, NewPage(3, 20))
	assert.Equal(t, Page{Offset: 0, Limit: 100}, NewPage(-1, 500))
}

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestFeedErrorPropagation(t *testing.T) {
	db, mock := newMockDB(t)
	boom := errors.New("connection reset")
	mock.ExpectQuery("FROM tweets t").WillReturnError(boom)

	_, err := NewFeedRepository(db).ListTweets(context.Background(), Page{})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "list tweets")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFollowListErrorPropagation(t *testing.T) {
	db, mock := newMockDB(t)
	boom := errors.New("timeout")
	mock.ExpectQuery("FROM followships f").WillReturnError(boom)

	_, err := NewFollowRepository(db).ListFollowers(context.Background(), "u", "v", NewPage(1, 10))
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}
