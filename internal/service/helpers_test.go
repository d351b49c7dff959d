package service

import (
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/d60-Lab/microblog/internal/repository"
	"github.com/d60-Lab/microblog/internal/testutil"
)

type env struct {
	db    *gorm.DB
	store repository.Store
	fx    *testutil.Fixture
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := testutil.NewDB(t)
	return &env{db: db, store: repository.NewStore(db), fx: testutil.NewFixture(t, db)}
}

func (e *env) feed(now time.Time) *feedService {
	loc, _ := time.LoadLocation("Asia/Taipei")
	s := NewFeedService(e.store, loc).(*feedService)
	s.now = func() time.Time { return now }
	return s
}

func (e *env) count(t *testing.T, model interface{}) int64 {
	t.Helper()
	var n int64
	if err := e.db.Model(model).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}
