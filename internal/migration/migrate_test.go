package migration

import (
	"testing"

	"github.com/pickboard/pickboard-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	return db
}

func TestRun_CreatesTables(t *testing.T) {
	db := openDB(t)
	require.NoError(t, Run(db))

	for _, table := range []string{"users", "posts", "comments", "likes", "comment_likes"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
	assert.True(t, db.Migrator().HasIndex(&domain.PostLike{}, "idx_post_likes_post_user"))
}

func TestSeedDemo_OnlyWhenEmpty(t *testing.T) {
	db := openDB(t)
	require.NoError(t, Run(db))

	require.NoError(t, SeedDemo(db))
	require.NoError(t, SeedDemo(db))

	var posts, users int64
	db.Model(&domain.Post{}).Count(&posts)
	db.Model(&domain.User{}).Count(&users)
	assert.Equal(t, int64(3), posts)
	assert.Equal(t, int64(1), users)
}

func TestVerify_CountsRowsAndOrphans(t *testing.T) {
	db := openDB(t)

	reports, err := Verify(db)
	require.NoError(t, err)
	require.Len(t, reports, len(Tables()))
	assert.False(t, reports[0].Exists)

	require.NoError(t, Run(db))
	require.NoError(t, SeedDemo(db))
	require.NoError(t, db.Create(&domain.Comment{PostID: 999, UserID: 1, Content: "lost"}).Error)

	reports, err = Verify(db)
	require.NoError(t, err)
	byTable := map[string]TableReport{}
	for _, r := range reports {
		byTable[r.Table] = r
	}
	assert.Equal(t, int64(3), byTable["posts"].Rows)
	assert.Equal(t, int64(0), byTable["posts"].Orphans)
	assert.Equal(t, int64(1), byTable["comments"].Rows)
	assert.Equal(t, int64(1), byTable["comments"].Orphans)
}

func TestDrop(t *testing.T) {
	db := openDB(t)
	require.NoError(t, Run(db))
	require.NoError(t, Drop(db))
	for _, table := range Tables() {
		assert.False(t, db.Migrator().HasTable(table), table)
	}
}
