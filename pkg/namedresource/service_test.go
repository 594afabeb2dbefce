package namedresource

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/shelfmark/shelfmark/pkg/errcodes"
	"github.com/shelfmark/shelfmark/pkg/migrations"
	"github.com/shelfmark/shelfmark/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	models.RegisterJoinModels(db)

	_, err = db.Exec("PRAGMA foreign_keys = ON")
	require.NoError(t, err)

	_, err = migrations.BringUpToDate(context.Background(), db)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

func newTagService(db *bun.DB) *Service[*models.Tag] {
	return NewService(db, Config{
		Resource:   "Tag",
		JoinTable:  "book_tags",
		JoinColumn: "tag_id",
	}, func() *models.Tag { return &models.Tag{} })
}

func createTestUser(ctx context.Context, t *testing.T, db *bun.DB, email string) *models.User {
	t.Helper()

	now := time.Now()
	user := &models.User{
		CreatedAt:    now,
		UpdatedAt:    now,
		Email:        email,
		Name:         "Test User",
		PasswordHash: "x",
		IsActive:     true,
	}
	_, err := db.NewInsert().Model(user).Returning("*").Exec(ctx)
	require.NoError(t, err)
	return user
}

func createTestBook(ctx context.Context, t *testing.T, db *bun.DB, userID int, title string) *models.Book {
	t.Helper()

	now := time.Now()
	book := &models.Book{
		CreatedAt: now,
		UpdatedAt: now,
		UserID:    userID,
		Title:     title,
		Price:     "9.99",
	}
	_, err := db.NewInsert().Model(book).Returning("*").Exec(ctx)
	require.NoError(t, err)
	return book
}

func assignTag(ctx context.Context, t *testing.T, db *bun.DB, bookID, tagID int) {
	t.Helper()

	_, err := db.NewInsert().Model(&models.BookTag{BookID: bookID, TagID: tagID}).Exec(ctx)
	require.NoError(t, err)
}

func TestServiceFindOrCreate_ReusesExistingRecord(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTagService(db)
	ctx := context.Background()
	user := createTestUser(ctx, t, db, "findorcreate@example.com")

	first, err := svc.FindOrCreate(ctx, user.ID, "Fiction")
	require.NoError(t, err)
	assert.NotZero(t, first.ID)
	assert.Equal(t, "Fiction", first.Name)
	assert.Equal(t, user.ID, first.UserID)

	second, err := svc.FindOrCreate(ctx, user.ID, "Fiction")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	count, err := db.NewSelect().Model((*models.Tag)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestServiceFindOrCreate_MatchesExactNameOnly(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTagService(db)
	ctx := context.Background()
	user := createTestUser(ctx, t, db, "exactmatch@example.com")

	lower, err := svc.FindOrCreate(ctx, user.ID, "fiction")
	require.NoError(t, err)

	upper, err := svc.FindOrCreate(ctx, user.ID, "Fiction")
	require.NoError(t, err)

	assert.NotEqual(t, lower.ID, upper.ID)
}

func TestServiceFindOrCreate_ScopedToOwner(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTagService(db)
	ctx := context.Background()
	alice := createTestUser(ctx, t, db, "alice@example.com")
	bob := createTestUser(ctx, t, db, "bob@example.com")

	aliceTag, err := svc.FindOrCreate(ctx, alice.ID, "Fiction")
	require.NoError(t, err)

	bobTag, err := svc.FindOrCreate(ctx, bob.ID, "Fiction")
	require.NoError(t, err)

	assert.NotEqual(t, aliceTag.ID, bobTag.ID)
	assert.Equal(t, bob.ID, bobTag.UserID)
}

func TestServiceReconcile_CollapsesDuplicatesAndPreservesOrder(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTagService(db)
	ctx := context.Background()
	user := createTestUser(ctx, t, db, "reconcile@example.com")

	recs, err := svc.Reconcile(ctx, user.ID, []Descriptor{
		{Name: "Fantasy"},
		{Name: "Fiction"},
		{Name: "Fantasy"},
	})
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "Fantasy", recs[0].Name)
	assert.Equal(t, "Fiction", recs[1].Name)

	count, err := db.NewSelect().Model((*models.Tag)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestServiceReconcile_BlankNameFailsBeforeAnyWrite(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTagService(db)
	ctx := context.Background()
	user := createTestUser(ctx, t, db, "blankname@example.com")

	_, err := svc.Reconcile(ctx, user.ID, []Descriptor{
		{Name: "Fiction"},
		{Name: "   "},
	})
	require.Error(t, err)

	var codeErr *errcodes.Error
	require.ErrorAs(t, err, &codeErr)
	assert.Equal(t, "validation_error", codeErr.Code)

	count, err := db.NewSelect().Model((*models.Tag)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestServiceReconcile_TrimsNames(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTagService(db)
	ctx := context.Background()
	user := createTestUser(ctx, t, db, "trim@example.com")

	recs, err := svc.Reconcile(ctx, user.ID, []Descriptor{{Name: "  Fiction  "}})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "Fiction", recs[0].Name)
}

func TestServiceList_OrdersByNameDescending(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTagService(db)
	ctx := context.Background()
	user := createTestUser(ctx, t, db, "listorder@example.com")

	for _, name := range []string{"Comedy", "Vegan", "Dessert"} {
		_, err := svc.FindOrCreate(ctx, user.ID, name)
		require.NoError(t, err)
	}

	recs, err := svc.List(ctx, ListOptions{UserID: user.ID})
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, "Vegan", recs[0].Name)
	assert.Equal(t, "Dessert", recs[1].Name)
	assert.Equal(t, "Comedy", recs[2].Name)
}

func TestServiceList_ScopedToOwner(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTagService(db)
	ctx := context.Background()
	alice := createTestUser(ctx, t, db, "alice-list@example.com")
	bob := createTestUser(ctx, t, db, "bob-list@example.com")

	_, err := svc.FindOrCreate(ctx, alice.ID, "Fiction")
	require.NoError(t, err)
	_, err = svc.FindOrCreate(ctx, bob.ID, "Romance")
	require.NoError(t, err)

	recs, err := svc.List(ctx, ListOptions{UserID: alice.ID})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "Fiction", recs[0].Name)
}

func TestServiceList_AssignedOnly(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTagService(db)
	ctx := context.Background()
	user := createTestUser(ctx, t, db, "assignedonly@example.com")

	assigned, err := svc.FindOrCreate(ctx, user.ID, "Assigned")
	require.NoError(t, err)
	_, err = svc.FindOrCreate(ctx, user.ID, "Unassigned")
	require.NoError(t, err)

	book := createTestBook(ctx, t, db, user.ID, "Book One")
	assignTag(ctx, t, db, book.ID, assigned.ID)

	recs, err := svc.List(ctx, ListOptions{UserID: user.ID, AssignedOnly: true})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, assigned.ID, recs[0].ID)
}

func TestServiceList_AssignedOnlyDeduplicates(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTagService(db)
	ctx := context.Background()
	user := createTestUser(ctx, t, db, "assigneddedupe@example.com")

	tag, err := svc.FindOrCreate(ctx, user.ID, "Popular")
	require.NoError(t, err)

	first := createTestBook(ctx, t, db, user.ID, "Book One")
	second := createTestBook(ctx, t, db, user.ID, "Book Two")
	assignTag(ctx, t, db, first.ID, tag.ID)
	assignTag(ctx, t, db, second.ID, tag.ID)

	recs, err := svc.List(ctx, ListOptions{UserID: user.ID, AssignedOnly: true})
	require.NoError(t, err)
	assert.Len(t, recs, 1)
}

func TestServiceRetrieve_ForeignRecordIsNotFound(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTagService(db)
	ctx := context.Background()
	alice := createTestUser(ctx, t, db, "alice-retrieve@example.com")
	bob := createTestUser(ctx, t, db, "bob-retrieve@example.com")

	tag, err := svc.FindOrCreate(ctx, alice.ID, "Private")
	require.NoError(t, err)

	_, err = svc.Retrieve(ctx, bob.ID, tag.ID)
	require.Error(t, err)

	var codeErr *errcodes.Error
	require.ErrorAs(t, err, &codeErr)
	assert.Equal(t, "not_found", codeErr.Code)
}

func TestServiceUpdate_RenamesRecord(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTagService(db)
	ctx := context.Background()
	user := createTestUser(ctx, t, db, "rename@example.com")

	tag, err := svc.FindOrCreate(ctx, user.ID, "Old Name")
	require.NoError(t, err)

	tag.Name = "New Name"
	err = svc.Update(ctx, tag, UpdateOptions{Columns: []string{"name"}})
	require.NoError(t, err)

	reloaded, err := svc.Retrieve(ctx, user.ID, tag.ID)
	require.NoError(t, err)
	assert.Equal(t, "New Name", reloaded.Name)
}

func TestServiceUpdate_DoesNotMutateCallerColumns(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTagService(db)
	ctx := context.Background()
	user := createTestUser(ctx, t, db, "columns@example.com")

	tag, err := svc.FindOrCreate(ctx, user.ID, "Stable")
	require.NoError(t, err)

	columns := make([]string, 0, 4)
	columns = append(columns, "name")
	tag.Name = "Renamed"
	err = svc.Update(ctx, tag, UpdateOptions{Columns: columns})
	require.NoError(t, err)

	assert.Equal(t, []string{"name"}, columns)
	// The spare capacity behind the caller's slice stays untouched.
	assert.NotEqual(t, "updated_at", columns[:2][1])
}

func TestServiceDelete_RemovesRecordAndAssociations(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTagService(db)
	ctx := context.Background()
	user := createTestUser(ctx, t, db, "delete@example.com")

	tag, err := svc.FindOrCreate(ctx, user.ID, "Doomed")
	require.NoError(t, err)
	book := createTestBook(ctx, t, db, user.ID, "Still Here")
	assignTag(ctx, t, db, book.ID, tag.ID)

	err = svc.Delete(ctx, user.ID, tag.ID)
	require.NoError(t, err)

	count, err := db.NewSelect().Model((*models.BookTag)(nil)).Where("tag_id = ?", tag.ID).Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	// The book survives the tag deletion.
	exists, err := db.NewSelect().Model((*models.Book)(nil)).Where("id = ?", book.ID).Exists(ctx)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestServiceDelete_ForeignRecordIsNotFound(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTagService(db)
	ctx := context.Background()
	alice := createTestUser(ctx, t, db, "alice-delete@example.com")
	bob := createTestUser(ctx, t, db, "bob-delete@example.com")

	tag, err := svc.FindOrCreate(ctx, alice.ID, "Protected")
	require.NoError(t, err)

	err = svc.Delete(ctx, bob.ID, tag.ID)
	require.Error(t, err)

	var codeErr *errcodes.Error
	require.ErrorAs(t, err, &codeErr)
	assert.Equal(t, "not_found", codeErr.Code)

	// Still owned by alice.
	_, err = svc.Retrieve(ctx, alice.ID, tag.ID)
	require.NoError(t, err)
}
