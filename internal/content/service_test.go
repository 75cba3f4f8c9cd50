// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// service_test.go exercises the Service against PostgreSQL. Tests are
// skipped if the database is not available.
package content

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gameoftrivia/internal/assist"
	"gameoftrivia/internal/database"
	"gameoftrivia/internal/i18n"
	"gameoftrivia/internal/models"
	"gameoftrivia/internal/store"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func testDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := "postgres://" + envOr("POSTGRES_USER", "trivia") + ":" + envOr("POSTGRES_PASSWORD", "changeme") +
		"@" + envOr("POSTGRES_HOST", "localhost") + ":" + envOr("POSTGRES_PORT", "5432") +
		"/" + envOr("POSTGRES_DB", "trivia") + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

var nameSeq atomic.Int64

func uniqueName(prefix string) string {
	return fmt.Sprintf("%s %d", prefix, time.Now().UnixNano()%1_000_000_000+nameSeq.Add(1))
}

// fixture bundles a Service with its in-memory collaborators.
type fixture struct {
	db    *sql.DB
	svc   *Service
	files *memFiles
	pages *countingPages
	ai    *fakeAssistant
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testDB(t)
	f := &fixture{
		db:    db,
		files: newMemFiles(),
		pages: &countingPages{},
		ai:    &fakeAssistant{known: map[int64]bool{}},
	}
	f.svc = NewService(Deps{
		Categories:    store.NewCategoryStore(db),
		Subcategories: store.NewSubcategoryStore(db),
		Questions:     store.NewQuestionStore(db),
		Translations:  store.NewTranslationStore(db),
		Files:         f.files,
		Assistant:     f.ai,
		Locker:        &fakeLocker{},
		Pages:         f.pages,
	})
	return f
}

func (f *fixture) category(t *testing.T) *models.Category {
	t.Helper()
	c, err := f.svc.CreateCategory(context.Background(), uniqueName("Svc"))
	require.NoError(t, err)
	t.Cleanup(func() { f.db.Exec("DELETE FROM categories WHERE id = $1", c.ID) })
	return c
}

func (f *fixture) question(t *testing.T, categoryID int64, in QuestionInput) *models.Question {
	t.Helper()
	if in.QuestionText == "" {
		in.QuestionText = "Which planet is known as the Red Planet?"
	}
	if in.Answer == "" {
		in.Answer = "Mars, the Red Planet"
	}
	if in.Difficulty == "" {
		in.Difficulty = "easy"
	}
	in.CategoryID = categoryID
	q, err := f.svc.CreateQuestion(context.Background(), in)
	require.NoError(t, err)
	f.ai.mu.Lock()
	f.ai.known[q.ID] = true
	f.ai.mu.Unlock()
	return q
}

// fakeAssistant answers only for question IDs it knows, so bulk runs over a
// shared database leave foreign rows alone.
type fakeAssistant struct {
	mu       sync.Mutex
	known    map[int64]bool
	labels   map[int64]string
	failText bool
	generate []assist.GeneratedQuestion
	genErr   error
	lastGen  assist.GenerateRequest
}

func (a *fakeAssistant) GenerateQuestions(_ context.Context, req assist.GenerateRequest) ([]assist.GeneratedQuestion, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.lastGen = req
	return a.generate, a.genErr
}

func (a *fakeAssistant) ClassifySubcategories(_ context.Context, qs []assist.ClassifyInput, _ string, _ []string) ([]assist.Classification, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	var out []assist.Classification
	for _, q := range qs {
		if label, ok := a.labels[q.ID]; ok {
			out = append(out, assist.Classification{ID: q.ID, Subcategory: label})
		}
	}
	return out, nil
}

func (a *fakeAssistant) TranslateQuestion(_ context.Context, f assist.QuestionFields, _ i18n.Lang) (*assist.QuestionFields, error) {
	out := &assist.QuestionFields{
		QuestionText: "NL " + f.QuestionText,
		Answer:       "NL " + f.Answer,
	}
	if f.DidYouKnow != nil {
		d := "NL " + *f.DidYouKnow
		out.DidYouKnow = &d
	}
	return out, nil
}

func (a *fakeAssistant) TranslateText(_ context.Context, v string, _ i18n.Lang) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.failText {
		return "", assist.ErrTranslationFailed
	}
	return "NL " + v, nil
}

// ---------- categories ----------

func TestCategoryLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	c := f.category(t)
	assert.NotEmpty(t, c.Slug)
	assert.Equal(t, 1, f.pages.count())

	_, err := f.svc.CreateCategory(ctx, strings.ToUpper(c.Name))
	assert.Equal(t, KindConflict, KindOf(err), "case variant collides on slug")

	_, err = f.svc.CreateCategory(ctx, "x")
	assert.Equal(t, KindValidation, KindOf(err))

	require.NoError(t, f.svc.UpdateCategory(ctx, c.ID, c.Name+" Two"))
	got, err := store.NewCategoryStore(f.db).FindByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.Slug+"-two", got.Slug)

	assert.Equal(t, KindNotFound, KindOf(f.svc.UpdateCategory(ctx, -1, "Anything")))
	assert.Equal(t, KindNotFound, KindOf(f.svc.DeleteCategory(ctx, -1)))
}

func TestDeleteCategoryRemovesImagesAndCascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	c := f.category(t)
	other := f.category(t)
	sc, err := f.svc.CreateSubcategory(ctx, c.ID, "Planets")
	require.NoError(t, err)

	withImage := f.question(t, c.ID, QuestionInput{Upload: &Upload{Data: pngBytes(t)}})
	inSub := f.question(t, c.ID, QuestionInput{SubcategoryID: sc.ID, Upload: &Upload{Data: pngBytes(t)}})
	plain := f.question(t, c.ID, QuestionInput{})
	survivor := f.question(t, other.ID, QuestionInput{Upload: &Upload{Data: pngBytes(t)}})

	require.NoError(t, f.svc.DeleteCategory(ctx, c.ID))

	assert.False(t, f.files.has(*withImage.ImagePath))
	assert.False(t, f.files.has(*inSub.ImagePath))
	assert.True(t, f.files.has(*survivor.ImagePath), "other categories keep their images")

	qs := store.NewQuestionStore(f.db)
	for _, id := range []int64{withImage.ID, inSub.ID, plain.ID} {
		q, err := qs.FindByID(ctx, id)
		require.NoError(t, err)
		assert.Nil(t, q, "question %d should be gone", id)
	}
	gone, err := store.NewSubcategoryStore(f.db).FindByID(ctx, sc.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	kept, err := qs.FindByID(ctx, survivor.ID)
	require.NoError(t, err)
	assert.NotNil(t, kept)
}

// ---------- subcategories ----------

func TestSubcategoryLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	c := f.category(t)
	other := f.category(t)

	sc, err := f.svc.CreateSubcategory(ctx, c.ID, "Rivers")
	require.NoError(t, err)

	_, err = f.svc.CreateSubcategory(ctx, c.ID, "Rivers")
	assert.Equal(t, KindConflict, KindOf(err))

	_, err = f.svc.CreateSubcategory(ctx, other.ID, "Rivers")
	assert.NoError(t, err, "names are unique per category only")

	_, err = f.svc.CreateSubcategory(ctx, 0, "Rivers")
	assert.Equal(t, KindValidation, KindOf(err))

	_, err = f.svc.CreateSubcategory(ctx, 1<<40, "Lakes")
	assert.Equal(t, KindNotFound, KindOf(err))

	require.NoError(t, f.svc.UpdateSubcategory(ctx, sc.ID, "Great Rivers"))

	q := f.question(t, c.ID, QuestionInput{SubcategoryID: sc.ID})
	require.NoError(t, f.svc.DeleteSubcategory(ctx, sc.ID))

	got, err := store.NewQuestionStore(f.db).FindByID(ctx, q.ID)
	require.NoError(t, err)
	require.NotNil(t, got, "question survives its subcategory")
	assert.Nil(t, got.SubcategoryID)

	assert.Equal(t, KindNotFound, KindOf(f.svc.DeleteSubcategory(ctx, sc.ID)))
}

// ---------- questions ----------

func TestCreateQuestionValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.category(t)
	other := f.category(t)
	foreign, err := f.svc.CreateSubcategory(ctx, other.ID, "Elsewhere")
	require.NoError(t, err)

	valid := QuestionInput{QuestionText: "Largest ocean?", Answer: "Pacific", CategoryID: c.ID, Difficulty: "easy"}

	tests := []struct {
		name   string
		mutate func(*QuestionInput)
		want   Kind
	}{
		{"short question", func(in *QuestionInput) { in.QuestionText = "Hi" }, KindValidation},
		{"blank answer", func(in *QuestionInput) { in.Answer = "  " }, KindValidation},
		{"no category", func(in *QuestionInput) { in.CategoryID = 0 }, KindValidation},
		{"unknown category", func(in *QuestionInput) { in.CategoryID = 1 << 40 }, KindNotFound},
		{"bad difficulty", func(in *QuestionInput) { in.Difficulty = "hard" }, KindValidation},
		{"unknown subcategory", func(in *QuestionInput) { in.SubcategoryID = 1 << 40 }, KindValidation},
		{"subcategory of another category", func(in *QuestionInput) { in.SubcategoryID = foreign.ID }, KindValidation},
		{"invalid upload", func(in *QuestionInput) { in.Upload = &Upload{Data: []byte("GIF89a-not-really")} }, KindValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			_, err := f.svc.CreateQuestion(ctx, in)
			assert.Equal(t, tt.want, KindOf(err), "err = %v", err)
		})
	}

	q, err := f.svc.CreateQuestion(ctx, QuestionInput{
		QuestionText: "  Largest ocean?  ", Answer: " Pacific ", CategoryID: c.ID,
		Difficulty: "difficult", DidYouKnow: "   ",
	})
	require.NoError(t, err)
	assert.Equal(t, "Largest ocean?", q.QuestionText)
	assert.Equal(t, "Pacific", q.Answer)
	assert.Nil(t, q.DidYouKnow, "blank did-you-know is stored as null")
}

func TestUpdateQuestionImagePolicy(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.category(t)

	q := f.question(t, c.ID, QuestionInput{Upload: &Upload{Data: pngBytes(t)}})
	first := *q.ImagePath
	require.True(t, f.files.has(first))

	base := QuestionInput{QuestionText: q.QuestionText, Answer: q.Answer, CategoryID: c.ID, Difficulty: "intermediate"}

	// Nothing supplied: image untouched.
	updated, err := f.svc.UpdateQuestion(ctx, q.ID, base)
	require.NoError(t, err)
	assert.Equal(t, first, *updated.ImagePath)
	assert.True(t, f.files.has(first))

	// Upload replaces and deletes the old file.
	in := base
	in.Upload = &Upload{Data: jpegBytes(t)}
	updated, err = f.svc.UpdateQuestion(ctx, q.ID, in)
	require.NoError(t, err)
	second := *updated.ImagePath
	assert.NotEqual(t, first, second)
	assert.True(t, strings.HasSuffix(second, ".jpg"))
	assert.False(t, f.files.has(first))

	// Searched path replaces and deletes the upload.
	in = base
	in.SearchedImagePath = "/uploads/questions/from-search.jpg"
	updated, err = f.svc.UpdateQuestion(ctx, q.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "/uploads/questions/from-search.jpg", *updated.ImagePath)
	assert.False(t, f.files.has(second))

	// Removal clears the reference.
	in = base
	in.RemoveImage = true
	updated, err = f.svc.UpdateQuestion(ctx, q.ID, in)
	require.NoError(t, err)
	assert.Nil(t, updated.ImagePath)
	assert.Contains(t, f.files.deleted, "/uploads/questions/from-search.jpg")

	_, err = f.svc.UpdateQuestion(ctx, 1<<40, base)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestUpdateQuestionValidationKeepsImage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.category(t)

	q := f.question(t, c.ID, QuestionInput{Upload: &Upload{Data: pngBytes(t)}})
	_, err := f.svc.UpdateQuestion(ctx, q.ID, QuestionInput{
		QuestionText: "?", Answer: "x", CategoryID: c.ID, Difficulty: "easy", RemoveImage: true,
	})
	assert.Equal(t, KindValidation, KindOf(err))
	assert.True(t, f.files.has(*q.ImagePath), "failed validation writes nothing")
}

func TestDeleteQuestion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.category(t)

	q := f.question(t, c.ID, QuestionInput{Upload: &Upload{Data: gifBytes(t)}})
	require.NoError(t, f.svc.DeleteQuestion(ctx, q.ID))
	assert.False(t, f.files.has(*q.ImagePath))
	assert.Equal(t, KindNotFound, KindOf(f.svc.DeleteQuestion(ctx, q.ID)))
}

// ---------- translation ----------

func TestTranslateQuestionOverwrites(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.category(t)
	q := f.question(t, c.ID, QuestionInput{DidYouKnow: "Mars has two moons."})

	first, err := f.svc.TranslateQuestion(ctx, q.ID, i18n.Dutch)
	require.NoError(t, err)
	second, err := f.svc.TranslateQuestion(ctx, q.ID, i18n.Dutch)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "second translation updates the same row")

	got, err := store.NewTranslationStore(f.db).FindQuestion(ctx, q.ID, "nl")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "NL "+q.Answer, *got.Answer)
	assert.Equal(t, "NL Mars has two moons.", *got.DidYouKnow)
	assert.True(t, got.IsAutoTranslated)

	_, err = f.svc.TranslateQuestion(ctx, 1<<40, i18n.Dutch)
	assert.Equal(t, KindNotFound, KindOf(err))

	_, err = f.svc.TranslateQuestion(ctx, q.ID, i18n.English)
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestTranslateAllQuestionsSkipsTranslated(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.category(t)

	done := f.question(t, c.ID, QuestionInput{})
	todo := f.question(t, c.ID, QuestionInput{QuestionText: "Who painted the Mona Lisa?", Answer: "Leonardo da Vinci"})
	_, err := f.svc.TranslateQuestion(ctx, done.ID, i18n.Dutch)
	require.NoError(t, err)

	sum, err := f.svc.TranslateAllQuestions(ctx, i18n.Dutch)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, sum.Translated, 1)
	assert.GreaterOrEqual(t, sum.Skipped, 1)
	assert.Contains(t, sum.Message, "already had translations.")

	got, err := store.NewTranslationStore(f.db).FindQuestion(ctx, todo.ID, "nl")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "NL Leonardo da Vinci", *got.Answer)
	assert.Nil(t, got.DidYouKnow)
}

func TestTranslateTaxonomy(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.category(t)
	sc, err := f.svc.CreateSubcategory(ctx, c.ID, "Painters")
	require.NoError(t, err)

	sum, err := f.svc.TranslateTaxonomy(ctx, i18n.Dutch)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, sum.Translated, 2)
	assert.True(t, strings.HasPrefix(sum.Message, "Translated "))

	ts := store.NewTranslationStore(f.db)
	cats, err := ts.Categories(ctx, "nl")
	require.NoError(t, err)
	require.Contains(t, cats, c.ID)
	assert.Equal(t, "NL "+c.Name, *cats[c.ID].Name)

	subs, err := ts.Subcategories(ctx, "nl")
	require.NoError(t, err)
	require.Contains(t, subs, sc.ID)

	// A second run finds nothing new for these rows.
	again, err := f.svc.TranslateTaxonomy(ctx, i18n.Dutch)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, again.Skipped, 2)
}

func TestTranslateTaxonomyCountsFailures(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.category(t)
	f.ai.failText = true

	sum, err := f.svc.TranslateTaxonomy(ctx, i18n.Dutch)
	require.NoError(t, err, "per-item failures do not abort the run")
	assert.GreaterOrEqual(t, sum.Failed, 1)
	assert.Contains(t, sum.Message, "failed.")

	cats, err := store.NewTranslationStore(f.db).Categories(ctx, "nl")
	require.NoError(t, err)
	assert.NotContains(t, cats, c.ID)
}

func TestBulkRunHeldLockConflicts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	release, err := f.svc.exclusive(ctx, OpTranslateQuestions+":nl")
	require.NoError(t, err)
	defer release()

	_, err = f.svc.TranslateAllQuestions(ctx, i18n.Dutch)
	assert.Equal(t, KindConflict, KindOf(err))
}

// ---------- subcategory classification ----------

func TestAutoAssignSubcategories(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	c := f.category(t)
	empty := f.category(t)
	rivers, err := f.svc.CreateSubcategory(ctx, c.ID, "Rivers")
	require.NoError(t, err)
	_, err = f.svc.CreateSubcategory(ctx, c.ID, "Mountains")
	require.NoError(t, err)

	matched := f.question(t, c.ID, QuestionInput{QuestionText: "Longest river?", Answer: "Nile"})
	unmatched := f.question(t, c.ID, QuestionInput{QuestionText: "Deepest lake?", Answer: "Baikal"})
	noSubs := f.question(t, empty.ID, QuestionInput{})

	f.ai.labels = map[int64]string{
		matched.ID:   "  rIVERS ",
		unmatched.ID: "Lakes",
	}

	sum, err := f.svc.AutoAssignSubcategories(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, sum.Updated, 1)
	assert.GreaterOrEqual(t, sum.Skipped, 1)
	assert.Contains(t, sum.Message, "skipped (no subcategories defined for their category)")

	qs := store.NewQuestionStore(f.db)
	got, err := qs.FindByID(ctx, matched.ID)
	require.NoError(t, err)
	require.NotNil(t, got.SubcategoryID)
	assert.Equal(t, rivers.ID, *got.SubcategoryID)

	got, err = qs.FindByID(ctx, unmatched.ID)
	require.NoError(t, err)
	assert.Nil(t, got.SubcategoryID, "unknown label leaves the question unassigned")

	got, err = qs.FindByID(ctx, noSubs.ID)
	require.NoError(t, err)
	assert.Nil(t, got.SubcategoryID)
}

func TestAutoAssignDoesNotOverwrite(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.category(t)
	first, err := f.svc.CreateSubcategory(ctx, c.ID, "First")
	require.NoError(t, err)
	_, err = f.svc.CreateSubcategory(ctx, c.ID, "Second")
	require.NoError(t, err)

	q := f.question(t, c.ID, QuestionInput{SubcategoryID: first.ID})
	f.ai.labels = map[int64]string{q.ID: "Second"}

	_, err = f.svc.AutoAssignSubcategories(ctx)
	require.NoError(t, err)

	got, err := store.NewQuestionStore(f.db).FindByID(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, *got.SubcategoryID)
}

// ---------- generation ----------

func TestGenerateQuestions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.category(t)
	sc, err := f.svc.CreateSubcategory(ctx, c.ID, "Capitals")
	require.NoError(t, err)
	f.question(t, c.ID, QuestionInput{QuestionText: "Capital of Peru?", Answer: "Lima"})

	f.ai.generate = []assist.GeneratedQuestion{
		{QuestionText: "Capital of Chile?", Answer: "Santiago", Difficulty: models.DifficultyEasy, Subcategory: "capitals"},
		{QuestionText: "Tallest waterfall?", Answer: "Angel Falls", Difficulty: models.DifficultyDifficult, Subcategory: "Waterfalls"},
	}

	cat, candidates, err := f.svc.GenerateQuestions(ctx, c.ID, 2, "South America")
	require.NoError(t, err)
	assert.Equal(t, c.ID, cat.ID)
	require.Len(t, candidates, 2)
	assert.Equal(t, sc.ID, candidates[0].SubcategoryID)
	assert.Zero(t, candidates[1].SubcategoryID)

	req := f.ai.lastGen
	assert.Equal(t, c.Name, req.CategoryName)
	assert.Equal(t, []string{"Capitals"}, req.SubcategoryNames)
	assert.Equal(t, "South America", req.Topic)
	require.Len(t, req.Existing, 1)
	assert.Equal(t, "Lima", req.Existing[0].Answer)

	saved, err := f.svc.CreateGeneratedQuestion(ctx, GeneratedInput{
		QuestionText: candidates[0].QuestionText, Answer: candidates[0].Answer, CategoryID: c.ID,
		SubcategoryID: candidates[0].SubcategoryID, Difficulty: string(candidates[0].Difficulty),
	})
	require.NoError(t, err)
	assert.Nil(t, saved.ImagePath)
	assert.Equal(t, sc.ID, *saved.SubcategoryID)
}

func TestGenerateQuestionsErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.category(t)

	_, _, err := f.svc.GenerateQuestions(ctx, 0, 5, "")
	assert.Equal(t, KindValidation, KindOf(err))

	_, _, err = f.svc.GenerateQuestions(ctx, 1<<40, 5, "")
	assert.Equal(t, KindNotFound, KindOf(err))

	f.ai.genErr = &assist.FlaggedError{Categories: []string{"violence"}}
	_, _, err = f.svc.GenerateQuestions(ctx, c.ID, 5, "bad")
	assert.Equal(t, KindValidation, KindOf(err))
	assert.Contains(t, Message(err, ""), "violence")

	f.ai.genErr = errors.Join(assist.ErrGenerationFailed, errors.New("rate limited"))
	_, _, err = f.svc.GenerateQuestions(ctx, c.ID, 5, "")
	assert.Equal(t, KindUpstream, KindOf(err))
	assert.ErrorIs(t, err, assist.ErrGenerationFailed)
}
