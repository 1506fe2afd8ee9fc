package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/crucial707/catalog/internal/models"
	"github.com/crucial707/catalog/internal/store"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_AddThenGet(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory[models.Product]()

	in := models.Product{Name: "Widget", Price: 9.99, Stock: 5}
	got, err := s.Add(ctx, in)
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, got.ID)

	stored, err := s.Get(ctx, got.ID)
	require.NoError(t, err)
	assert.Equal(t, in.WithID(got.ID), stored)
}

func TestMemory_AddKeepsSuppliedID(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory[models.Question]()
	id := uuid.New()

	got, err := s.Add(ctx, models.Question{ID: id, Text: "why?"})
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)

	_, err = s.Add(ctx, models.Question{ID: id, Text: "again?"})
	assert.ErrorIs(t, err, store.ErrDuplicate)
}

func TestMemory_MissingIDSignalsNotFound(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory[models.Product]()
	id := uuid.New()

	_, err := s.Get(ctx, id)
	assert.ErrorIs(t, err, store.ErrNotFound)

	err = s.Update(ctx, models.Product{ID: id, Name: "ghost", Price: 1})
	assert.ErrorIs(t, err, store.ErrNotFound)

	err = s.Delete(ctx, id)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestMemory_DeleteTwice(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory[models.Product]()

	p, err := s.Add(ctx, models.Product{Name: "Widget", Price: 9.99, Stock: 5})
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, p.ID))
	assert.ErrorIs(t, s.Delete(ctx, p.ID), store.ErrNotFound)

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestMemory_UniqueKey(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory[models.Employee]()

	a, err := s.Add(ctx, models.Employee{Name: "Shyam", Email: "shyam@example.com"})
	require.NoError(t, err)

	_, err = s.Add(ctx, models.Employee{Name: "Other", Email: "SHYAM@example.com"})
	assert.ErrorIs(t, err, store.ErrDuplicate)

	b, err := s.Add(ctx, models.Employee{Name: "John", Email: "john@example.com"})
	require.NoError(t, err)

	// Taking another record's key is rejected and leaves both records intact.
	err = s.Update(ctx, models.Employee{ID: b.ID, Name: "John", Email: "shyam@example.com"})
	assert.ErrorIs(t, err, store.ErrDuplicate)

	// Releasing a key on update frees it for new records.
	require.NoError(t, s.Update(ctx, models.Employee{ID: a.ID, Name: "Shyam", Email: "shyam.s@example.com"}))
	_, err = s.Add(ctx, models.Employee{Name: "New", Email: "shyam@example.com"})
	assert.NoError(t, err)

	// Deleting releases the key too.
	require.NoError(t, s.Delete(ctx, b.ID))
	_, err = s.Add(ctx, models.Employee{Name: "John again", Email: "john@example.com"})
	assert.NoError(t, err)
}

func TestMemory_ListFilterAndOrder(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory[models.Book]()

	titles := []string{"Let us C#", "Let us Python", "Clean Code", "Design Patterns"}
	authors := []string{"Vinod", "Vinod", "Robert C. Martin", "Erich Gamma"}
	for i := range titles {
		_, err := s.Add(ctx, models.Book{ISBN: titles[i], Title: titles[i], Author: authors[i], Price: 10})
		require.NoError(t, err)
	}

	all, err := s.List(ctx, store.Filter{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	for i, b := range all {
		assert.Equal(t, titles[i], b.Title)
	}

	byAuthor, err := s.List(ctx, store.Filter{Fields: map[string]string{"author": "vinod"}})
	require.NoError(t, err)
	require.Len(t, byAuthor, 2)
	assert.Equal(t, "Let us C#", byAuthor[0].Title)

	search, err := s.List(ctx, store.Filter{Search: "code"})
	require.NoError(t, err)
	require.Len(t, search, 1)
	assert.Equal(t, "Clean Code", search[0].Title)

	page, err := s.List(ctx, store.Filter{Limit: 2, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "Let us Python", page[0].Title)
	assert.Equal(t, "Clean Code", page[1].Title)

	none, err := s.List(ctx, store.Filter{Search: "nothing matches"})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestWithValidation_RejectsBeforePersisting(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory[models.Product]()
	s := store.WithValidation[models.Product](mem)

	_, err := s.Add(ctx, models.Product{Name: "", Price: 0, Stock: -1})
	var verr *models.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "required", verr.Fields["name"])
	assert.Contains(t, verr.Fields, "price")
	assert.Contains(t, verr.Fields, "stock")

	n, err := mem.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	p, err := s.Add(ctx, models.Product{Name: "Widget", Price: 9.99, Stock: 5})
	require.NoError(t, err)

	err = s.Update(ctx, p.WithID(p.ID))
	require.NoError(t, err)

	bad := p
	bad.Name = ""
	err = s.Update(ctx, bad)
	require.True(t, errors.As(err, &verr))

	stored, err := s.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Widget", stored.Name)
}

func TestWithValidation_RejectsBlankText(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory[models.Book]()
	s := store.WithValidation[models.Book](mem)

	// Blank ISBNs would otherwise bypass the uniqueness index.
	for i := 0; i < 2; i++ {
		_, err := s.Add(ctx, models.Book{ISBN: " ", Title: "\t", Author: " "})
		var verr *models.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, "required", verr.Fields["isbn"])
		assert.Equal(t, "required", verr.Fields["title"])
		assert.Equal(t, "required", verr.Fields["author"])
	}

	products := store.WithValidation[models.Product](store.NewMemory[models.Product]())
	_, err := products.Add(ctx, models.Product{Name: "   ", Price: 1})
	var verr *models.ValidationError
	require.True(t, errors.As(err, &verr))

	n, err := mem.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestWithValidation_RejectsUnknownFilterField(t *testing.T) {
	s := store.WithValidation[models.Book](store.NewMemory[models.Book]())

	_, err := s.List(context.Background(), store.Filter{Fields: map[string]string{"colour": "red"}})
	var verr *models.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "unknown filter field", verr.Fields["colour"])
}

func TestMemoryUsers_UniqueUsername(t *testing.T) {
	ctx := context.Background()
	u := store.NewMemoryUsers()

	first, err := u.Create(ctx, "alice", "hash-1")
	require.NoError(t, err)

	_, err = u.Create(ctx, "alice", "hash-2")
	assert.ErrorIs(t, err, store.ErrDuplicate)

	got, err := u.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)
	assert.Equal(t, "hash-1", got.PasswordHash)

	_, err = u.GetByUsername(ctx, "bob")
	assert.ErrorIs(t, err, store.ErrNotFound)
}
