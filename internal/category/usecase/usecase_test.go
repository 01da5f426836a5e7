package usecase

import (
	"context"
	"sort"
	"sync"
	"testing"

	"github.com/fekuna/omnipos-picklist-service/internal/apperr"
	"github.com/fekuna/omnipos-picklist-service/internal/category/dto"
	"github.com/fekuna/omnipos-picklist-service/internal/logger"
	"github.com/fekuna/omnipos-picklist-service/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	mu   sync.Mutex
	cats map[string]*model.Category
	used map[string]bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{cats: map[string]*model.Category{}, used: map[string]bool{}}
}

func scopeOf(c *model.Category) string {
	if c.StoreID == nil {
		return ""
	}
	return *c.StoreID
}

func (r *fakeRepo) inScope(storeID string) []*model.Category {
	out := []*model.Category{}
	for _, c := range r.cats {
		if scopeOf(c) == storeID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SortIndex < out[j].SortIndex })
	return out
}

func (r *fakeRepo) Create(_ context.Context, c *model.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	next := 0
	for _, other := range r.inScope(scopeOf(c)) {
		if other.SortIndex >= next {
			next = other.SortIndex + 1
		}
	}
	c.SortIndex = next
	cp := *c
	r.cats[c.ID] = &cp
	return nil
}

func (r *fakeRepo) FindByID(_ context.Context, id string) (*model.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.cats[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *fakeRepo) FindByScope(_ context.Context, storeID string) ([]model.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []model.Category{}
	for _, c := range r.inScope("") {
		out = append(out, *c)
	}
	if storeID != "" {
		for _, c := range r.inScope(storeID) {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeRepo) get(scope dto.Scope, id string) (*model.Category, error) {
	c, ok := r.cats[id]
	if !ok || scopeOf(c) != scope.StoreID {
		return nil, apperr.NotFound("category %s not found", id)
	}
	return c, nil
}

func (r *fakeRepo) Rename(_ context.Context, scope dto.Scope, id, name string) (*model.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, err := r.get(scope, id)
	if err != nil {
		return nil, err
	}
	c.Name = name
	cp := *c
	return &cp, nil
}

func (r *fakeRepo) Delete(_ context.Context, scope dto.Scope, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, err := r.get(scope, id); err != nil {
		return err
	}
	if r.used[id] {
		return apperr.Conflict("category is used by order items")
	}
	delete(r.cats, id)
	return nil
}

func (r *fakeRepo) Swap(_ context.Context, scope dto.Scope, id string, dir dto.Direction) ([]model.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, err := r.get(scope, id); err != nil {
		return nil, err
	}
	list := r.inScope(scope.StoreID)
	for i, c := range list {
		if c.ID != id {
			continue
		}
		j := i - 1
		if dir == dto.DirectionDown {
			j = i + 1
		}
		if j >= 0 && j < len(list) {
			list[i].SortIndex, list[j].SortIndex = list[j].SortIndex, list[i].SortIndex
		}
		break
	}
	out := []model.Category{}
	for _, c := range r.inScope(scope.StoreID) {
		out = append(out, *c)
	}
	return out, nil
}

func names(cats []model.Category) []string {
	out := make([]string, len(cats))
	for i, c := range cats {
		out[i] = c.Name
	}
	return out
}

func TestCreateAppendsWithinScope(t *testing.T) {
	uc := NewCategoryUseCase(newFakeRepo(), nil, logger.NewNop())
	ctx := context.Background()
	store := dto.Scope{StoreID: "s1"}

	a, err := uc.CreateCategory(ctx, &dto.CreateCategoryInput{Scope: store, Name: "Kolonial"})
	require.NoError(t, err)
	b, err := uc.CreateCategory(ctx, &dto.CreateCategoryInput{Scope: store, Name: "Frys"})
	require.NoError(t, err)
	g, err := uc.CreateCategory(ctx, &dto.CreateCategoryInput{Name: "Övrigt"})
	require.NoError(t, err)

	assert.Equal(t, 0, a.SortIndex)
	assert.Equal(t, 1, b.SortIndex)
	assert.Equal(t, 0, g.SortIndex)
	assert.True(t, g.IsGlobal())

	cats, err := uc.ListCategories(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Övrigt", "Kolonial", "Frys"}, names(cats))

	cats, err = uc.ListCategories(ctx, "s2")
	require.NoError(t, err)
	assert.Equal(t, []string{"Övrigt"}, names(cats))
}

func TestCreateRequiresName(t *testing.T) {
	uc := NewCategoryUseCase(newFakeRepo(), nil, logger.NewNop())
	_, err := uc.CreateCategory(context.Background(), &dto.CreateCategoryInput{Name: " "})
	assert.True(t, apperr.IsKind(err, apperr.KindInvalid))
}

func TestMoveUpAndDown(t *testing.T) {
	uc := NewCategoryUseCase(newFakeRepo(), nil, logger.NewNop())
	ctx := context.Background()
	store := dto.Scope{StoreID: "s1"}

	var ids []string
	for _, n := range []string{"A", "B", "C"} {
		c, err := uc.CreateCategory(ctx, &dto.CreateCategoryInput{Scope: store, Name: n})
		require.NoError(t, err)
		ids = append(ids, c.ID)
	}

	cats, err := uc.MoveCategory(ctx, &dto.MoveCategoryInput{Scope: store, ID: ids[2], Direction: dto.DirectionUp})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "C", "B"}, names(cats))

	cats, err = uc.MoveCategory(ctx, &dto.MoveCategoryInput{Scope: store, ID: ids[0], Direction: dto.DirectionUp})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "C", "B"}, names(cats))

	cats, err = uc.MoveCategory(ctx, &dto.MoveCategoryInput{Scope: store, ID: ids[0], Direction: dto.DirectionDown})
	require.NoError(t, err)
	assert.Equal(t, []string{"C", "A", "B"}, names(cats))

	_, err = uc.MoveCategory(ctx, &dto.MoveCategoryInput{Scope: store, ID: ids[0], Direction: "sideways"})
	assert.True(t, apperr.IsKind(err, apperr.KindInvalid))
}

func TestDeleteBlockedWhileUsed(t *testing.T) {
	repo := newFakeRepo()
	uc := NewCategoryUseCase(repo, nil, logger.NewNop())
	ctx := context.Background()
	store := dto.Scope{StoreID: "s1"}

	c, err := uc.CreateCategory(ctx, &dto.CreateCategoryInput{Scope: store, Name: "Kolonial"})
	require.NoError(t, err)
	repo.used[c.ID] = true

	err = uc.DeleteCategory(ctx, store, c.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))

	repo.used[c.ID] = false
	require.NoError(t, uc.DeleteCategory(ctx, store, c.ID))

	_, err = uc.GetCategory(ctx, c.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestStoreCannotTouchOtherScope(t *testing.T) {
	uc := NewCategoryUseCase(newFakeRepo(), nil, logger.NewNop())
	ctx := context.Background()

	g, err := uc.CreateCategory(ctx, &dto.CreateCategoryInput{Name: "Global"})
	require.NoError(t, err)

	_, err = uc.RenameCategory(ctx, &dto.RenameCategoryInput{Scope: dto.Scope{StoreID: "s1"}, ID: g.ID, Name: "Mine"})
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))

	renamed, err := uc.RenameCategory(ctx, &dto.RenameCategoryInput{ID: g.ID, Name: "Allmänt"})
	require.NoError(t, err)
	assert.Equal(t, "Allmänt", renamed.Name)
}
