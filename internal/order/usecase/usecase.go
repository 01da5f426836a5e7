package usecase

import (
	"context"
	"math"
	"sort"
	"strings"

	"github.com/fekuna/omnipos-picklist-service/internal/apperr"
	"github.com/fekuna/omnipos-picklist-service/internal/logger"
	"github.com/fekuna/omnipos-picklist-service/internal/model"
	"github.com/fekuna/omnipos-picklist-service/internal/order"
	"github.com/fekuna/omnipos-picklist-service/internal/order/dto"
	"github.com/fekuna/omnipos-picklist-service/internal/product"
	productdto "github.com/fekuna/omnipos-picklist-service/internal/product/dto"
	"github.com/fekuna/omnipos-picklist-service/internal/realtime"
	"go.uber.org/zap"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// CategoryReader is the slice of the category repository the order views need.
type CategoryReader interface {
	FindByScope(ctx context.Context, storeID string) ([]model.Category, error)
}

// maxQty bounds quantities and deltas to what the order_items column holds.
const maxQty = math.MaxInt32

type orderUseCase struct {
	repo       order.Repository
	products   product.UseCase
	categories CategoryReader
	notifier   realtime.Notifier
	logger     logger.ZapLogger
}

func NewOrderUseCase(
	repo order.Repository,
	products product.UseCase,
	categories CategoryReader,
	notifier realtime.Notifier,
	log logger.ZapLogger,
) order.UseCase {
	if notifier == nil {
		notifier = realtime.NopNotifier{}
	}
	return &orderUseCase{
		repo:       repo,
		products:   products,
		categories: categories,
		notifier:   notifier,
		logger:     log,
	}
}

func (uc *orderUseCase) Increment(ctx context.Context, input *dto.IncrementInput) (int, error) {
	ean, err := validateKey(input.StoreID, input.EAN, input.CategoryID)
	if err != nil {
		return 0, err
	}
	if err := checkDelta(input.Delta); err != nil {
		return 0, err
	}

	qty, err := uc.repo.Increment(ctx, input.StoreID, ean, input.CategoryID, input.Delta)
	if err != nil {
		return 0, err
	}

	uc.logger.Debug("order item incremented",
		zap.String("store_id", input.StoreID),
		zap.String("ean", ean),
		zap.Int("delta", input.Delta),
		zap.Int("qty", qty),
	)
	uc.notify(ctx, input.StoreID, ean, qtyAction(qty))
	return qty, nil
}

func (uc *orderUseCase) SetQty(ctx context.Context, input *dto.SetQtyInput) (int, error) {
	ean, err := validateKey(input.StoreID, input.EAN, input.CategoryID)
	if err != nil {
		return 0, err
	}
	if input.Qty < 0 || input.Qty > maxQty {
		return 0, apperr.Invalid("qty must be between 0 and %d, got %d", maxQty, input.Qty)
	}

	qty, err := uc.repo.SetQty(ctx, input.StoreID, ean, input.CategoryID, input.Qty)
	if err != nil {
		return 0, err
	}

	uc.notify(ctx, input.StoreID, ean, qtyAction(qty))
	return qty, nil
}

func (uc *orderUseCase) SetPicked(ctx context.Context, input *dto.SetPickedInput) (int, error) {
	if input.StoreID == "" {
		return 0, apperr.Invalid("store id is required")
	}
	ean, ok := model.NormalizeEAN(input.EAN)
	if !ok {
		return 0, apperr.Invalid("invalid ean %q", input.EAN)
	}
	pickedBy := strings.TrimSpace(input.PickedBy)
	if input.IsPicked && pickedBy == "" {
		return 0, apperr.Invalid("picked_by is required when picking")
	}

	n, err := uc.repo.SetPicked(ctx, input.StoreID, ean, input.IsPicked, pickedBy)
	if err != nil {
		return 0, err
	}

	if n > 0 {
		uc.notify(ctx, input.StoreID, ean, realtime.ActionPicked)
	}
	return n, nil
}

func (uc *orderUseCase) ClearPicked(ctx context.Context, storeID string) (int, error) {
	if storeID == "" {
		return 0, apperr.Invalid("store id is required")
	}

	n, err := uc.repo.ClearPicked(ctx, storeID)
	if err != nil {
		return 0, err
	}

	uc.logger.Info("cleared picked order items", zap.String("store_id", storeID), zap.Int("count", n))
	if n > 0 {
		uc.notify(ctx, storeID, "", realtime.ActionClear)
	}
	return n, nil
}

func (uc *orderUseCase) MoveItem(ctx context.Context, input *dto.MoveItemInput) (*model.OrderItem, error) {
	ean, err := validateKey(input.StoreID, input.EAN, input.FromCategoryID)
	if err != nil {
		return nil, err
	}
	if input.ToCategoryID == "" {
		return nil, apperr.Invalid("target category id is required")
	}

	if input.FromCategoryID == input.ToCategoryID {
		items, err := uc.repo.FindAll(ctx, &dto.OrderFilters{StoreID: input.StoreID, EAN: ean})
		if err != nil {
			return nil, err
		}
		for i := range items {
			if items[i].CategoryID == input.FromCategoryID {
				return &items[i], nil
			}
		}
		return nil, apperr.NotFound("order item %s not found in category %s", ean, input.FromCategoryID)
	}

	item, err := uc.repo.Move(ctx, input.StoreID, ean, input.FromCategoryID, input.ToCategoryID)
	if err != nil {
		return nil, err
	}

	// The move may have changed the product's default category.
	if err := uc.products.RefreshProduct(ctx, ean); err != nil {
		uc.logger.Warn("failed to refresh moved product", zap.String("ean", ean), zap.Error(err))
	}

	uc.notify(ctx, input.StoreID, ean, realtime.ActionMove)
	return item, nil
}

func (uc *orderUseCase) Scan(ctx context.Context, input *dto.ScanInput) (*dto.ScanResult, error) {
	if input.StoreID == "" {
		return nil, apperr.Invalid("store id is required")
	}
	ean, ok := model.NormalizeEAN(input.EAN)
	if !ok {
		return nil, apperr.Invalid("invalid ean %q", input.EAN)
	}
	delta := input.Delta
	if delta == 0 {
		delta = 1
	}
	if err := checkDelta(delta); err != nil {
		return nil, err
	}

	cats, err := uc.categories.FindByScope(ctx, input.StoreID)
	if err != nil {
		return nil, err
	}
	global := make(map[string]bool, len(cats))
	for i := range cats {
		global[cats[i].ID] = cats[i].IsGlobal()
	}

	p, err := uc.products.EnsureProduct(ctx, ean)
	if err != nil {
		return nil, err
	}

	created := false
	if p == nil {
		if strings.TrimSpace(input.Name) == "" {
			return nil, apperr.NotFound("product %s not found", ean)
		}
		// Store categories stay out of the shared catalog.
		var defaultCategory *string
		if global[input.CategoryID] {
			defaultCategory = &input.CategoryID
		}
		p, err = uc.products.CreateProduct(ctx, &productdto.CreateProductInput{
			EAN:               ean,
			Name:              input.Name,
			Brand:             input.Brand,
			Weight:            input.Weight,
			ImageURL:          input.ImageURL,
			DefaultCategoryID: defaultCategory,
		})
		switch {
		case apperr.IsKind(err, apperr.KindConflict):
			// Someone else created it between our lookup and insert.
			p, err = uc.products.EnsureProduct(ctx, ean)
			if err == nil && p == nil {
				err = apperr.New(apperr.KindTransient, "product %s vanished after conflict", ean)
			}
		case err == nil:
			created = true
		}
		if err != nil {
			return nil, err
		}
	}

	defaultID, err := uc.defaultCategory(ctx, input.StoreID, p, global)
	if err != nil {
		return nil, err
	}
	categoryID := input.CategoryID
	if categoryID == "" {
		categoryID = defaultID
	}
	if categoryID == "" {
		return nil, apperr.Invalid("product %s has no default category, choose one", ean)
	}

	qty, err := uc.Increment(ctx, &dto.IncrementInput{
		StoreID:    input.StoreID,
		EAN:        ean,
		CategoryID: categoryID,
		Delta:      delta,
	})
	if err != nil {
		return nil, err
	}

	if defaultID == "" {
		if err := uc.repo.RememberCategory(ctx, input.StoreID, ean, categoryID); err != nil {
			uc.logger.Warn("failed to remember category",
				zap.String("store_id", input.StoreID),
				zap.String("ean", ean),
				zap.Error(err),
			)
		}
	}

	return &dto.ScanResult{
		Product:        p,
		CategoryID:     categoryID,
		Qty:            qty,
		ProductCreated: created,
	}, nil
}

// defaultCategory resolves where a scan without a category lands: the store's
// own choice for the product first, then the catalog default. Categories the
// store cannot see are skipped.
func (uc *orderUseCase) defaultCategory(ctx context.Context, storeID string, p *model.Product, inScope map[string]bool) (string, error) {
	pref, err := uc.repo.PreferredCategory(ctx, storeID, p.EAN)
	if err != nil {
		return "", err
	}
	if _, ok := inScope[pref]; ok {
		return pref, nil
	}
	if p.DefaultCategoryID != nil {
		if _, ok := inScope[*p.DefaultCategoryID]; ok {
			return *p.DefaultCategoryID, nil
		}
	}
	return "", nil
}

func (uc *orderUseCase) ListOrder(ctx context.Context, storeID string) ([]model.OrderRow, error) {
	if storeID == "" {
		return nil, apperr.Invalid("store id is required")
	}

	items, err := uc.repo.FindAll(ctx, &dto.OrderFilters{StoreID: storeID})
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return []model.OrderRow{}, nil
	}

	eans := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		if _, ok := seen[it.EAN]; ok {
			continue
		}
		seen[it.EAN] = struct{}{}
		eans = append(eans, it.EAN)
	}

	products, err := uc.products.GetProducts(ctx, eans)
	if err != nil {
		return nil, err
	}
	productByEAN := make(map[string]*model.Product, len(products))
	for i := range products {
		productByEAN[products[i].EAN] = &products[i]
	}

	cats, err := uc.categories.FindByScope(ctx, storeID)
	if err != nil {
		return nil, err
	}
	catByID := make(map[string]*model.Category, len(cats))
	for i := range cats {
		catByID[cats[i].ID] = &cats[i]
	}

	rows := make([]model.OrderRow, 0, len(items))
	for _, it := range items {
		if it.Qty <= 0 {
			continue
		}
		rows = append(rows, model.OrderRow{
			OrderItem: it,
			Product:   productByEAN[it.EAN],
			Category:  catByID[it.CategoryID],
		})
	}
	return rows, nil
}

func (uc *orderUseCase) PickList(ctx context.Context, storeID string) (*model.PickList, error) {
	rows, err := uc.ListOrder(ctx, storeID)
	if err != nil {
		return nil, err
	}

	var todo, picked []model.OrderRow
	for _, r := range rows {
		if r.IsPicked {
			picked = append(picked, r)
		} else {
			todo = append(todo, r)
		}
	}

	return &model.PickList{
		Todo:   groupByCategory(todo),
		Picked: groupByCategory(picked),
	}, nil
}

// groupByCategory orders groups the way categories are listed, global before
// store categories and then by sort index, and rows by product name using
// Swedish collation. Rows whose category is unknown go last.
func groupByCategory(rows []model.OrderRow) []model.PickGroup {
	groups := []model.PickGroup{}
	index := map[string]int{}
	for _, r := range rows {
		i, ok := index[r.CategoryID]
		if !ok {
			i = len(groups)
			index[r.CategoryID] = i
			groups = append(groups, model.PickGroup{Category: r.Category})
		}
		groups[i].Rows = append(groups[i].Rows, r)
	}

	sort.SliceStable(groups, func(a, b int) bool {
		ca, cb := groups[a].Category, groups[b].Category
		switch {
		case ca == nil:
			return false
		case cb == nil:
			return true
		case ca.IsGlobal() != cb.IsGlobal():
			return ca.IsGlobal()
		case ca.SortIndex != cb.SortIndex:
			return ca.SortIndex < cb.SortIndex
		default:
			return ca.Name < cb.Name
		}
	})

	col := collate.New(language.Swedish)
	for _, g := range groups {
		sort.SliceStable(g.Rows, func(a, b int) bool {
			return col.CompareString(productName(g.Rows[a]), productName(g.Rows[b])) < 0
		})
	}
	return groups
}

func productName(r model.OrderRow) string {
	if r.Product == nil {
		return ""
	}
	return r.Product.Name
}

func validateKey(storeID, ean, categoryID string) (string, error) {
	if storeID == "" {
		return "", apperr.Invalid("store id is required")
	}
	if categoryID == "" {
		return "", apperr.Invalid("category id is required")
	}
	normalized, ok := model.NormalizeEAN(ean)
	if !ok {
		return "", apperr.Invalid("invalid ean %q", ean)
	}
	return normalized, nil
}

func checkDelta(delta int) error {
	if delta > maxQty || delta < -maxQty {
		return apperr.Invalid("delta %d out of range", delta)
	}
	return nil
}

func qtyAction(qty int) realtime.Action {
	if qty == 0 {
		return realtime.ActionDelete
	}
	return realtime.ActionUpsert
}

func (uc *orderUseCase) notify(ctx context.Context, storeID, ean string, action realtime.Action) {
	err := uc.notifier.Notify(ctx, realtime.Change{
		Table:   realtime.TableOrderItems,
		StoreID: storeID,
		EAN:     ean,
		Action:  action,
	})
	if err != nil {
		uc.logger.Warn("failed to publish order change",
			zap.String("store_id", storeID),
			zap.String("ean", ean),
			zap.Error(err),
		)
	}
}
