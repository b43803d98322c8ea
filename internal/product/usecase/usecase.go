package usecase

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/guineapos/checkout-service/internal/inventory"
	"github.com/guineapos/checkout-service/internal/model"
	"github.com/guineapos/checkout-service/internal/product"
	"github.com/guineapos/checkout-service/internal/product/dto"
	"github.com/guineapos/checkout-service/pkg/cache"
	"github.com/guineapos/checkout-service/pkg/logger"
	"github.com/guineapos/checkout-service/pkg/search"
	"go.uber.org/zap"
)

type productUseCase struct {
	repo      product.Repository
	stockRepo inventory.Repository
	cache     *cache.RedisClient
	es        *search.Client
	logger    logger.ZapLogger
}

func NewProductUseCase(repo product.Repository, stockRepo inventory.Repository, cache *cache.RedisClient, es *search.Client, log logger.ZapLogger) product.UseCase {
	return &productUseCase{
		repo:      repo,
		stockRepo: stockRepo,
		cache:     cache,
		es:        es,
		logger:    log,
	}
}

func (uc *productUseCase) CreateProduct(ctx context.Context, input *dto.CreateProductInput) (*model.Product, error) {
	unique, err := uc.repo.IsSKUUnique(ctx, input.MerchantID, input.SKU, "")
	if err != nil {
		return nil, err
	}
	if !unique {
		return nil, errors.New("SKU already exists")
	}

	if input.Barcode != "" {
		unique, err := uc.repo.IsBarcodeUnique(ctx, input.MerchantID, input.Barcode, "")
		if err != nil {
			return nil, err
		}
		if !unique {
			return nil, errors.New("Barcode already exists")
		}
	}

	id := uuid.New().String()
	now := time.Now()

	categoryID := &input.CategoryID
	if input.CategoryID == "" {
		categoryID = nil
	}
	barcode := &input.Barcode
	if input.Barcode == "" {
		barcode = nil
	}
	purchasePrice := input.PurchasePrice

	p := &model.Product{
		BaseModel:             model.BaseModel{ID: id, CreatedAt: now, UpdatedAt: now},
		MerchantID:            input.MerchantID,
		CategoryID:            categoryID,
		SKU:                   input.SKU,
		Barcode:               barcode,
		Name:                  input.Name,
		Description:           &input.Description,
		SellingPrice:          input.SellingPrice,
		WholesaleSellingPrice: input.WholesaleSellingPrice,
		PurchasePrice:         &purchasePrice,
		IsActive:              true,
	}

	err = uc.repo.Create(ctx, p)
	if err != nil {
		return nil, err
	}

	// Invalidate Cache
	go uc.invalidateProductCache(context.Background(), input.MerchantID)

	// Sync to Elastic
	go uc.syncToElastic(context.Background(), p)

	return p, nil
}

func (uc *productUseCase) syncToElastic(ctx context.Context, p *model.Product) {
	if uc.es == nil {
		return
	}
	const indexName = "products"

	mapping := `{
		"mappings": {
			"properties": {
				"merchant_id": { "type": "keyword" },
				"name": { "type": "text" },
				"description": { "type": "text" },
				"sku": { "type": "keyword" },
				"barcode": { "type": "keyword" },
				"selling_price": { "type": "double" },
				"wholesale_selling_price": { "type": "double" },
				"created_at": { "type": "date" }
			}
		}
	}`
	_ = uc.es.CreateIndex(ctx, indexName, mapping)

	if err := uc.es.Index(ctx, indexName, p.ID, p); err != nil {
		uc.logger.Error("failed to index product", zap.Error(err))
	}
}

// GetProduct returns the product with stock resolved for the point of sale.
// The cart's stock guard reads CurrentStock from here, so this is always the
// latest persisted figure, never a value frozen when the line was added.
func (uc *productUseCase) GetProduct(ctx context.Context, merchantID, id string, pointOfSaleID *string) (*model.Product, error) {
	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil || p.MerchantID != merchantID {
		return nil, nil
	}

	level, err := uc.stockRepo.GetLevel(ctx, merchantID, id, pointOfSaleID)
	if err != nil {
		return nil, err
	}
	if level != nil {
		p.CurrentStock = level.Quantity
		p.ReorderLevel = level.ReorderLevel
	}
	return p, nil
}

func (uc *productUseCase) ListProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error) {
	// 1. Generate Cache Key
	cacheKey, err := uc.generateCacheKey(filters)
	if err == nil && uc.cache != nil {
		// 2. Check Cache
		val, err := uc.cache.Client.Get(ctx, cacheKey).Result()
		if err == nil {
			var result struct {
				Products []model.Product
				Count    int
			}
			if err := json.Unmarshal([]byte(val), &result); err == nil {
				// Cache Hit
				return result.Products, result.Count, nil
			}
		}
	}

	products, count, err := uc.findProducts(ctx, filters)
	if err != nil {
		return nil, 0, err
	}

	// Resolve stock for the page against the requesting point of sale.
	if err := uc.fillStock(ctx, filters.MerchantID, filters.PointOfSaleID, products); err != nil {
		return nil, 0, err
	}

	// Set Cache
	if cacheKey != "" && uc.cache != nil {
		cacheData := struct {
			Products []model.Product
			Count    int
		}{
			Products: products,
			Count:    count,
		}
		if data, err := json.Marshal(cacheData); err == nil {
			uc.cache.Client.Set(ctx, cacheKey, data, 5*time.Minute)
		}
	}

	return products, count, nil
}

// findProducts tries elasticsearch for free-text queries and falls back to
// the DB filter builder.
func (uc *productUseCase) findProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error) {
	if filters.SearchQuery != "" && uc.es != nil {
		q := map[string]interface{}{
			"query": map[string]interface{}{
				"bool": map[string]interface{}{
					"must": []map[string]interface{}{
						{
							"query_string": map[string]interface{}{
								"query":  fmt.Sprintf("*%s*", filters.SearchQuery),
								"fields": []string{"name^3", "sku", "barcode", "description"},
							},
						},
						{
							"term": map[string]interface{}{
								"merchant_id": filters.MerchantID,
							},
						},
					},
				},
			},
			"from": (filters.Page - 1) * filters.PageSize,
		}
		if filters.PageSize > 0 {
			q["size"] = filters.PageSize
		}

		res, err := uc.es.Search(ctx, "products", q)
		if err == nil {
			var esProducts []model.Product
			for _, hit := range res.Hits.Hits {
				var p model.Product
				if err := json.Unmarshal(hit.Source, &p); err == nil {
					esProducts = append(esProducts, p)
				}
			}
			return esProducts, res.Hits.Total.Value, nil
		}
		// If ES fails, fall through to DB
		uc.logger.Error("ES search failed, falling back to DB", zap.Error(err))
	}

	return uc.repo.FindAll(ctx, filters)
}

func (uc *productUseCase) fillStock(ctx context.Context, merchantID string, pointOfSaleID *string, products []model.Product) error {
	if len(products) == 0 {
		return nil
	}

	ids := make([]string, len(products))
	for i := range products {
		ids[i] = products[i].ID
	}

	levels, err := uc.stockRepo.BatchGetLevels(ctx, merchantID, ids, pointOfSaleID)
	if err != nil {
		return err
	}

	byProduct := make(map[string]model.StockLevel, len(levels))
	for _, l := range levels {
		byProduct[l.ProductID] = l
	}
	for i := range products {
		if l, ok := byProduct[products[i].ID]; ok {
			products[i].CurrentStock = l.Quantity
			products[i].ReorderLevel = l.ReorderLevel
		}
	}
	return nil
}

func (uc *productUseCase) generateCacheKey(filters *dto.ProductFilters) (string, error) {
	data, err := json.Marshal(filters)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("products:list:%s:%x", filters.MerchantID, md5.Sum(data)), nil
}

func (uc *productUseCase) invalidateProductCache(ctx context.Context, merchantID string) {
	if uc.cache == nil {
		return
	}
	// Invalidate all list caches for this merchant
	pattern := fmt.Sprintf("products:list:%s:*", merchantID)
	keys, err := uc.cache.Client.Keys(ctx, pattern).Result()
	if err == nil && len(keys) > 0 {
		uc.cache.Client.Del(ctx, keys...)
	}
}

func (uc *productUseCase) UpdateProduct(ctx context.Context, input *dto.UpdateProductInput) (*model.Product, error) {
	p, err := uc.repo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if p == nil || p.MerchantID != input.MerchantID {
		return nil, errors.New("product not found")
	}

	if p.SKU != input.SKU {
		unique, err := uc.repo.IsSKUUnique(ctx, input.MerchantID, input.SKU, p.ID)
		if err != nil {
			return nil, err
		}
		if !unique {
			return nil, errors.New("SKU already exists")
		}
	}

	// Update fields
	p.SKU = input.SKU
	p.Name = input.Name
	p.Description = &input.Description
	p.SellingPrice = input.SellingPrice
	p.WholesaleSellingPrice = input.WholesaleSellingPrice
	purchasePrice := input.PurchasePrice
	p.PurchasePrice = &purchasePrice
	p.IsActive = input.IsActive
	if input.CategoryID != "" {
		catID := input.CategoryID
		p.CategoryID = &catID
	} else {
		p.CategoryID = nil
	}
	if input.Barcode != "" {
		bc := input.Barcode
		p.Barcode = &bc
	} else {
		p.Barcode = nil
	}

	p.UpdatedAt = time.Now()
	err = uc.repo.Update(ctx, p)
	if err != nil {
		return nil, err
	}

	// Invalidate Cache
	go uc.invalidateProductCache(context.Background(), p.MerchantID)
	// Sync ES
	go uc.syncToElastic(context.Background(), p)

	return p, nil
}

func (uc *productUseCase) DeleteProduct(ctx context.Context, merchantID, id string) error {
	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if p == nil || p.MerchantID != merchantID {
		return nil // Already deleted
	}

	err = uc.repo.Delete(ctx, id)
	if err != nil {
		return err
	}

	// Invalidate Cache
	go uc.invalidateProductCache(context.Background(), p.MerchantID)
	// Remove from ES
	if uc.es != nil {
		go func() {
			err := uc.es.Delete(context.Background(), "products", id)
			if err != nil {
				uc.logger.Error("failed to delete product from ES", zap.Error(err))
			}
		}()
	}

	return nil
}
