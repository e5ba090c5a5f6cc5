package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hengyuan-pack/giftbox-site/internal/app/model"
	"github.com/hengyuan-pack/giftbox-site/internal/app/service"
	"github.com/hengyuan-pack/giftbox-site/internal/cache"
	"github.com/hengyuan-pack/giftbox-site/internal/middleware"
)

type ProductController struct {
	productService service.ProductService
	revalidator    *cache.Revalidator
}

func NewProductController(productService service.ProductService, revalidator *cache.Revalidator) *ProductController {
	return &ProductController{
		productService: productService,
		revalidator:    revalidator,
	}
}

type ProductRequest struct {
	Name          string                     `json:"name"`
	Slug          string                     `json:"slug"`
	Category      string                     `json:"category"`
	Status        string                     `json:"status"`
	SKU           string                     `json:"sku"`
	MinQty        *int                       `json:"minQty"`
	PriceHint     *float64                   `json:"priceHint"`
	Currency      string                     `json:"currency"`
	ShortDesc     string                     `json:"shortDesc"`
	Description   string                     `json:"description"`
	CoverImage    string                     `json:"coverImage"`
	Images        []string                   `json:"images"`
	Materials     string                     `json:"materials"`
	Dimensions    string                     `json:"dimensions"`
	LeadTime      string                     `json:"leadTime"`
	PackagingInfo string                     `json:"packagingInfo"`
	OriginCountry string                     `json:"originCountry"`
	Unit          string                     `json:"unit"`
	NotesForBuyer string                     `json:"notesForBuyer"`
	TagIDs        []uint                     `json:"tagIds"`
	GiftSetItems  []service.GiftSetItemInput `json:"giftSetItems"`
}

func (r ProductRequest) input() service.ProductInput {
	return service.ProductInput{
		Name:          r.Name,
		Slug:          r.Slug,
		Category:      r.Category,
		Status:        r.Status,
		SKU:           r.SKU,
		MinQty:        r.MinQty,
		PriceHint:     r.PriceHint,
		Currency:      r.Currency,
		ShortDesc:     r.ShortDesc,
		Description:   r.Description,
		CoverImage:    r.CoverImage,
		Images:        r.Images,
		Materials:     r.Materials,
		Dimensions:    r.Dimensions,
		LeadTime:      r.LeadTime,
		PackagingInfo: r.PackagingInfo,
		OriginCountry: r.OriginCountry,
		Unit:          r.Unit,
		NotesForBuyer: r.NotesForBuyer,
		TagIDs:        r.TagIDs,
		GiftSetItems:  r.GiftSetItems,
	}
}

// giftSetItemsFromForm zips itemProductIds[] with itemQuantities[]; a
// missing or unparsable quantity counts as 1.
func giftSetItemsFromForm(c *gin.Context) []service.GiftSetItemInput {
	ids := formArray(c, "itemProductIds")
	quantities := formArray(c, "itemQuantities")

	var items []service.GiftSetItemInput
	for i, raw := range ids {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil || id == 0 {
			continue
		}
		qty := 1
		if i < len(quantities) {
			if n, err := strconv.Atoi(quantities[i]); err == nil && n > 0 {
				qty = n
			}
		}
		items = append(items, service.GiftSetItemInput{ProductID: uint(id), Quantity: qty})
	}
	return items
}

func bindProduct(c *gin.Context) (service.ProductInput, bool) {
	if isJSON(c) {
		var req ProductRequest
		if !bindJSON(c, &req) {
			return service.ProductInput{}, false
		}
		return req.input(), true
	}

	return service.ProductInput{
		Name:          formString(c, "name"),
		Slug:          formString(c, "slug"),
		Category:      formString(c, "category"),
		Status:        formString(c, "status"),
		SKU:           formString(c, "sku"),
		MinQty:        formIntPtr(c, "minQty"),
		PriceHint:     formFloatPtr(c, "priceHint"),
		Currency:      formString(c, "currency"),
		ShortDesc:     formString(c, "shortDesc"),
		Description:   c.PostForm("description"),
		CoverImage:    formString(c, "coverImage"),
		Images:        formList(c, "images"),
		Materials:     formString(c, "materials"),
		Dimensions:    formString(c, "dimensions"),
		LeadTime:      formString(c, "leadTime"),
		PackagingInfo: c.PostForm("packagingInfo"),
		OriginCountry: formString(c, "originCountry"),
		Unit:          formString(c, "unit"),
		NotesForBuyer: c.PostForm("notesForBuyer"),
		TagIDs:        formIDs(c, "tagIds"),
		GiftSetItems:  giftSetItemsFromForm(c),
	}, true
}

func (ctrl *ProductController) changed(c *gin.Context, action string, id uint) {
	ctrl.revalidator.Changed(c.Request.Context(), cache.Change{
		Entity: "product",
		Action: action,
		ID:     id,
		Paths:  cache.ProductPaths,
	})
}

// List GET /api/admin/products?category=&status=&tagId=&q=&limit=&offset=
func (ctrl *ProductController) List(c *gin.Context) {
	opts := service.ProductListOptions{
		Search: c.Query("q"),
	}
	if raw := c.Query("category"); raw != "" {
		category, ok := model.ParseProductCategory(raw)
		if !ok {
			respondError(c, service.ErrInvalidCategory, "list products")
			return
		}
		opts.Category = &category
	}
	if raw := c.Query("status"); raw != "" {
		status, ok := model.ParseProductStatus(raw)
		if !ok {
			respondError(c, service.ErrInvalidStatus, "list products")
			return
		}
		opts.Status = &status
	}
	if raw := c.Query("tagId"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 32); err == nil {
			tagID := uint(id)
			opts.TagID = &tagID
		}
	}
	if n, err := strconv.Atoi(c.Query("limit")); err == nil && n > 0 {
		opts.Limit = n
	}
	if n, err := strconv.Atoi(c.Query("offset")); err == nil && n > 0 {
		opts.Offset = n
	}

	products, err := ctrl.productService.List(opts)
	if err != nil {
		respondError(c, err, "list products")
		return
	}
	respondOK(c, http.StatusOK, products)
}

// Get GET /api/admin/products/:id
func (ctrl *ProductController) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	product, err := ctrl.productService.GetByID(id)
	if err != nil {
		respondError(c, err, "get product")
		return
	}
	respondOK(c, http.StatusOK, product)
}

// Create POST /api/admin/products
func (ctrl *ProductController) Create(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	input, ok := bindProduct(c)
	if !ok {
		return
	}
	result, err := ctrl.productService.Create(input)
	if err != nil {
		respondError(c, err, "create product")
		return
	}

	log.Info("Product created", map[string]interface{}{
		"product_id": result.Product.ID,
		"slug":       result.Product.Slug,
		"warning":    result.Warning,
	})
	ctrl.changed(c, "create", result.Product.ID)
	respondWarning(c, http.StatusCreated, result.Product, result.Warning)
}

// Update PUT /api/admin/products/:id
func (ctrl *ProductController) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	input, ok := bindProduct(c)
	if !ok {
		return
	}
	result, err := ctrl.productService.Update(id, input)
	if err != nil {
		respondError(c, err, "update product")
		return
	}
	ctrl.changed(c, "update", id)
	respondWarning(c, http.StatusOK, result.Product, result.Warning)
}

// Delete DELETE /api/admin/products/:id
func (ctrl *ProductController) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := ctrl.productService.Delete(id); err != nil {
		respondError(c, err, "delete product")
		return
	}
	ctrl.changed(c, "delete", id)
	respondOK(c, http.StatusOK, gin.H{"id": id})
}
