package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"hyggely/src/config"
	"hyggely/src/db"
	"hyggely/src/lib"
	"hyggely/src/models"
	"hyggely/src/types"

	"github.com/gin-gonic/gin"
	"github.com/gosimple/slug"
)

func publicProductRoutes(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/products", func(ctx *gin.Context) {
			rdb := lib.GetRedisClient()
			if rdb != nil {
				if cached, err := rdb.Get(ctx, config.PRODUCT_CACHE_KEY).Result(); err == nil {
					ctx.Data(http.StatusOK, "application/json; charset=utf-8", []byte(cached))
					return
				}
			}
			dbi := db.GetDb()
			var products []models.Product
			err := dbi.
				Where(&models.Product{IsAvailable: true}).
				Order("sort_order").
				Find(&products).
				Error
			if err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			payload := gin.H{"data": products, "count": len(products)}
			if rdb != nil {
				if raw, err := json.Marshal(payload); err == nil {
					if err := rdb.Set(ctx, config.PRODUCT_CACHE_KEY, raw, config.PRODUCT_CACHE_TTL).Err(); err != nil {
						log.Printf("Error caching product catalog: %s\n", err.Error())
					}
				}
			}
			ctx.JSON(http.StatusOK, payload)
		})
	return g
}

func invalidateProductCache(ctx context.Context) {
	rdb := lib.GetRedisClient()
	if rdb == nil {
		return
	}
	if err := rdb.Del(ctx, config.PRODUCT_CACHE_KEY).Err(); err != nil {
		log.Printf("Error invalidating product cache: %s\n", err.Error())
	}
}

func productHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/products", func(ctx *gin.Context) {
			dbi := db.GetDb()
			var products []models.Product
			err := dbi.
				Order("sort_order").
				Find(&products).
				Error
			if err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": products, "count": len(products)})
		}).
		POST("/products", func(ctx *gin.Context) {
			var body types.CreateProductRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			isAvailable := true
			if body.IsAvailable != nil {
				isAvailable = *body.IsAvailable
			}
			product := models.Product{
				Name:        body.Name,
				Slug:        slug.Make(body.Name),
				Description: body.Description,
				Price:       body.Price,
				Stock:       body.Stock,
				ImageURL:    body.ImageURL,
				Category:    body.Category,
				IsAvailable: isAvailable,
				SortOrder:   body.SortOrder,
			}
			dbi := db.GetDb()
			if err := dbi.Create(&product).Error; err != nil {
				log.Printf("Error creating product: %s\n", err.Error())
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Error while processing request"})
				return
			}
			invalidateProductCache(ctx)
			ctx.JSON(http.StatusCreated, gin.H{"data": product})
		}).
		PUT("/products/:id", func(ctx *gin.Context) {
			var params types.SimpleIDParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var body types.UpdateProductRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			updates := map[string]any{}
			if body.Name != nil {
				updates["name"] = *body.Name
				updates["slug"] = slug.Make(*body.Name)
			}
			if body.Description != nil {
				updates["description"] = *body.Description
			}
			if body.Price != nil {
				updates["price"] = *body.Price
			}
			if body.Stock != nil {
				updates["stock"] = *body.Stock
			}
			if body.ImageURL != nil {
				updates["image_url"] = *body.ImageURL
			}
			if body.Category != nil {
				updates["category"] = *body.Category
			}
			if body.IsAvailable != nil {
				updates["is_available"] = *body.IsAvailable
			}
			if body.SortOrder != nil {
				updates["sort_order"] = *body.SortOrder
			}
			if len(updates) == 0 {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "no fields to update"})
				return
			}
			dbi := db.GetDb()
			res := dbi.
				Model(&models.Product{}).
				Where("id = ?", params.ID).
				Updates(updates)
			if res.Error != nil {
				log.Printf("Error updating product %s: %s\n", params.ID, res.Error.Error())
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Error while processing request"})
				return
			}
			if res.RowsAffected == 0 {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
				return
			}
			invalidateProductCache(ctx)
			ctx.Status(http.StatusNoContent)
		}).
		PUT("/products/:id/availability", func(ctx *gin.Context) {
			var params types.SimpleIDParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var body struct {
				IsAvailable *bool `json:"isAvailable" binding:"required"`
			}
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			dbi := db.GetDb()
			res := dbi.
				Model(&models.Product{}).
				Where("id = ?", params.ID).
				Update("is_available", *body.IsAvailable)
			if res.Error != nil {
				log.Printf("Error toggling product %s: %s\n", params.ID, res.Error.Error())
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Error while processing request"})
				return
			}
			if res.RowsAffected == 0 {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
				return
			}
			invalidateProductCache(ctx)
			ctx.Status(http.StatusNoContent)
		}).
		DELETE("/products/:id", func(ctx *gin.Context) {
			var params types.SimpleIDParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			dbi := db.GetDb()
			res := dbi.Delete(&models.Product{}, "id = ?", params.ID)
			if res.Error != nil {
				log.Printf("Error deleting product %s: %s\n", params.ID, res.Error.Error())
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Error while processing request"})
				return
			}
			if res.RowsAffected == 0 {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
				return
			}
			invalidateProductCache(ctx)
			ctx.Status(http.StatusNoContent)
		})
	return g
}
