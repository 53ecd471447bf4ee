package main

import (
	"log"
	"net/http"
	"time"

	"hyggely/src/config"
	"hyggely/src/db"
	"hyggely/src/models"
	"hyggely/src/types"
	"hyggely/src/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm/clause"
)

func publicPickupDateRoutes(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/pickup-dates", func(ctx *gin.Context) {
			dbi := db.GetDb()
			settings := utils.LoadStoreSettings(dbi)

			today := time.Now().In(config.Location()).Format(config.DATE_PARSE_FORMAT)
			var rows []models.BusinessDay
			if err := dbi.Where("date >= ?", today).Find(&rows).Error; err != nil {
				log.Printf("Error loading business day overrides: %s\n", err.Error())
			}
			overrides := map[string]models.BusinessDay{}
			for _, row := range rows {
				overrides[row.Date] = row
			}

			dates := utils.NextPickupDates(settings, overrides, time.Now(), config.PICKUP_DATES_COUNT)
			ctx.JSON(http.StatusOK, gin.H{"data": dates, "count": len(dates)})
		})
	return g
}

func settingsHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/settings", func(ctx *gin.Context) {
			dbi := db.GetDb()
			settings := utils.LoadStoreSettings(dbi)
			ctx.JSON(http.StatusOK, gin.H{"data": settings})
		}).
		PUT("/settings", func(ctx *gin.Context) {
			var body types.StoreSettings
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			dbi := db.GetDb()
			if err := utils.SaveStoreSettings(dbi, &body); err != nil {
				log.Printf("Error saving store settings: %s\n", err.Error())
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Error while processing request"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": body})
		}).
		GET("/business-days", func(ctx *gin.Context) {
			dbi := db.GetDb()
			query := dbi.Model(&models.BusinessDay{}).Order("date")
			if from := ctx.Query("from"); from != "" {
				query = query.Where("date >= ?", from)
			}
			var days []models.BusinessDay
			if err := query.Find(&days).Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": days, "count": len(days)})
		}).
		PUT("/business-days", func(ctx *gin.Context) {
			var body types.UpsertBusinessDayRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			day := models.BusinessDay{
				Date:      body.Date,
				IsOpen:    body.IsOpen,
				TimeSlots: models.TimeSlots(body.TimeSlots),
				Note:      body.Note,
			}
			dbi := db.GetDb()
			err := dbi.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "date"}},
				DoUpdates: clause.Assignments(map[string]any{
					"is_open":    body.IsOpen,
					"time_slots": models.TimeSlots(body.TimeSlots),
					"note":       body.Note,
					"updated_at": time.Now(),
				}),
			}).Create(&day).Error
			if err != nil {
				log.Printf("Error upserting business day %s: %s\n", body.Date, err.Error())
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Error while processing request"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": day})
		})
	return g
}
