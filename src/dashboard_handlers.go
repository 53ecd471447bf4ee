package main

import (
	"net/http"
	"time"

	"hyggely/src/config"
	"hyggely/src/db"
	"hyggely/src/models"
	"hyggely/src/types"

	"github.com/gin-gonic/gin"
)

func dashboardHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/dashboard", func(ctx *gin.Context) {
			dbi := db.GetDb()
			loc := config.Location()
			now := time.Now().In(loc)
			start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
			end := start.AddDate(0, 0, 1)

			var todayReservations []models.Reservation
			if err := dbi.
				Where("pickup_date >= ? AND pickup_date < ?", start, end).
				Order("pickup_time_slot").
				Find(&todayReservations).
				Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}

			var pendingCount int64
			if err := dbi.
				Model(&models.Reservation{}).
				Where("status = ?", types.RESERVATION_PENDING).
				Count(&pendingCount).
				Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}

			var todaySales int64
			if err := dbi.
				Model(&models.Reservation{}).
				Select("COALESCE(SUM(total_amount), 0)").
				Where("pickup_date >= ? AND pickup_date < ? AND status <> ?", start, end, types.RESERVATION_CANCELLED).
				Scan(&todaySales).
				Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}

			var lowStock []models.Product
			if err := dbi.
				Where("stock <= ? AND is_available = ?", config.LOW_STOCK_THRESHOLD, true).
				Order("stock").
				Find(&lowStock).
				Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}

			ctx.JSON(http.StatusOK, gin.H{
				"data": gin.H{
					"todayReservations": todayReservations,
					"pendingCount":      pendingCount,
					"todaySales":        todaySales,
					"lowStockProducts":  lowStock,
				},
			})
		})
	return g
}
