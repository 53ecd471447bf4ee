package main

import (
	"net/http"

	"hyggely/src/db"
	"hyggely/src/models"

	"github.com/gin-gonic/gin"
)

func customerHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/customers", func(ctx *gin.Context) {
			dbi := db.GetDb()
			query := dbi.Model(&models.Customer{}).Order("total_spent DESC")
			if q := ctx.Query("q"); q != "" {
				like := "%" + q + "%"
				query = query.Where("name ILIKE ? OR email ILIKE ? OR phone ILIKE ?", like, like, like)
			}
			var customers []models.Customer
			if err := query.Find(&customers).Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": customers, "count": len(customers)})
		}).
		GET("/customers/:id", func(ctx *gin.Context) {
			id := ctx.Params.ByName("id")
			dbi := db.GetDb()
			var customer models.Customer
			err := dbi.
				Where(&models.Customer{ID: id}).
				First(&customer).
				Error
			if err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "customer not found"})
				return
			}
			var reservations []models.Reservation
			err = dbi.
				Where(&models.Reservation{CustomerID: id}).
				Order("created_at DESC").
				Find(&reservations).
				Error
			if err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": customer, "reservations": reservations})
		})
	return g
}
