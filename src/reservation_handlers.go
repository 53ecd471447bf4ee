package main

import (
	"errors"
	"log"
	"net/http"

	"hyggely/src/common"
	"hyggely/src/db"
	"hyggely/src/lib"
	"hyggely/src/models"
	"hyggely/src/types"
	"hyggely/src/utils"

	"github.com/gin-gonic/gin"
)

func publicReservationRoutes(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/reservations", func(ctx *gin.Context) {
			var body types.CreateReservationRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, types.CreateReservationResponse{Success: false, Error: "リクエストの形式が正しくありません"})
				return
			}
			reservation, err := utils.CreateReservation(&body)
			if err != nil {
				status, msg := reservationErrorResponse(err)
				ctx.JSON(status, types.CreateReservationResponse{Success: false, Error: msg})
				return
			}
			log.Printf("Reservation created: %s\n", reservation.ReservationNumber)
			// The commit already succeeded; the event publish is best effort
			// and must not fail the response.
			go publishReservationCreated(reservation)
			ctx.JSON(http.StatusOK, types.CreateReservationResponse{
				Success:           true,
				ReservationNumber: reservation.ReservationNumber,
			})
		})
	return g
}

// reservationErrorResponse separates "fix your input" from "the business rule
// blocked you" from "retry later". Internal detail never reaches the caller.
func reservationErrorResponse(err error) (int, string) {
	var validationErr *types.ValidationError
	var notFoundErr *types.ProductNotFoundError
	var stockErr *types.InsufficientStockError
	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest, validationErr.Message
	case errors.As(err, &notFoundErr):
		return http.StatusNotFound, notFoundErr.Error()
	case errors.As(err, &stockErr):
		return http.StatusConflict, stockErr.Error()
	default:
		log.Printf("Error creating reservation: %s\n", err.Error())
		return http.StatusInternalServerError, "予約の作成に失敗しました。もう一度お試しください。"
	}
}

func publishReservationCreated(reservation *models.Reservation) {
	payload := map[string]any{
		"id":                reservation.ID.String(),
		"reservationNumber": reservation.ReservationNumber,
	}
	if err := lib.KafkaProduceMessage("api", common.TopicReservationCreated, payload); err != nil {
		log.Printf("Error publishing %s event: %s\n", common.TopicReservationCreated, err.Error())
	}
}

func reservationHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/reservations", func(ctx *gin.Context) {
			dbi := db.GetDb()
			query := dbi.Model(&models.Reservation{}).Order("pickup_date, pickup_time_slot")
			if date := ctx.Query("date"); date != "" {
				start, err := utils.ParsePickupDate(date)
				if err != nil {
					ctx.JSON(http.StatusBadRequest, gin.H{"error": "日付の形式が正しくありません"})
					return
				}
				query = query.Where("pickup_date >= ? AND pickup_date < ?", start, start.AddDate(0, 0, 1))
			}
			if status := ctx.Query("status"); status != "" {
				query = query.Where("status = ?", status)
			}
			if q := ctx.Query("q"); q != "" {
				like := "%" + q + "%"
				query = query.Where("reservation_number ILIKE ? OR customer_name ILIKE ? OR customer_phone ILIKE ?", like, like, like)
			}
			var reservations []models.Reservation
			if err := query.Find(&reservations).Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": reservations, "count": len(reservations)})
		}).
		GET("/reservations/:id", func(ctx *gin.Context) {
			var params types.SimpleIDParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			dbi := db.GetDb()
			var reservation models.Reservation
			err := dbi.
				Where("id = ?", params.ID).
				First(&reservation).
				Error
			if err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "reservation not found"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": reservation})
		}).
		PUT("/reservations/:id/status", func(ctx *gin.Context) {
			var params types.SimpleIDParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var body types.UpdateReservationStatusRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			dbi := db.GetDb()
			res := dbi.
				Model(&models.Reservation{}).
				Where("id = ?", params.ID).
				Update("status", body.Status)
			if res.Error != nil {
				log.Printf("Error updating reservation status: %s\n", res.Error.Error())
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Error while processing request"})
				return
			}
			if res.RowsAffected == 0 {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "reservation not found"})
				return
			}
			ctx.Status(http.StatusNoContent)
		})
	return g
}
