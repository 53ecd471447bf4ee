package utils

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"hyggely/src/db"
	"hyggely/src/models"
	"hyggely/src/types"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const reservationTxAttempts = 3

// CreateReservation runs the inventory-safe reservation transaction: verify
// stock for every cart line, decrement it, upsert the customer aggregate and
// create the reservation — all inside one serializable transaction. On a
// serialization conflict the whole body is retried from a fresh read snapshot.
// No external side effects happen inside the transaction body.
func CreateReservation(body *types.CreateReservationRequestBody) (*models.Reservation, error) {
	if err := ValidateReservationRequest(body); err != nil {
		return nil, err
	}
	pickupDate, err := ParsePickupDate(body.PickupDate)
	if err != nil {
		return nil, &types.ValidationError{Message: "受取日の形式が正しくありません"}
	}
	customerID := CustomerIDFromEmail(body.CustomerInfo.Email)

	dbi := db.GetDb()
	var reservation *models.Reservation
	for attempt := 1; attempt <= reservationTxAttempts; attempt++ {
		reservation, err = tryCreateReservation(dbi, body, pickupDate, customerID)
		if err == nil || !retryableTxError(err) {
			break
		}
		log.Printf("Reservation transaction conflict (attempt %d/%d): %s\n", attempt, reservationTxAttempts, err.Error())
	}
	return reservation, err
}

func tryCreateReservation(dbi *gorm.DB, body *types.CreateReservationRequestBody, pickupDate time.Time, customerID string) (*models.Reservation, error) {
	totalAmount := 0
	items := make(types.CartItems, 0, len(body.Items))
	for _, item := range body.Items {
		totalAmount += item.Price * item.Quantity
		items = append(items, types.CartItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.Price,
			Quantity:  item.Quantity,
			ImageURL:  item.ImageURL,
		})
	}

	reservation := &models.Reservation{
		ReservationNumber: GenerateReservationNumber(),
		CustomerID:        customerID,
		CustomerName:      body.CustomerInfo.Name,
		CustomerEmail:     body.CustomerInfo.Email,
		CustomerPhone:     body.CustomerInfo.Phone,
		Items:             items,
		TotalAmount:       totalAmount,
		PickupDate:        pickupDate,
		PickupTimeSlot:    body.PickupTimeSlot,
		Status:            string(types.RESERVATION_PENDING),
		Notes:             body.CustomerInfo.Notes,
	}

	err := dbi.Transaction(func(tx *gorm.DB) error {
		for _, item := range body.Items {
			var product models.Product
			err := tx.
				Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("id = ?", item.ProductID).
				First(&product).
				Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &types.ProductNotFoundError{Name: item.Name}
			}
			if err != nil {
				return err
			}
			if product.Stock < item.Quantity {
				return &types.InsufficientStockError{Name: product.Name, Remaining: product.Stock}
			}
		}

		for _, item := range body.Items {
			res := tx.
				Model(&models.Product{}).
				Where("id = ? AND stock >= ?", item.ProductID, item.Quantity).
				Update("stock", gorm.Expr("stock - ?", item.Quantity))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected != 1 {
				// Unreachable while the read above holds the row lock.
				return fmt.Errorf("stock update affected %d rows for product %s", res.RowsAffected, item.ProductID)
			}
		}

		customer := models.Customer{
			ID:               customerID,
			Name:             body.CustomerInfo.Name,
			Email:            body.CustomerInfo.Email,
			Phone:            body.CustomerInfo.Phone,
			ReservationCount: 1,
			TotalSpent:       totalAmount,
		}
		// created_at stays untouched on conflict, so the first reservation's
		// timestamp is preserved for repeat customers.
		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"name":              body.CustomerInfo.Name,
				"email":             body.CustomerInfo.Email,
				"phone":             body.CustomerInfo.Phone,
				"reservation_count": gorm.Expr("customers.reservation_count + ?", 1),
				"total_spent":       gorm.Expr("customers.total_spent + ?", totalAmount),
				"updated_at":        time.Now(),
			}),
		}).Create(&customer).Error
		if err != nil {
			return err
		}

		if err := tx.Create(reservation).Error; err != nil {
			return err
		}
		return nil
	}, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return nil, err
	}
	return reservation, nil
}

func retryableTxError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// serialization_failure / deadlock_detected
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}
