package utils

import (
	"testing"

	"hyggely/src/db"
	"hyggely/src/types"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

const (
	croissantID = "7ee35908-0534-4371-a4d6-a9d5c1fa5792"
	baguetteID  = "a3c1f1d0-5a94-4d8e-9a3f-2b1f9a7c6e01"
)

func reservationFixture() *types.CreateReservationRequestBody {
	return &types.CreateReservationRequestBody{
		Items: []types.ReservationItemInput{
			{ProductID: croissantID, Name: "クロワッサン", Quantity: 2, Price: 300},
			{ProductID: baguetteID, Name: "バゲット", Quantity: 1, Price: 500},
		},
		PickupDate:     "2026-09-05",
		PickupTimeSlot: "11:00-12:00",
		CustomerInfo: types.CustomerInfoInput{
			Name:  "山田 太郎",
			Email: "taro@example.com",
			Phone: "090-1234-5678",
		},
	}
}

func productRows(id, name string, price, stock int) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "price", "stock", "is_available"}).
		AddRow(id, name, price, stock, true)
}

func TestCreateReservation(t *testing.T) {
	_, mock := db.GetMockDB()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "products" WHERE id = (.+) FOR UPDATE`).
		WillReturnRows(productRows(croissantID, "クロワッサン", 300, 10))
	mock.ExpectQuery(`SELECT (.+) FROM "products" WHERE id = (.+) FOR UPDATE`).
		WillReturnRows(productRows(baguetteID, "バゲット", 500, 5))
	mock.ExpectExec(`UPDATE "products" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "products" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO "customers" (.+) ON CONFLICT`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery(`INSERT INTO "reservations"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.NewString()))
	mock.ExpectCommit()

	reservation, err := CreateReservation(reservationFixture())
	assert.Nil(t, err)
	assert.NotNil(t, reservation)
	assert.Regexp(t, `^HYG-\d{8}-[0-9A-Z]{6}$`, reservation.ReservationNumber)
	assert.Equal(t, "taro@example_com", reservation.CustomerID)
	assert.Equal(t, 1100, reservation.TotalAmount)
	assert.Len(t, reservation.Items, 2)
	assert.Equal(t, "クロワッサン", reservation.Items[0].Name)
	assert.Equal(t, string(types.RESERVATION_PENDING), reservation.Status)

	assert.Nil(t, mock.ExpectationsWereMet())
}

func TestCreateReservationInsufficientStock(t *testing.T) {
	_, mock := db.GetMockDB()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "products" WHERE id = (.+) FOR UPDATE`).
		WillReturnRows(productRows(croissantID, "クロワッサン", 300, 1))
	mock.ExpectRollback()

	reservation, err := CreateReservation(reservationFixture())
	assert.Nil(t, reservation)
	assert.NotNil(t, err)

	var stockErr *types.InsufficientStockError
	assert.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 1, stockErr.Remaining)
	assert.Contains(t, err.Error(), "在庫が不足")

	// No stock was decremented and nothing was written.
	assert.Nil(t, mock.ExpectationsWereMet())
}

func TestCreateReservationProductNotFound(t *testing.T) {
	_, mock := db.GetMockDB()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "products" WHERE id = (.+) FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	reservation, err := CreateReservation(reservationFixture())
	assert.Nil(t, reservation)

	var notFoundErr *types.ProductNotFoundError
	assert.ErrorAs(t, err, &notFoundErr)
	assert.Contains(t, err.Error(), "見つかりません")

	assert.Nil(t, mock.ExpectationsWereMet())
}

func TestCreateReservationRetriesOnSerializationConflict(t *testing.T) {
	_, mock := db.GetMockDB()

	// First attempt hits a serialization failure and is retried from scratch.
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "products" WHERE id = (.+) FOR UPDATE`).
		WillReturnError(&pgconn.PgError{Code: "40001"})
	mock.ExpectRollback()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "products" WHERE id = (.+) FOR UPDATE`).
		WillReturnRows(productRows(croissantID, "クロワッサン", 300, 10))
	mock.ExpectQuery(`SELECT (.+) FROM "products" WHERE id = (.+) FOR UPDATE`).
		WillReturnRows(productRows(baguetteID, "バゲット", 500, 5))
	mock.ExpectExec(`UPDATE "products" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "products" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO "customers" (.+) ON CONFLICT`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery(`INSERT INTO "reservations"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.NewString()))
	mock.ExpectCommit()

	reservation, err := CreateReservation(reservationFixture())
	assert.Nil(t, err)
	assert.NotNil(t, reservation)

	assert.Nil(t, mock.ExpectationsWereMet())
}

func TestCreateReservationValidation(t *testing.T) {
	_, mock := db.GetMockDB()

	body := reservationFixture()
	body.Items = nil
	reservation, err := CreateReservation(body)
	assert.Nil(t, reservation)

	var validationErr *types.ValidationError
	assert.ErrorAs(t, err, &validationErr)

	// Rejected input never reaches the database.
	assert.Nil(t, mock.ExpectationsWereMet())
}
