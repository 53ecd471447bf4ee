package common

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"hyggely/src/db"
	"hyggely/src/lib"
	"hyggely/src/lib/mailer"
	"hyggely/src/models"
	"hyggely/src/types"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

type fakeSender struct {
	inputs []*lib.SendMailInput
	err    error
}

func (f *fakeSender) Send(input *lib.SendMailInput) error {
	f.inputs = append(f.inputs, input)
	return f.err
}

const (
	testReservationID = "d9b2b5d6-3c41-4a2f-9d27-90f3a1b6b7a0"
	testCustomerID    = "taro@example_com"
)

func reservationRows(t *testing.T) *sqlmock.Rows {
	t.Helper()
	items, err := json.Marshal(types.CartItems{
		{ProductID: "p1", Name: "クロワッサン", Price: 300, Quantity: 2},
	})
	assert.Nil(t, err)
	pickup := time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC)
	return sqlmock.NewRows([]string{
		"id", "reservation_number", "customer_id", "customer_name",
		"customer_email", "customer_phone", "items", "total_amount",
		"pickup_date", "pickup_time_slot", "status", "notes",
	}).AddRow(
		testReservationID, "HYG-20260905-ABC123", testCustomerID, "山田 太郎",
		"taro@example.com", "09012345678", items, 600,
		pickup, "11:00-12:00", "pending", "",
	)
}

func customerRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "email", "phone", "reservation_count", "total_spent"}).
		AddRow(testCustomerID, "山田 太郎", "taro@example.com", "09012345678", 1, 600)
}

func emptySettingsRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "setting_key", "setting_value"})
}

func TestHandleReservationCreated(t *testing.T) {
	_, mock := db.GetMockDB()
	sender := &fakeSender{}
	mailer.NewSender(sender)

	mock.ExpectQuery(`SELECT (.+) FROM "reservations" WHERE id =`).
		WillReturnRows(reservationRows(t))
	mock.ExpectQuery(`SELECT (.+) FROM "customers"`).
		WillReturnRows(customerRows())
	mock.ExpectQuery(`SELECT (.+) FROM "settings"`).
		WillReturnRows(emptySettingsRows())
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "reservations" SET`).
		WithArgs(nil, sqlmock.AnyArg(), "sent", sqlmock.AnyArg(), testReservationID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	HandleReservationCreated(testReservationID)

	// Customer confirmation plus the admin copy.
	assert.Len(t, sender.inputs, 2)
	assert.Equal(t, []string{"taro@example.com"}, sender.inputs[0].To)
	assert.Contains(t, sender.inputs[0].Subject, "ご予約確認")
	assert.Contains(t, sender.inputs[0].Subject, "HYG-20260905-ABC123")
	assert.Contains(t, sender.inputs[1].Subject, "【新規予約】")

	assert.Nil(t, mock.ExpectationsWereMet())
}

func TestHandleReservationCreatedSendFailure(t *testing.T) {
	_, mock := db.GetMockDB()
	sender := &fakeSender{err: errors.New("smtp connection refused")}
	mailer.NewSender(sender)

	mock.ExpectQuery(`SELECT (.+) FROM "reservations" WHERE id =`).
		WillReturnRows(reservationRows(t))
	mock.ExpectQuery(`SELECT (.+) FROM "customers"`).
		WillReturnRows(customerRows())
	mock.ExpectQuery(`SELECT (.+) FROM "settings"`).
		WillReturnRows(emptySettingsRows())
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "reservations" SET`).
		WithArgs("顧客へのメール送信に失敗しました", nil, "failed", sqlmock.AnyArg(), testReservationID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	HandleReservationCreated(testReservationID)

	assert.Nil(t, mock.ExpectationsWereMet())
}

func TestHandleReservationCreatedMissingCustomer(t *testing.T) {
	_, mock := db.GetMockDB()
	sender := &fakeSender{}
	mailer.NewSender(sender)

	mock.ExpectQuery(`SELECT (.+) FROM "reservations" WHERE id =`).
		WillReturnRows(reservationRows(t))
	mock.ExpectQuery(`SELECT (.+) FROM "customers"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "reservations" SET`).
		WithArgs("顧客情報が見つかりません", nil, "failed", sqlmock.AnyArg(), testReservationID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	HandleReservationCreated(testReservationID)

	assert.Empty(t, sender.inputs)
	assert.Nil(t, mock.ExpectationsWereMet())
}

func TestHandleReservationCreatedMissingReservation(t *testing.T) {
	_, mock := db.GetMockDB()
	sender := &fakeSender{}
	mailer.NewSender(sender)

	mock.ExpectQuery(`SELECT (.+) FROM "reservations" WHERE id =`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	HandleReservationCreated(testReservationID)

	assert.Empty(t, sender.inputs)
	assert.Nil(t, mock.ExpectationsWereMet())
}

func TestBuildConfirmationEmail(t *testing.T) {
	reservation := &models.Reservation{
		ReservationNumber: "HYG-20260905-ABC123",
		Items: types.CartItems{
			{ProductID: "p1", Name: "クロワッサン", Price: 300, Quantity: 2},
			{ProductID: "p2", Name: "バゲット", Price: 500, Quantity: 1},
		},
		TotalAmount:    1100,
		PickupDate:     time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC),
		PickupTimeSlot: "11:00-12:00",
		Notes:          "箱に入れてください",
	}
	customer := &models.Customer{Name: "山田 太郎", Email: "taro@example.com"}
	settings := types.StoreSettings{
		Name:    "Hyggely",
		Address: "愛知県みよし市三好丘緑2-10-4",
		Phone:   "0561-XX-XXXX",
		Email:   "info@hyggely.com",
	}

	body := BuildConfirmationEmail(reservation, customer, settings)
	assert.Contains(t, body, "山田 太郎 様")
	assert.Contains(t, body, "予約番号: HYG-20260905-ABC123")
	assert.Contains(t, body, "クロワッサン × 2個 (¥300)")
	assert.Contains(t, body, "¥1,100")
	assert.Contains(t, body, "2026年9月5日 11:00-12:00")
	assert.Contains(t, body, "箱に入れてください")
}

func TestBuildAdminNotification(t *testing.T) {
	reservation := &models.Reservation{
		ReservationNumber: "HYG-20260905-ABC123",
		Items: types.CartItems{
			{ProductID: "p1", Name: "クロワッサン", Price: 300, Quantity: 2},
		},
		TotalAmount:    600,
		PickupDate:     time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC),
		PickupTimeSlot: "11:00-12:00",
	}
	customer := &models.Customer{Name: "山田 太郎", Email: "taro@example.com", Phone: "09012345678"}

	body := BuildAdminNotification(reservation, customer)
	assert.Contains(t, body, "新規予約が入りました")
	assert.Contains(t, body, "お客様名: 山田 太郎")
	assert.Contains(t, body, "クロワッサン × 2個")
	assert.Contains(t, body, "合計金額: ¥600")
}

func TestBuildReminderEmail(t *testing.T) {
	reservation := &models.Reservation{
		ReservationNumber: "HYG-20260905-ABC123",
		CustomerName:      "山田 太郎",
		PickupDate:        time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC),
		PickupTimeSlot:    "11:00-12:00",
	}
	settings := types.StoreSettings{Name: "Hyggely"}

	body := BuildReminderEmail(reservation, settings)
	assert.Contains(t, body, "山田 太郎 様")
	assert.Contains(t, body, "予約番号: HYG-20260905-ABC123")

	settings.EmailTemplates.ReminderEmail = "{customerName}様、{storeName}より{pickupDate} {pickupTimeSlot}のご案内です。"
	body = BuildReminderEmail(reservation, settings)
	assert.Equal(t, "山田 太郎様、Hyggelyより2026年9月5日 11:00-12:00のご案内です。", body)
}
