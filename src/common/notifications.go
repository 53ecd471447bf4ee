package common

import (
	"fmt"
	"log"
	"strings"
	"time"

	"hyggely/src/db"
	"hyggely/src/lib"
	"hyggely/src/lib/mailer"
	"hyggely/src/models"
	"hyggely/src/types"
	"hyggely/src/utils"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/tidwall/gjson"
)

const TopicReservationCreated = "reservation-created"

// ReservationCreatedConsumer drives the post-commit notification trigger. It
// reacts to reservation-created events at-least-once; the handler body is safe
// to re-run on redelivery.
func ReservationCreatedConsumer() {
	log.Printf("%s: Listening for messages...", TopicReservationCreated)
	c, err := lib.NewKafkaConsumer("notifications", TopicReservationCreated)
	if err != nil {
		log.Printf("Error initializing consumer for %s: %s\n", TopicReservationCreated, err.Error())
		return
	}
	run := true
	for run {
		ev := c.Poll(100)
		switch e := ev.(type) {
		case *kafka.Message:
			body := string(e.Value)
			if !gjson.Valid(body) {
				log.Printf("[%s]: Received invalid json body. Skipping", TopicReservationCreated)
				break
			}
			id := gjson.Get(body, "id").String()
			if id == "" {
				log.Printf("[%s]: Message has no reservation id. Skipping", TopicReservationCreated)
				break
			}
			HandleReservationCreated(id)
		case kafka.Error:
			log.Printf("[%s]: Consumer error: %s\n", TopicReservationCreated, e.Error())
			run = false
		}
	}
	c.Close()
}

// HandleReservationCreated sends the confirmation and admin emails for a
// newly committed reservation and records the customer delivery outcome on
// the reservation. The reservation itself has already committed: nothing here
// may fail the reservation, so every error is contained and logged.
func HandleReservationCreated(reservationID string) {
	dbi := db.GetDb()

	var reservation models.Reservation
	if err := dbi.Where("id = ?", reservationID).First(&reservation).Error; err != nil {
		log.Printf("Reservation %s not found: %s\n", reservationID, err.Error())
		return
	}
	log.Printf("New reservation created: %s\n", reservation.ReservationNumber)

	var customer models.Customer
	if err := dbi.Where(&models.Customer{ID: reservation.CustomerID}).First(&customer).Error; err != nil {
		log.Printf("Customer not found: %s\n", reservation.CustomerID)
		updateEmailStatus(reservationID, types.EMAIL_FAILED, "顧客情報が見つかりません")
		return
	}

	settings := utils.LoadStoreSettings(dbi)

	customerEmailSent := false
	emailBody := BuildConfirmationEmail(&reservation, &customer, settings)
	err := mailer.Send(&lib.SendMailInput{
		To:      []string{customer.Email},
		Subject: fmt.Sprintf("【%s】ご予約確認 (%s)", settings.Name, reservation.ReservationNumber),
		Body:    emailBody,
	})
	if err != nil {
		log.Printf("Failed to send customer email: %s\n", err.Error())
	} else {
		customerEmailSent = true
		log.Printf("Confirmation email sent to: %s\n", customer.Email)
	}

	if settings.Email != "" {
		adminBody := BuildAdminNotification(&reservation, &customer)
		err := mailer.Send(&lib.SendMailInput{
			To:      []string{settings.Email},
			Subject: fmt.Sprintf("【新規予約】%s様 - %s", customer.Name, reservation.ReservationNumber),
			Body:    adminBody,
		})
		if err != nil {
			log.Printf("Failed to send admin email: %s\n", err.Error())
		} else {
			log.Printf("Admin notification sent to: %s\n", settings.Email)
		}
	}

	if customerEmailSent {
		updateEmailStatus(reservationID, types.EMAIL_SENT, "")
	} else {
		updateEmailStatus(reservationID, types.EMAIL_FAILED, "顧客へのメール送信に失敗しました")
	}
}

// updateEmailStatus writes back only the advisory email fields; status and
// item data stay untouched.
func updateEmailStatus(reservationID string, status types.EmailStatus, errorMessage string) {
	now := time.Now()
	updates := map[string]any{
		"email_status":  string(status),
		"email_error":   nil,
		"email_sent_at": nil,
		"updated_at":    now,
	}
	if status == types.EMAIL_SENT {
		updates["email_sent_at"] = now
	}
	if errorMessage != "" {
		updates["email_error"] = errorMessage
	}
	dbi := db.GetDb()
	err := dbi.
		Model(&models.Reservation{}).
		Where("id = ?", reservationID).
		Updates(updates).
		Error
	if err != nil {
		log.Printf("Failed to update email status: %s\n", err.Error())
	}
}

func formatPickupDate(t time.Time) string {
	return fmt.Sprintf("%d年%d月%d日", t.Year(), int(t.Month()), t.Day())
}

func BuildConfirmationEmail(reservation *models.Reservation, customer *models.Customer, settings types.StoreSettings) string {
	var itemLines []string
	for _, item := range reservation.Items {
		itemLines = append(itemLines, fmt.Sprintf("  - %s × %d個 (%s)", item.Name, item.Quantity, utils.FormatPrice(item.Price)))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s 様\n\n", customer.Name)
	fmt.Fprintf(&b, "この度は %s をご利用いただき、誠にありがとうございます。\n", settings.Name)
	b.WriteString("以下の内容でご予約を承りました。\n\n")
	b.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
	fmt.Fprintf(&b, "予約番号: %s\n", reservation.ReservationNumber)
	b.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n\n")
	b.WriteString("【ご予約内容】\n")
	b.WriteString(strings.Join(itemLines, "\n"))
	b.WriteString("\n\n【合計金額】\n")
	fmt.Fprintf(&b, "%s\n\n", utils.FormatPrice(reservation.TotalAmount))
	b.WriteString("【受取日時】\n")
	fmt.Fprintf(&b, "%s %s\n\n", formatPickupDate(reservation.PickupDate), reservation.PickupTimeSlot)
	b.WriteString("【受取場所】\n")
	fmt.Fprintf(&b, "%s\n%s\nTEL: %s\n\n", settings.Name, settings.Address, settings.Phone)
	if reservation.Notes != "" {
		fmt.Fprintf(&b, "【備考】\n%s\n\n", reservation.Notes)
	}
	b.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n\n")
	b.WriteString("ご来店を心よりお待ちしております。\n\n")
	b.WriteString("※このメールは自動送信です。\n")
	b.WriteString("※ご不明な点がございましたら、お電話にてお問い合わせください。\n\n")
	b.WriteString("--\n")
	fmt.Fprintf(&b, "%s\n%s\nTEL: %s\nEmail: %s\n", settings.Name, settings.Address, settings.Phone, settings.Email)
	return b.String()
}

func BuildAdminNotification(reservation *models.Reservation, customer *models.Customer) string {
	var itemLines []string
	for _, item := range reservation.Items {
		itemLines = append(itemLines, fmt.Sprintf("  - %s × %d個", item.Name, item.Quantity))
	}

	var b strings.Builder
	b.WriteString("新規予約が入りました。\n\n")
	fmt.Fprintf(&b, "予約番号: %s\n", reservation.ReservationNumber)
	fmt.Fprintf(&b, "お客様名: %s\n", customer.Name)
	fmt.Fprintf(&b, "連絡先: %s\n", customer.Phone)
	fmt.Fprintf(&b, "メール: %s\n", customer.Email)
	fmt.Fprintf(&b, "受取日時: %s %s\n", formatPickupDate(reservation.PickupDate), reservation.PickupTimeSlot)
	fmt.Fprintf(&b, "合計金額: %s\n\n", utils.FormatPrice(reservation.TotalAmount))
	b.WriteString("商品:\n")
	b.WriteString(strings.Join(itemLines, "\n"))
	if reservation.Notes != "" {
		fmt.Fprintf(&b, "\n\n備考: %s", reservation.Notes)
	}
	return b.String()
}
