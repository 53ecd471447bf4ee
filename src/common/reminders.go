package common

import (
	"fmt"
	"log"
	"strings"
	"time"

	"hyggely/src/config"
	"hyggely/src/db"
	"hyggely/src/lib"
	"hyggely/src/lib/mailer"
	"hyggely/src/models"
	"hyggely/src/types"
	"hyggely/src/utils"
)

// SendPickupReminders mails every pending or confirmed reservation whose
// pickup date is tomorrow. Purely best-effort: outcomes are logged, nothing
// is written back to the reservations.
func SendPickupReminders() {
	loc := config.Location()
	now := time.Now().In(loc)
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, 1)
	end := start.AddDate(0, 0, 1)

	dbi := db.GetDb()
	var reservations []models.Reservation
	err := dbi.
		Where("pickup_date >= ? AND pickup_date < ?", start, end).
		Where("status IN ?", []string{string(types.RESERVATION_PENDING), string(types.RESERVATION_CONFIRMED)}).
		Find(&reservations).
		Error
	if err != nil {
		log.Printf("Error loading reservations for reminders: %s\n", err.Error())
		return
	}
	if len(reservations) == 0 {
		return
	}

	settings := utils.LoadStoreSettings(dbi)
	sent := 0
	for _, reservation := range reservations {
		body := BuildReminderEmail(&reservation, settings)
		err := mailer.Send(&lib.SendMailInput{
			To:      []string{reservation.CustomerEmail},
			Subject: fmt.Sprintf("【%s】明日のお受け取りのご案内 (%s)", settings.Name, reservation.ReservationNumber),
			Body:    body,
		})
		if err != nil {
			log.Printf("Failed to send reminder for %s: %s\n", reservation.ReservationNumber, err.Error())
			continue
		}
		sent++
	}
	log.Printf("Pickup reminders sent: %d/%d\n", sent, len(reservations))
}

// BuildReminderEmail uses the store's reminder template when one is
// configured, with {placeholder} substitution.
func BuildReminderEmail(reservation *models.Reservation, settings types.StoreSettings) string {
	if tpl := settings.EmailTemplates.ReminderEmail; tpl != "" {
		replacer := strings.NewReplacer(
			"{customerName}", reservation.CustomerName,
			"{reservationNumber}", reservation.ReservationNumber,
			"{pickupDate}", formatPickupDate(reservation.PickupDate),
			"{pickupTimeSlot}", reservation.PickupTimeSlot,
			"{storeName}", settings.Name,
		)
		return replacer.Replace(tpl)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s 様\n\n", reservation.CustomerName)
	fmt.Fprintf(&b, "明日は %s でのお受け取り日です。\n\n", settings.Name)
	fmt.Fprintf(&b, "予約番号: %s\n", reservation.ReservationNumber)
	fmt.Fprintf(&b, "受取日時: %s %s\n\n", formatPickupDate(reservation.PickupDate), reservation.PickupTimeSlot)
	fmt.Fprintf(&b, "【受取場所】\n%s\n%s\nTEL: %s\n\n", settings.Name, settings.Address, settings.Phone)
	b.WriteString("ご来店を心よりお待ちしております。\n\n※このメールは自動送信です。\n")
	return b.String()
}
