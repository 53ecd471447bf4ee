package boot

import (
	"log"

	"hyggely/src/common"
	"hyggely/src/db"
	"hyggely/src/lib"
	"hyggely/src/models"

	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

func InitDb() *gorm.DB {
	db := db.GetDb()

	err := db.AutoMigrate(
		&models.Product{},
		&models.Reservation{},
		&models.Customer{},
		&models.Admin{},
		&models.Setting{},
		&models.BusinessDay{},
	)
	if err != nil {
		log.Fatalf("error migration: %s", err.Error())
	}

	return db
}

func InitBroker() {
	go lib.KafkaCreateTopics(common.TopicReservationCreated)
	go common.ReservationCreatedConsumer()
}

// InitScheduler registers the daily pickup reminder run.
func InitScheduler() {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("An error has occurred. Check logs for info")
		return
	}
	j, err := sched.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(18, 0, 0))),
		gocron.NewTask(common.SendPickupReminders),
	)
	if err != nil {
		log.Printf("Error scheduling reminder job: %s\n", err.Error())
		return
	}
	log.Printf("Reminder job scheduled: %s\n", j.ID().String())
	sched.Start()
}
