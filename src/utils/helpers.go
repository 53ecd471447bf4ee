package utils

import (
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"regexp"
	"strconv"
	"strings"
	"time"

	"hyggely/src/config"
	"hyggely/src/models"
	"hyggely/src/types"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const reservationNumberCharset = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// GenerateReservationNumber builds a human-legible display identifier:
// HYG-<yyyyMMdd>-<3 chars from the millisecond clock, base36><3 random chars>.
// Uniqueness is probabilistic; there is deliberately no collision check.
func GenerateReservationNumber() string {
	now := time.Now().In(config.Location())
	date := now.Format("20060102")
	ts := strings.ToUpper(strconv.FormatInt(now.UnixMilli(), 36))
	suffix := ts[len(ts)-3:]
	b := make([]byte, 3)
	for i := range b {
		b[i] = reservationNumberCharset[rand.Intn(len(reservationNumberCharset))]
	}
	return fmt.Sprintf("%s-%s-%s%s", config.RESERVATION_NUMBER_PREFIX, date, suffix, string(b))
}

// FormatPrice renders a JPY amount with thousands separators, e.g. ¥1,234.
func FormatPrice(price int) string {
	s := strconv.Itoa(price)
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	return "¥" + s
}

var customerIDSanitizer = strings.NewReplacer(".", "_", "#", "_", "$", "_", "[", "_", "]", "_")

// CustomerIDFromEmail derives the stable customer key. The same email always
// maps to the same id, so repeat customers resolve to one record.
func CustomerIDFromEmail(email string) string {
	normalized := strings.ToLower(strings.TrimSpace(email))
	return customerIDSanitizer.Replace(normalized)
}

var emailRegexp = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
var phoneRegexp = regexp.MustCompile(`^0\d{9,10}$`)

func IsValidEmail(email string) bool {
	return emailRegexp.MatchString(email)
}

func IsValidPhoneNumber(phone string) bool {
	return phoneRegexp.MatchString(strings.ReplaceAll(phone, "-", ""))
}

// ParsePickupDate resolves a YYYY-MM-DD string to midnight store-local time.
func ParsePickupDate(value string) (time.Time, error) {
	return time.ParseInLocation(config.DATE_PARSE_FORMAT, value, config.Location())
}

// ValidateReservationRequest rejects malformed input before anything is read
// from the store. Messages are caller-facing.
func ValidateReservationRequest(body *types.CreateReservationRequestBody) error {
	if len(body.Items) == 0 {
		return &types.ValidationError{Message: "商品が選択されていません"}
	}
	for _, item := range body.Items {
		if item.ProductID == "" || item.Quantity <= 0 || item.Price < 0 {
			return &types.ValidationError{Message: "商品の指定が正しくありません"}
		}
	}
	if body.PickupDate == "" || body.PickupTimeSlot == "" {
		return &types.ValidationError{Message: "受取日時が指定されていません"}
	}
	if _, err := ParsePickupDate(body.PickupDate); err != nil {
		return &types.ValidationError{Message: "受取日の形式が正しくありません"}
	}
	info := body.CustomerInfo
	if info.Name == "" || info.Email == "" || info.Phone == "" {
		return &types.ValidationError{Message: "お客様情報が不完全です"}
	}
	if !IsValidEmail(info.Email) {
		return &types.ValidationError{Message: "メールアドレスの形式が正しくありません"}
	}
	if !IsValidPhoneNumber(info.Phone) {
		return &types.ValidationError{Message: "電話番号の形式が正しくありません"}
	}
	return nil
}

// DefaultTimeSlots generates hourly pickup windows, e.g. 11:00-12:00.
func DefaultTimeSlots(startHour, endHour int) []string {
	slots := []string{}
	for hour := startHour; hour < endHour; hour++ {
		slots = append(slots, fmt.Sprintf("%02d:00-%02d:00", hour, hour+1))
	}
	return slots
}

func DefaultStoreSettings() types.StoreSettings {
	return types.StoreSettings{
		Name:                "Hyggely",
		Address:             "愛知県みよし市三好丘緑2-10-4",
		Phone:               "0561-XX-XXXX",
		Email:               "info@hyggely.com",
		DefaultTimeSlots:    DefaultTimeSlots(11, 17),
		RegularBusinessDays: []int{3, 6},
	}
}

// LoadStoreSettings reads the "store" settings document, falling back to the
// built-in defaults when it is missing or unreadable.
func LoadStoreSettings(dbi *gorm.DB) types.StoreSettings {
	var setting models.Setting
	err := dbi.
		Where(&models.Setting{SettingKey: config.SETTING_KEY_STORE}).
		First(&setting).
		Error
	if err != nil {
		return DefaultStoreSettings()
	}
	raw, err := json.Marshal(setting.SettingValue)
	if err != nil {
		log.Printf("Error serializing store settings: %s\n", err.Error())
		return DefaultStoreSettings()
	}
	settings := DefaultStoreSettings()
	if err := json.Unmarshal(raw, &settings); err != nil {
		log.Printf("Error parsing store settings: %s\n", err.Error())
		return DefaultStoreSettings()
	}
	return settings
}

func SaveStoreSettings(dbi *gorm.DB, settings *types.StoreSettings) error {
	raw, err := json.Marshal(settings)
	if err != nil {
		return err
	}
	var value types.JSONB
	if err := json.Unmarshal(raw, &value); err != nil {
		return err
	}
	setting := models.Setting{SettingKey: config.SETTING_KEY_STORE, SettingValue: value}
	return dbi.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "setting_key"}},
		DoUpdates: clause.Assignments(map[string]any{"setting_value": value, "updated_at": time.Now()}),
	}).Create(&setting).Error
}

type PickupDate struct {
	Date      string   `json:"date"`
	TimeSlots []string `json:"timeSlots"`
	Note      string   `json:"note,omitempty"`
}

// NextPickupDates lists the next count business days after from, applying
// per-date overrides on top of the regular weekly schedule.
func NextPickupDates(settings types.StoreSettings, overrides map[string]models.BusinessDay, from time.Time, count int) []PickupDate {
	isRegular := func(weekday int) bool {
		for _, d := range settings.RegularBusinessDays {
			if d == weekday {
				return true
			}
		}
		return false
	}

	dates := []PickupDate{}
	day := from.In(config.Location())
	// Bounded scan ahead: a store closed for two months offers no dates.
	for i := 0; i < 60 && len(dates) < count; i++ {
		day = day.AddDate(0, 0, 1)
		key := day.Format(config.DATE_PARSE_FORMAT)

		if override, ok := overrides[key]; ok {
			if !override.IsOpen {
				continue
			}
			slots := []string(override.TimeSlots)
			if len(slots) == 0 {
				slots = settings.DefaultTimeSlots
			}
			dates = append(dates, PickupDate{Date: key, TimeSlots: slots, Note: override.Note})
			continue
		}
		if isRegular(int(day.Weekday())) {
			dates = append(dates, PickupDate{Date: key, TimeSlots: settings.DefaultTimeSlots})
		}
	}
	return dates
}
