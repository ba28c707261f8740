package models

import "time"

// Well-known setting keys.
const (
	SettingRatePerLockerPerMonth = "rate_per_locker_per_month"
	SettingAdminNotifyMobile     = "admin_notify_mobile"
)

type SystemSetting struct {
	SettingKey   string    `json:"setting_key"`
	SettingValue string    `json:"setting_value"`
	UpdatedAt    time.Time `json:"updated_at"`
}
