package models

type Theme string

const (
	ThemeSystem Theme = "system"
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
)

func (t Theme) Valid() bool {
	return t == ThemeSystem || t == ThemeLight || t == ThemeDark
}

type BackupFrequency string

const (
	BackupDaily   BackupFrequency = "daily"
	BackupWeekly  BackupFrequency = "weekly"
	BackupMonthly BackupFrequency = "monthly"
)

func (f BackupFrequency) Valid() bool {
	return f == BackupDaily || f == BackupWeekly || f == BackupMonthly
}

// Preferences is stored as a single object rather than a collection.
type Preferences struct {
	Notifications NotificationPrefs `json:"notifications" yaml:"notifications"`
	Backup        BackupPrefs       `json:"backup" yaml:"backup"`
	Privacy       PrivacyPrefs      `json:"privacy" yaml:"privacy"`
}

type NotificationPrefs struct {
	Habits  bool `json:"habits" yaml:"habits"`
	Journal bool `json:"journal" yaml:"journal"`
	Goals   bool `json:"goals" yaml:"goals"`
}

type BackupPrefs struct {
	Auto      bool            `json:"auto" yaml:"auto"`
	Frequency BackupFrequency `json:"frequency" yaml:"frequency"`
}

type PrivacyPrefs struct {
	Analytics    bool `json:"analytics" yaml:"analytics"`
	CrashReports bool `json:"crashReports" yaml:"crashReports"`
}

// DefaultPreferences is returned whenever no preferences have been stored.
func DefaultPreferences() Preferences {
	return Preferences{
		Backup:  BackupPrefs{Frequency: BackupWeekly},
		Privacy: PrivacyPrefs{CrashReports: true},
	}
}
