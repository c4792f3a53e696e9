package tables

// MenuSetting names one field of the MU menu register together with the
// table its values come from.
type MenuSetting struct {
	Name  string
	Index int
	Table Table
	Unit  string
}

// Label formats a value from the table with its unit
func (m MenuSetting) Label(value string) string {
	if m.Unit == "" || value == "off" {
		return value
	}
	return value + " " + m.Unit
}

// Menu register field positions, counted from the first payload field
// after "MU "
const (
	MenuBeep      = 0
	MenuVHFAIP    = 10
	MenuUHFAIP    = 11
	MenuTimeout   = 15
	MenuBacklight = 27
	MenuAPO       = 36
	MenuDataSide  = 37
	MenuDataSpeed = 38
	MenuSQC       = 39
)

// Known menu settings
var (
	SettingBeep      = MenuSetting{Name: "beep", Index: MenuBeep, Table: OnOff}
	SettingVHFAIP    = MenuSetting{Name: "VHF AIP", Index: MenuVHFAIP, Table: OnOff}
	SettingUHFAIP    = MenuSetting{Name: "UHF AIP", Index: MenuUHFAIP, Table: OnOff}
	SettingTimeout   = MenuSetting{Name: "TX timeout", Index: MenuTimeout, Table: Timeouts, Unit: "minutes"}
	SettingBacklight = MenuSetting{Name: "backlight", Index: MenuBacklight, Table: Backlights}
	SettingAPO       = MenuSetting{Name: "APO", Index: MenuAPO, Table: APOTimes, Unit: "minutes"}
	SettingDataSide  = MenuSetting{Name: "data side", Index: MenuDataSide, Table: DataSides}
	SettingDataSpeed = MenuSetting{Name: "data speed", Index: MenuDataSpeed, Table: DataSpeeds, Unit: "bps"}
	SettingSQC       = MenuSetting{Name: "SQC source", Index: MenuSQC, Table: SQCSources}
)

// MenuSettings lists every named setting
var MenuSettings = []MenuSetting{
	SettingBeep,
	SettingVHFAIP,
	SettingUHFAIP,
	SettingTimeout,
	SettingBacklight,
	SettingAPO,
	SettingDataSide,
	SettingDataSpeed,
	SettingSQC,
}

// MenuMinFields is the shortest MU register that carries every named setting
const MenuMinFields = MenuSQC + 1
