package gramofon

// The fixed method table of the Gramofon firmware. Module/method pairs were
// recovered from the original Setup APK; nothing outside this table is ever
// called.
const (
	// session module
	ModuleSession = "session"
	MethodLogin   = "login"

	// anet module: device naming and WiFi setup
	ModuleAnet             = "anet"
	MethodStatus           = "status"
	MethodGetGramofonName  = "get_gramofonname"
	MethodSetGramofonName  = "set_gramofonname"
	MethodGetSSIDs         = "get_ssids"
	MethodSSIDScan         = "ssid_scan"
	MethodDoEasySetup      = "doeasysetup"

	// wifid module: wireless interface configuration
	ModuleWifid     = "wifid"
	MethodGetWiface = "get_wiface"
	MethodSetWiface = "set_wiface"
	MethodReload    = "reload"

	// mfgd module: manufacturing daemon (identity, firmware, power)
	ModuleMfgd          = "mfgd"
	MethodGetFonMAC     = "get_fonmac"
	MethodCheckUpgrades = "check_upgrades"
	MethodUpgrade       = "upgrade"
	MethodReboot        = "reboot"
	MethodResetDefaults = "reset_defaults"

	// ledd module: indicator LED
	ModuleLedd      = "ledd"
	MethodLedGet    = "get"
	MethodLedSwitch = "switch"
)

// LED switch arguments accepted by ledd.switch
const (
	LedEnable  = "enable"
	LedDisable = "disable"
)
