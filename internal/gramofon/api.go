package gramofon

import (
	"context"
	"time"
)

// EasySetupConfig carries the parameters of the combined WiFi+name setup
// performed by anet.doeasysetup.
type EasySetupConfig struct {
	// SSID of the network the device should join
	SSID string
	// Key is the network passphrase
	Key string
	// Encryption mode; defaults to "psk2" (WPA2-PSK) when empty
	Encryption string
	// DeviceName optionally renames the device in the same call
	DeviceName string
	// DisableAP turns off the device's own setup access point once joined
	DisableAP bool
}

// Network is one entry of a WiFi scan result
type Network struct {
	SSID       string
	Quality    int
	QualityMax int
	Encryption string
}

// Strength returns signal quality as a 0-100 percentage
func (n Network) Strength() int {
	if n.QualityMax <= 0 {
		return 0
	}
	s := n.Quality * 100 / n.QualityMax
	if s > 100 {
		s = 100
	}
	return s
}

// Upgrade describes one firmware image offered by mfgd.check_upgrades
type Upgrade struct {
	FirmwareID  string
	UserMessage string
}

// Status fetches the device's network status report
func (c *Client) Status(ctx context.Context, address string) (Payload, error) {
	return c.Call(ctx, address, ModuleAnet, MethodStatus, Params{})
}

// DeviceName fetches the device's friendly name
func (c *Client) DeviceName(ctx context.Context, address string) (string, error) {
	payload, err := c.Call(ctx, address, ModuleAnet, MethodGetGramofonName, Params{})
	if err != nil {
		return "", err
	}
	return payload.Get("spotifyname").String(), nil
}

// SetDeviceName sets the device's friendly name. The firmware keeps two name
// fields, for mDNS and for Spotify Connect; both are set to the same value.
func (c *Client) SetDeviceName(ctx context.Context, address, name string) error {
	params := Params{}.
		Set("mdnsname", name).
		Set("spotifyname", name)
	_, err := c.Call(ctx, address, ModuleAnet, MethodSetGramofonName, params)
	return err
}

// MAC fetches the device's hardware address
func (c *Client) MAC(ctx context.Context, address string) (string, error) {
	payload, err := c.Call(ctx, address, ModuleMfgd, MethodGetFonMAC, Params{})
	if err != nil {
		return "", err
	}
	return payload.Get("fonmac").String(), nil
}

// ScanNetworks triggers a WiFi scan on the device radio, waits for the scan
// to settle, then fetches the results. The settle delay respects ctx
// cancellation.
func (c *Client) ScanNetworks(ctx context.Context, address string) ([]Network, error) {
	_, err := c.Call(ctx, address, ModuleAnet, MethodSSIDScan, Params{}.Set("iface", "radio"))
	if err != nil {
		return nil, err
	}

	select {
	case <-time.After(c.scanSettle):
	case <-ctx.Done():
		return nil, ClassifyNetworkError(ctx.Err(), address)
	}

	payload, err := c.Call(ctx, address, ModuleAnet, MethodGetSSIDs, Params{})
	if err != nil {
		return nil, err
	}

	var networks []Network
	for _, entry := range payload.Get("results").Array() {
		networks = append(networks, Network{
			SSID:       entry.Get("ssid").String(),
			Quality:    int(entry.Get("quality").Int()),
			QualityMax: int(entry.Get("quality_max").Int()),
			Encryption: entry.Get("encryption").String(),
		})
	}
	return networks, nil
}

// EasySetup performs the combined WiFi+name configuration. The device joins
// the given network in client-clone mode; after ReloadWiFi it drops its
// setup access point and reappears on the target network.
func (c *Client) EasySetup(ctx context.Context, address string, cfg EasySetupConfig) (Payload, error) {
	encryption := cfg.Encryption
	if encryption == "" {
		encryption = "psk2"
	}

	params := Params{}.
		Set("netmode", "wcliclone").
		Set("ssid", cfg.SSID).
		Set("key", cfg.Key).
		Set("encryption", encryption).
		Set("ap_disabled", cfg.DisableAP)
	if cfg.DeviceName != "" {
		params = params.Set("gramofon_name", cfg.DeviceName)
	}

	return c.Call(ctx, address, ModuleAnet, MethodDoEasySetup, params)
}

// Wiface fetches the configuration of the private wireless interface
func (c *Client) Wiface(ctx context.Context, address string) (Payload, error) {
	return c.Call(ctx, address, ModuleWifid, MethodGetWiface, Params{}.Set("name", "private"))
}

// SetWiface applies a raw wireless interface configuration. The accepted
// field set is firmware-defined, so params are passed through open-ended.
func (c *Client) SetWiface(ctx context.Context, address string, params Params) (Payload, error) {
	return c.Call(ctx, address, ModuleWifid, MethodSetWiface, params)
}

// ReloadWiFi applies a pending wireless configuration change
func (c *Client) ReloadWiFi(ctx context.Context, address string) error {
	_, err := c.Call(ctx, address, ModuleWifid, MethodReload, Params{})
	return err
}

// CheckUpgrades asks the device for available firmware images
func (c *Client) CheckUpgrades(ctx context.Context, address string) ([]Upgrade, error) {
	payload, err := c.Call(ctx, address, ModuleMfgd, MethodCheckUpgrades, Params{})
	if err != nil {
		return nil, err
	}

	var upgrades []Upgrade
	for _, entry := range payload.Get("images").Array() {
		upgrades = append(upgrades, Upgrade{
			FirmwareID:  entry.Get("firmware_id").String(),
			UserMessage: entry.Get("user_message").String(),
		})
	}
	return upgrades, nil
}

// UpgradeFirmware starts installation of a firmware image previously offered
// by CheckUpgrades. The device reboots on its own when the upgrade finishes.
func (c *Client) UpgradeFirmware(ctx context.Context, address, firmwareID string) error {
	_, err := c.Call(ctx, address, ModuleMfgd, MethodUpgrade, Params{}.Set("firmware_id", firmwareID))
	return err
}

// Reboot restarts the device
func (c *Client) Reboot(ctx context.Context, address string) error {
	_, err := c.Call(ctx, address, ModuleMfgd, MethodReboot, Params{})
	return err
}

// ResetDefaults performs a factory reset. The operation is exposed here
// without any confirmation step; callers own that decision.
func (c *Client) ResetDefaults(ctx context.Context, address string) error {
	_, err := c.Call(ctx, address, ModuleMfgd, MethodResetDefaults, Params{})
	return err
}

// LED fetches the indicator LED state
func (c *Client) LED(ctx context.Context, address string) (Payload, error) {
	return c.Call(ctx, address, ModuleLedd, MethodLedGet, Params{})
}

// SetLED enables or disables the indicator LED. The switch is idempotent:
// applying the same state twice succeeds both times.
func (c *Client) SetLED(ctx context.Context, address string, enabled bool) error {
	status := LedDisable
	if enabled {
		status = LedEnable
	}
	_, err := c.Call(ctx, address, ModuleLedd, MethodLedSwitch, Params{}.Set("status", status))
	return err
}
