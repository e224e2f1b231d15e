package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/luisfcorreia/fon-gramofon-support/internal/batch"
	"github.com/luisfcorreia/fon-gramofon-support/internal/config"
	"github.com/luisfcorreia/fon-gramofon-support/internal/discovery"
	"github.com/luisfcorreia/fon-gramofon-support/internal/gramofon"
	"github.com/luisfcorreia/fon-gramofon-support/internal/registry"
)

// setupAddress is where a factory-fresh device answers while you are
// connected to its "Gramofon Configuration" setup network
const setupAddress = "192.168.10.1"

// Shared command flags
var (
	deviceIP       string
	allDevices     bool
	timeoutSeconds int
	bookPath       string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&deviceIP, "device", "", "Device IP address")
	rootCmd.PersistentFlags().BoolVar(&allDevices, "all", false, "Target every known device from the address book")
	rootCmd.PersistentFlags().IntVar(&timeoutSeconds, "timeout", 10, "Per-call timeout in seconds")
	rootCmd.PersistentFlags().StringVar(&bookPath, "book", "", "Address book file (default: per-user config dir)")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(nameCmd)
	rootCmd.AddCommand(wifiCmd)
	rootCmd.AddCommand(setupCmd)
	rootCmd.AddCommand(ledCmd)
	rootCmd.AddCommand(systemCmd)
	rootCmd.AddCommand(upgradeCmd)
}

// newClient builds the shared RPC client from the common flags
func newClient() *gramofon.Client {
	client := gramofon.NewDefaultClient()
	if timeoutSeconds > 0 {
		client.SetTimeout(time.Duration(timeoutSeconds) * time.Second)
	}
	return client
}

// requireDevice resolves the single explicit target for non-batch commands
func requireDevice() (string, error) {
	if deviceIP == "" {
		return "", fmt.Errorf("this command needs a target: use --device <ip>")
	}
	return deviceIP, nil
}

// resolveTargets resolves the target set for batch-capable commands: one
// explicit address, or every address-book device that answers a fresh probe.
func resolveTargets(ctx context.Context, client *gramofon.Client) ([]string, error) {
	if deviceIP != "" {
		return []string{deviceIP}, nil
	}
	if !allDevices {
		return nil, fmt.Errorf("specify a target: --device <ip> or --all")
	}

	book, err := config.Load(bookPath)
	if err != nil {
		return nil, err
	}
	candidates := book.KnownAddresses()
	if len(candidates) == 0 {
		return nil, fmt.Errorf("address book is empty: run 'gramofon-ctl scan' first")
	}

	// Re-verify the cached addresses; only devices that answer right now
	// become targets.
	reg := registry.New()
	scanner := discovery.NewScanner(client)
	scanner.ScanInto(ctx, candidates, reg)

	targets := reg.Addresses()
	if len(targets) == 0 {
		return nil, fmt.Errorf("none of the %d known devices answered: run 'gramofon-ctl scan'", len(candidates))
	}
	return targets, nil
}

// runOperation fans module.method out over the resolved targets and reports
// per-device outcomes. The command fails when a single target fails, or when
// every target of a wider batch failed.
func runOperation(ctx context.Context, client *gramofon.Client, module, method string, params gramofon.Params) error {
	targets, err := resolveTargets(ctx, client)
	if err != nil {
		return err
	}

	executor := batch.NewExecutor(client)
	result := executor.Apply(ctx, targets, module, method, params)
	printOutcomes(result)
	return result.Err()
}

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan the local network for Gramofon devices",
	Long: `Probe an address range for Gramofon devices.

Every address in the range is probed with a login attempt using the
firmware's fixed credentials; addresses that authenticate and identify
themselves are listed and recorded in the address book for later --all
operations. Addresses that do not answer are skipped silently.`,
	Example: `  # Scan the auto-detected local /24
  gramofon-ctl scan

  # Scan an explicit range
  gramofon-ctl scan --network 192.168.1.0/24
  gramofon-ctl scan --network 192.168.1.10-60

  # Faster sweep on a quiet network
  gramofon-ctl scan --concurrency 100 --probe-timeout 1`,
	RunE: runScan,
}

var (
	scanNetwork     string
	scanConcurrency int
	probeTimeout    int
	scanNoSave      bool
)

func init() {
	scanCmd.Flags().StringVar(&scanNetwork, "network", "", "Network to scan (CIDR, single IP, or a.b.c.x-y; default: auto-detect local /24)")
	scanCmd.Flags().IntVar(&scanConcurrency, "concurrency", discovery.DefaultConcurrency, "Probe worker pool size")
	scanCmd.Flags().IntVar(&probeTimeout, "probe-timeout", 2, "Per-address probe timeout in seconds")
	scanCmd.Flags().BoolVar(&scanNoSave, "no-save", false, "Do not update the address book")
}

func runScan(cmd *cobra.Command, args []string) error {
	network := scanNetwork
	if network == "" {
		detected, err := discovery.DetectSubnet()
		if err != nil {
			return fmt.Errorf("could not auto-detect network (%w): use --network", err)
		}
		network = detected
	}

	hosts, err := discovery.Hosts(network)
	if err != nil {
		return err
	}

	client := newClient()
	scanner := discovery.NewScanner(client)
	scanner.Concurrency = scanConcurrency
	scanner.PerHostTimeout = time.Duration(probeTimeout) * time.Second

	fmt.Printf("Scanning %s (%d addresses)...\n\n", network, len(hosts))

	reg := registry.New()
	for device := range scanner.Scan(cmd.Context(), hosts) {
		reg.Upsert(device)
		fmt.Printf("  %s found %s\n", okMark(), device)
	}

	devices := reg.List()
	if len(devices) == 0 {
		fmt.Println("No Gramofon devices found.")
		fmt.Println("\nTroubleshooting:")
		fmt.Println("  - Ensure devices are powered on and connected to your WiFi")
		fmt.Println("  - Check that you're on the same network segment")
		fmt.Println("  - Try a wider range with --network")
		return nil
	}

	fmt.Printf("\nFound %d device(s):\n\n", len(devices))
	printDevices(devices)

	if scanNoSave {
		return nil
	}
	book, err := config.Load(bookPath)
	if err != nil {
		return err
	}
	for _, device := range devices {
		book.Record(device.MAC, device.Name, device.Address, device.LastSeen)
	}
	if err := book.Save(bookPath); err != nil {
		return fmt.Errorf("scan succeeded but saving the address book failed: %w", err)
	}
	return nil
}

var statusCmd = &cobra.Command{
	Use:     "status",
	Short:   "Show device network status",
	Example: `  gramofon-ctl status --device 192.168.1.50`,
	RunE: func(cmd *cobra.Command, args []string) error {
		address, err := requireDevice()
		if err != nil {
			return err
		}
		client := newClient()
		payload, err := client.Status(cmd.Context(), address)
		if err != nil {
			return err
		}
		return printPayload(payload)
	},
}

var infoCmd = &cobra.Command{
	Use:     "info",
	Short:   "Show device name, MAC and address",
	Example: `  gramofon-ctl info --device 192.168.1.50`,
	RunE: func(cmd *cobra.Command, args []string) error {
		address, err := requireDevice()
		if err != nil {
			return err
		}
		client := newClient()
		ctx := cmd.Context()

		name, err := client.DeviceName(ctx, address)
		if err != nil {
			return err
		}
		mac, err := client.MAC(ctx, address)
		if err != nil {
			mac = "unknown"
		}

		fmt.Printf("Name:    %s\n", name)
		fmt.Printf("MAC:     %s\n", mac)
		fmt.Printf("Address: %s\n", address)
		return nil
	},
}

var nameCmd = &cobra.Command{
	Use:   "name [NEW_NAME]",
	Short: "Get or set the device's friendly name",
	Long: `Without an argument, prints the device's current friendly name.
With an argument, renames the device (both its mDNS and Spotify Connect
names are set).`,
	Example: `  gramofon-ctl name --device 192.168.1.50
  gramofon-ctl name "Living Room" --device 192.168.1.50`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newClient()
		ctx := cmd.Context()

		if len(args) == 0 {
			address, err := requireDevice()
			if err != nil {
				return err
			}
			name, err := client.DeviceName(ctx, address)
			if err != nil {
				return err
			}
			fmt.Printf("Device name: %s\n", name)
			return nil
		}

		params := gramofon.Params{}.
			Set("mdnsname", args[0]).
			Set("spotifyname", args[0])
		return runOperation(ctx, client, gramofon.ModuleAnet, gramofon.MethodSetGramofonName, params)
	},
}

var wifiCmd = &cobra.Command{
	Use:   "wifi",
	Short: "WiFi operations",
}

var wifiScanCmd = &cobra.Command{
	Use:     "scan",
	Short:   "Ask the device to scan for nearby WiFi networks",
	Example: `  gramofon-ctl wifi scan --device 192.168.10.1`,
	RunE: func(cmd *cobra.Command, args []string) error {
		address, err := requireDevice()
		if err != nil {
			return err
		}
		client := newClient()
		fmt.Println("Scanning for WiFi networks...")
		networks, err := client.ScanNetworks(cmd.Context(), address)
		if err != nil {
			return err
		}
		fmt.Printf("\nFound %d network(s):\n\n", len(networks))
		printNetworks(networks)
		return nil
	},
}

var wifiShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the device's wireless interface configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		address, err := requireDevice()
		if err != nil {
			return err
		}
		client := newClient()
		payload, err := client.Wiface(cmd.Context(), address)
		if err != nil {
			return err
		}
		return printPayload(payload)
	},
}

var wifiSetCmd = &cobra.Command{
	Use:   "set <PARAMS_JSON>",
	Short: "Apply a raw wireless interface configuration",
	Long: `Pass a JSON object straight through to wifid.set_wiface. The accepted
fields are defined by the firmware; unknown fields are forwarded untouched.
Follow with 'wifi reload' to apply.`,
	Example: `  gramofon-ctl wifi set '{"name":"private","disabled":false}' --device 192.168.1.50`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		params := gramofon.ParamsFromJSON(args[0])
		if err := params.Err(); err != nil {
			return fmt.Errorf("invalid params: %w", err)
		}
		client := newClient()
		return runOperation(cmd.Context(), client, gramofon.ModuleWifid, gramofon.MethodSetWiface, params)
	},
}

var wifiReloadCmd = &cobra.Command{
	Use:   "reload",
	Short: "Apply pending wireless configuration changes",
	Example: `  gramofon-ctl wifi reload --device 192.168.1.50
  gramofon-ctl wifi reload --all`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newClient()
		return runOperation(cmd.Context(), client, gramofon.ModuleWifid, gramofon.MethodReload, gramofon.Params{})
	},
}

func init() {
	wifiCmd.AddCommand(wifiScanCmd)
	wifiCmd.AddCommand(wifiShowCmd)
	wifiCmd.AddCommand(wifiSetCmd)
	wifiCmd.AddCommand(wifiReloadCmd)
}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Initial WiFi setup for a factory-fresh device",
	Long: `Configure a device's WiFi using the combined easy-setup call.

Connect to the device's "Gramofon Configuration" network first; a fresh
device answers at ` + setupAddress + `. After setup the device joins your
network and its setup network disappears; find its new address with
'gramofon-ctl scan'.`,
	Example: `  gramofon-ctl setup --ssid "Home WiFi" --name "Living Room"
  gramofon-ctl setup --ssid "Home WiFi" --key secret123 --encryption psk2`,
	RunE: runSetup,
}

var (
	setupSSID       string
	setupKey        string
	setupEncryption string
	setupName       string
	setupDisableAP  bool
)

func init() {
	setupCmd.Flags().StringVar(&setupSSID, "ssid", "", "WiFi network name (required)")
	setupCmd.Flags().StringVar(&setupKey, "key", "", "WiFi passphrase (prompted when omitted)")
	setupCmd.Flags().StringVar(&setupEncryption, "encryption", "psk2", "Encryption mode (psk2, psk, none)")
	setupCmd.Flags().StringVar(&setupName, "name", "", "Friendly device name")
	setupCmd.Flags().BoolVar(&setupDisableAP, "disable-ap", false, "Disable the device's own setup access point")
	_ = setupCmd.MarkFlagRequired("ssid")
}

func runSetup(cmd *cobra.Command, args []string) error {
	address := deviceIP
	if address == "" {
		address = setupAddress
	}

	key := setupKey
	if key == "" && setupEncryption != "none" {
		entered, err := promptSecret(fmt.Sprintf("Passphrase for %q: ", setupSSID))
		if err != nil {
			return err
		}
		key = entered
	}

	client := newClient()
	ctx := cmd.Context()

	fmt.Printf("Configuring %s to join %q...\n", address, setupSSID)
	_, err := client.EasySetup(ctx, address, gramofon.EasySetupConfig{
		SSID:       setupSSID,
		Key:        key,
		Encryption: setupEncryption,
		DeviceName: setupName,
		DisableAP:  setupDisableAP,
	})
	if err != nil {
		return err
	}

	fmt.Println("Applying configuration...")
	if err := client.ReloadWiFi(ctx, address); err != nil {
		// The reload drops the setup network, which can kill the
		// connection before the response arrives.
		if !gramofon.IsUnreachable(err) {
			return err
		}
	}

	fmt.Printf("%s Setup complete.\n\n", okMark())
	fmt.Println("The device will join your network within a minute; find its new")
	fmt.Println("address with 'gramofon-ctl scan'.")
	return nil
}

// promptSecret reads a line from the terminal without echoing it
func promptSecret(prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("no terminal for passphrase prompt: pass --key")
	}
	fmt.Print(prompt)
	secret, err := term.ReadPassword(fd)
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read passphrase: %w", err)
	}
	return string(secret), nil
}

var ledCmd = &cobra.Command{
	Use:   "led",
	Short: "Indicator LED control",
}

var ledGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show the LED state",
	RunE: func(cmd *cobra.Command, args []string) error {
		address, err := requireDevice()
		if err != nil {
			return err
		}
		client := newClient()
		payload, err := client.LED(cmd.Context(), address)
		if err != nil {
			return err
		}
		return printPayload(payload)
	},
}

var ledOnCmd = &cobra.Command{
	Use:   "on",
	Short: "Turn the LED on",
	Example: `  gramofon-ctl led on --device 192.168.1.50
  gramofon-ctl led on --all`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newClient()
		params := gramofon.Params{}.Set("status", gramofon.LedEnable)
		return runOperation(cmd.Context(), client, gramofon.ModuleLedd, gramofon.MethodLedSwitch, params)
	},
}

var ledOffCmd = &cobra.Command{
	Use:   "off",
	Short: "Turn the LED off",
	Example: `  gramofon-ctl led off --device 192.168.1.50
  gramofon-ctl led off --all`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newClient()
		params := gramofon.Params{}.Set("status", gramofon.LedDisable)
		return runOperation(cmd.Context(), client, gramofon.ModuleLedd, gramofon.MethodLedSwitch, params)
	},
}

func init() {
	ledCmd.AddCommand(ledGetCmd)
	ledCmd.AddCommand(ledOnCmd)
	ledCmd.AddCommand(ledOffCmd)
}

var systemCmd = &cobra.Command{
	Use:   "system",
	Short: "System control (reboot, factory reset)",
}

var systemRebootCmd = &cobra.Command{
	Use:   "reboot",
	Short: "Reboot the device",
	Example: `  gramofon-ctl system reboot --device 192.168.1.50
  gramofon-ctl system reboot --all`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newClient()
		return runOperation(cmd.Context(), client, gramofon.ModuleMfgd, gramofon.MethodReboot, gramofon.Params{})
	},
}

var resetConfirmed bool

var systemResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Factory-reset the device",
	Long: `Reset the device to factory defaults. This wipes the WiFi configuration
and device name; the device reverts to its setup network. Requires --yes.`,
	Example: `  gramofon-ctl system reset --device 192.168.1.50 --yes`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !resetConfirmed {
			return fmt.Errorf("factory reset wipes all device configuration: re-run with --yes to confirm")
		}
		client := newClient()
		return runOperation(cmd.Context(), client, gramofon.ModuleMfgd, gramofon.MethodResetDefaults, gramofon.Params{})
	},
}

func init() {
	systemResetCmd.Flags().BoolVar(&resetConfirmed, "yes", false, "Confirm the factory reset")
	systemCmd.AddCommand(systemRebootCmd)
	systemCmd.AddCommand(systemResetCmd)
}

var upgradeCmd = &cobra.Command{
	Use:   "upgrade",
	Short: "Firmware upgrade operations",
}

var upgradeCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Check for available firmware upgrades",
	RunE: func(cmd *cobra.Command, args []string) error {
		address, err := requireDevice()
		if err != nil {
			return err
		}
		client := newClient()
		upgrades, err := client.CheckUpgrades(cmd.Context(), address)
		if err != nil {
			return err
		}
		if len(upgrades) == 0 {
			fmt.Println("No upgrades available.")
			return nil
		}
		fmt.Println("Available upgrades:")
		for _, u := range upgrades {
			fmt.Printf("  - %s: %s\n", u.FirmwareID, u.UserMessage)
		}
		return nil
	},
}

var upgradeApplyCmd = &cobra.Command{
	Use:   "apply <FIRMWARE_ID>",
	Short: "Install a firmware image offered by 'upgrade check'",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		address, err := requireDevice()
		if err != nil {
			return err
		}
		client := newClient()
		if err := client.UpgradeFirmware(cmd.Context(), address, args[0]); err != nil {
			return err
		}
		fmt.Printf("%s Upgrade started; the device reboots when it finishes.\n", okMark())
		return nil
	},
}

func init() {
	upgradeCmd.AddCommand(upgradeCheckCmd)
	upgradeCmd.AddCommand(upgradeApplyCmd)
}
