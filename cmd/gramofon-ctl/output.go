package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/luisfcorreia/fon-gramofon-support/internal/batch"
	"github.com/luisfcorreia/fon-gramofon-support/internal/discovery"
	"github.com/luisfcorreia/fon-gramofon-support/internal/gramofon"
)

var (
	successColor = lipgloss.Color("#43BF6D")
	errorColor   = lipgloss.Color("#FF5555")
	mutedColor   = lipgloss.Color("#626262")

	successStyle = lipgloss.NewStyle().Foreground(successColor).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(errorColor).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(mutedColor)
)

func okMark() string   { return successStyle.Render("✓") }
func failMark() string { return errorStyle.Render("✗") }

// printOutcomes lists per-device results, successes first, one line each
func printOutcomes(result batch.Result) {
	addresses := make([]string, 0, len(result))
	for address := range result {
		addresses = append(addresses, address)
	}
	sort.Strings(addresses)

	for _, address := range addresses {
		outcome := result[address]
		if outcome.OK() {
			fmt.Printf("  %s %s\n", okMark(), address)
		} else {
			fmt.Printf("  %s %s  %s\n", failMark(), address,
				mutedStyle.Render(gramofon.ShortErrorMessage(outcome.Err)))
		}
	}

	succeeded := result.Succeeded()
	failed := result.Failed()
	if failed > 0 {
		fmt.Printf("\n%d succeeded, %d failed\n", succeeded, failed)
	}
}

func printDevices(devices []*discovery.Device) {
	fmt.Printf("  %-16s %-24s %s\n", "ADDRESS", "NAME", "MAC")
	for _, device := range devices {
		mac := device.MAC
		if mac == "" {
			mac = mutedStyle.Render("unknown")
		}
		fmt.Printf("  %-16s %-24s %s\n", device.Address, device.Name, mac)
	}
}

func printNetworks(networks []gramofon.Network) {
	fmt.Printf("  %-28s %-10s %s\n", "SSID", "SIGNAL", "ENCRYPTION")
	for _, network := range networks {
		encryption := network.Encryption
		if encryption == "" {
			encryption = mutedStyle.Render("open")
		}
		fmt.Printf("  %-28s %-10s %s\n", network.SSID, signalBar(network.Strength()), encryption)
	}
}

// signalBar renders a 0-100 signal percentage as a five-segment bar
func signalBar(strength int) string {
	if strength < 0 {
		strength = 0
	}
	if strength > 100 {
		strength = 100
	}
	segments := []string{"▁", "▂", "▄", "▆", "█"}
	filled := (strength*5 + 50) / 100
	var b strings.Builder
	for i, segment := range segments {
		if i < filled {
			b.WriteString(segment)
		} else {
			b.WriteString(" ")
		}
	}
	return b.String()
}

// printPayload pretty-prints a device reply as indented JSON
func printPayload(payload gramofon.Payload) error {
	if payload.IsZero() {
		fmt.Println("{}")
		return nil
	}
	var out bytes.Buffer
	if err := json.Indent(&out, []byte(payload.Raw()), "", "  "); err != nil {
		fmt.Println(payload.Raw())
		return nil
	}
	fmt.Println(out.String())
	return nil
}
