package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const chromeWindowsUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
const safariIPhoneUA = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1"

func TestParseUserAgent_Desktop(t *testing.T) {
	info := ParseUserAgent(chromeWindowsUA)

	assert.Equal(t, "desktop", info.DeviceType)
	assert.Contains(t, info.OS, "Windows")
	assert.Equal(t, "Chrome", info.Browser)
	assert.False(t, info.IsBot)
	assert.Equal(t, chromeWindowsUA, info.Raw)
}

func TestParseUserAgent_Mobile(t *testing.T) {
	info := ParseUserAgent(safariIPhoneUA)

	assert.Equal(t, "mobile", info.DeviceType)
	assert.Contains(t, info.Browser, "Safari")
}

func TestParseUserAgent_Empty(t *testing.T) {
	info := ParseUserAgent("")

	assert.Equal(t, "unknown", info.DeviceType)
	assert.Equal(t, "Unknown", info.OS)
	assert.Equal(t, "Unknown", info.Browser)
}

func TestClientInfo_Describe(t *testing.T) {
	info := ClientInfo{DeviceType: "desktop", OS: "Windows 10", Browser: "Chrome"}
	assert.Equal(t, "desktop/Windows 10/Chrome", info.Describe())

	bot := ClientInfo{DeviceType: "desktop", OS: "Unknown", Browser: "Googlebot", IsBot: true}
	assert.Equal(t, "desktop/Unknown/Googlebot/bot", bot.Describe())
}
