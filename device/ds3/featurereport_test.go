package ds3_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ds3gadget/ds3bridge/device/ds3"
)

func allFeatureIDs() []byte {
	return []byte{
		ds3.FeatureControllerInfo,
		ds3.FeatureFlashAccess,
		ds3.FeatureDeviceInfo,
		ds3.FeaturePairingInfo,
		ds3.FeatureExtSensorConfig,
		ds3.FeatureSensorConfig,
		ds3.FeatureSensorStatus,
	}
}

func TestGetFeatureReportAlwaysReturns64Bytes(t *testing.T) {
	for _, id := range allFeatureIDs() {
		f := ds3.NewFeatureState()
		r, err := f.GetFeatureReport(id)
		require.NoError(t, err, "id 0x%02X", id)
		assert.Len(t, r, ds3.FeatureReportSize, "id 0x%02X", id)
	}
}

func TestGetFeatureReportUnknownID(t *testing.T) {
	f := ds3.NewFeatureState()
	_, err := f.GetFeatureReport(0x99)
	require.Error(t, err)
	var dsErr *ds3.Error
	require.ErrorAs(t, err, &dsErr)
	assert.Equal(t, ds3.ProtocolError, dsErr.Kind)
}

// Scenario 2: F1 flash read. The source documents the header as
// 0x57,0x0B,... but writes 0x01 at index 1; this implementation follows
// what the source actually writes, per the open question in DESIGN.md.
func TestF1FlashReadScenario(t *testing.T) {
	f := ds3.NewFeatureState()
	require.NoError(t, f.SetFeatureReport(ds3.FeatureFlashAccess, []byte{0x00, 0x0B, 0xFF, 0xFF, 0x00, 0x20, 0xFF}))

	r, err := f.GetFeatureReport(ds3.FeatureFlashAccess)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x57, 0x01, 0xFF, 0xFF, 0x10}, r[0:5])
	assert.Equal(t, []byte{
		0x01, 0xED, 0x01, 0xF7, 0x01, 0xDE, 0x01, 0xF8,
		0x00, 0x01, 0x01, 0x60, 0x80, 0x20, 0x15, 0x01,
	}, r[5:21])
}

func TestF1WriteRoundTrip(t *testing.T) {
	f := ds3.NewFeatureState()
	payload := []byte{0x20, 0x0A, 0x00, 0x00, 0x00, 0x00, 0x00, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}

	require.NoError(t, f.SetFeatureReport(ds3.FeatureFlashAccess, []byte{0x00, 0x0B, 0xFF, 0xFF, 0x00, 0x40, 0xFF}))
	require.NoError(t, f.SetFeatureReport(ds3.FeatureFlashAccess, payload))

	r, err := f.GetFeatureReport(ds3.FeatureFlashAccess)
	require.NoError(t, err)
	assert.Equal(t, payload[7:23], r[5:21])
}

func TestF1UnknownSubCommand(t *testing.T) {
	f := ds3.NewFeatureState()
	err := f.SetFeatureReport(ds3.FeatureFlashAccess, []byte{0x00, 0xFE})
	require.Error(t, err)
	var dsErr *ds3.Error
	require.ErrorAs(t, err, &dsErr)
	assert.Equal(t, ds3.ProtocolError, dsErr.Kind)
}

// Scenario 3: F4 enable streaming.
func TestF4EnableStreaming(t *testing.T) {
	f := ds3.NewFeatureState()
	assert.False(t, f.InputStreamingEnabled())
	require.NoError(t, f.ControlSetReport([]byte{0x42, 0x02}))
	assert.True(t, f.InputStreamingEnabled())
}

func TestF4SubCommands(t *testing.T) {
	cases := []struct {
		name     string
		sub      byte
		wantOn   bool
		wantLow  byte
		doReset  bool
	}{
		{"disable", 0x01, false, 0x00, false},
		{"enable", 0x02, true, 0x01, false},
		{"motion", 0x03, false, 0x03, false},
		{"restart", 0x04, false, 0x00, true},
		{"shutdown", 0x0B, false, 0x00, true},
		{"startup", 0x0C, true, 0x01, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := ds3.NewFeatureState()
			f.FlashBank = 1
			f.FlashAddr = 0x40
			require.NoError(t, f.ControlSetReport([]byte{0x42, tc.sub}))
			assert.Equal(t, tc.wantOn, f.InputStreamingEnabled())
			if tc.doReset {
				assert.Equal(t, 0, f.FlashBank)
				assert.Equal(t, byte(0), f.FlashAddr)
			}
		})
	}
}

func TestF4UnknownSubCommand(t *testing.T) {
	f := ds3.NewFeatureState()
	err := f.ControlSetReport([]byte{0x42, 0xAA})
	require.Error(t, err)
	var dsErr *ds3.Error
	require.ErrorAs(t, err, &dsErr)
	assert.Equal(t, ds3.ProtocolError, dsErr.Kind)
}

// Scenario 4: F5 re-pairing.
func TestF5PairingRoundTrip(t *testing.T) {
	f := ds3.NewFeatureState()
	require.NoError(t, f.SetFeatureReport(ds3.FeaturePairingInfo, []byte{0x01, 0x00, 0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF}))

	r, err := f.GetFeatureReport(ds3.FeaturePairingInfo)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF}, r[2:8])
}

func TestEFSensorConfigRoundTrip(t *testing.T) {
	f := ds3.NewFeatureState()
	require.NoError(t, f.SetFeatureReport(ds3.FeatureExtSensorConfig, []byte{0x00, 0x00, 0x00, 0x00, 0x11, 0x22, 0x33, 0x44}))

	r, err := f.GetFeatureReport(ds3.FeatureExtSensorConfig)
	require.NoError(t, err)
	assert.Equal(t, byte(0xEF), r[1])
	assert.Equal(t, []byte{0x11, 0x22, 0x33, 0x44}, r[5:9])
	assert.Equal(t, byte(0x05), r[0x30])
}
