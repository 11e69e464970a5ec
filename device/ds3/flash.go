package ds3

// FlashBanks models the controller's two 256-byte emulated non-volatile
// memory banks (bank 0 = "A", bank 1 = "B"). Reads performed through the
// F1 feature report align to 16-byte boundaries and wrap modulo 256;
// writes wrap the same way so a write near the end of a bank can never
// panic regardless of the address the client chose.
type FlashBanks struct {
	banks [2][FlashBankSize]byte
}

// NewFlashBanks returns the banks pre-populated with the factory blob.
// Only the stick-calibration region at A[0x20..0x30) is known byte-exact
// (reproduced from the F1 flash-read round-trip scenario); every other
// documented region (see FlashRegions) is zero-filled, apart from 0x01 at
// A[0] and at A[0x60] (firmware high byte), because no source byte dump
// for it survived distillation. A host that validates the full
// factory blob against real DS3 firmware will reject these placeholder
// regions — see DESIGN.md.
func NewFlashBanks() *FlashBanks {
	fb := &FlashBanks{}
	fb.banks[0] = defaultBankA
	fb.banks[1] = defaultBankB
	return fb
}

// Read16 returns the 16 bytes of bank starting at addr&0xF0, wrapping
// modulo 256.
func (fb *FlashBanks) Read16(bank int, addr byte) [16]byte {
	b := bank & 1
	base := int(addr) & 0xF0
	var out [16]byte
	for i := range out {
		out[i] = fb.banks[b][(base+i)%FlashBankSize]
	}
	return out
}

// ReadAt returns n bytes of bank starting at addr, wrapping modulo 256.
// Used by feature reports that copy a fixed-size region out of a bank at
// an address not aligned to 16 bytes (e.g. 0xEF, 0xF7, 0xF8).
func (fb *FlashBanks) ReadAt(bank int, addr int, n int) []byte {
	b := bank & 1
	out := make([]byte, n)
	for i := range out {
		out[i] = fb.banks[b][(addr+i)%FlashBankSize]
	}
	return out
}

// Write stores data into bank starting at addr, wrapping modulo 256.
func (fb *FlashBanks) Write(bank int, addr byte, data []byte) {
	b := bank & 1
	base := int(addr)
	for i, v := range data {
		fb.banks[b][(base+i)%FlashBankSize] = v
	}
}

// Byte returns a single byte from bank at addr, wrapping modulo 256.
func (fb *FlashBanks) Byte(bank int, addr int) byte {
	b := bank & 1
	return fb.banks[b][addr%FlashBankSize]
}

var defaultBankA = func() [FlashBankSize]byte {
	var b [FlashBankSize]byte
	// Controller ID header A[0..4); firmware low byte lives at A[3].
	b[0], b[1], b[2], b[3] = 0x01, 0x00, 0x00, 0x00
	// Stick calibration A[0x20..0x30) — verbatim factory bytes, taken
	// from the F1 flash-read round-trip scenario.
	copy(b[0x20:0x30], []byte{
		0x01, 0xED, 0x01, 0xF7, 0x01, 0xDE, 0x01, 0xF8,
		0x00, 0x01, 0x01, 0x60, 0x80, 0x20, 0x15, 0x01,
	})
	// Firmware high byte.
	b[0x60] = 0x01
	return b
}()

var defaultBankB = func() [FlashBankSize]byte {
	var b [FlashBankSize]byte
	return b
}()
