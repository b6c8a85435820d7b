package cpu

// base memory layout on the N64's physical map
// http://n64dev.org/n64man/memory.html
const (
	// RDRAM sizes
	RDRAM_SIZE          = 0x400000
	RDRAM_SIZE_EXPANDED = 0x800000

	// cartridge domain 1 address 2, where PI DMA reads ROM from
	CART_BASE = 0x10000000

	// mask applied to KSEG0/KSEG1 addresses to get a physical address
	PHYS_MASK = 0x1fffffff
)

// these masks select the unmapped kernel segments
const (
	KSEG_MASK  = 0xc0000000
	KSEG0_BASE = 0x80000000
)

// controller button bits, in the order of the BUTTONS struct the input plugin fills
const (
	R_DPAD = 1 << iota
	L_DPAD
	D_DPAD
	U_DPAD
	START_BUTTON
	Z_TRIG
	B_BUTTON
	A_BUTTON
	R_CBUTTON
	L_CBUTTON
	D_CBUTTON
	U_CBUTTON
	R_TRIG
	L_TRIG
)

// ButtonNames lists the button bits by bit index.
var ButtonNames = []string{
	"R_DPAD", "L_DPAD", "D_DPAD", "U_DPAD",
	"START_BUTTON", "Z_TRIG", "B_BUTTON", "A_BUTTON",
	"R_CBUTTON", "L_CBUTTON", "D_CBUTTON", "U_CBUTTON",
	"R_TRIG", "L_TRIG",
}
