package paw3222

// Register map.
const (
	RegProductID1    = 0x00
	RegProductID2    = 0x01
	RegMotion        = 0x02
	RegDeltaX        = 0x03
	RegDeltaY        = 0x04
	RegOperationMode = 0x05
	RegConfiguration = 0x06
	RegWriteProtect  = 0x09
	RegSleep1        = 0x0a
	RegSleep2        = 0x0b
	RegSleep3        = 0x0c
	RegCPIX          = 0x0d
	RegCPIY          = 0x0e
)

const (
	ProductID = 0x30

	// WriteBit is set on the address byte of a register write.
	WriteBit = 0x80

	MotionDataReady = 0x80

	opModeSleep1 = 0x10
	opModeSleep2 = 0x08
	opModeSleep  = opModeSleep1 | opModeSleep2

	configPowerDown = 0x08
	configReset     = 0x80

	writeProtectEnable  = 0x00
	writeProtectDisable = 0x5a
)

// CPI limits. The CPI registers hold the resolution in CPIStep units.
const (
	CPIStep = 38
	CPIMin  = 16 * CPIStep
	CPIMax  = 127 * CPIStep
)
