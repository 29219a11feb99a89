package edhoc

// Reference vectors for a deterministic handshake run. The scalars and
// the message 1 bytes come from the LoRaWAN join benchmark material.
var (
	testDevEUI = []byte{0x01, 0x01, 0x02, 0x03, 0x02, 0x04, 0x05, 0x07}
	testAppEUI = []byte{0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07}

	testEphI = []byte{
		0xB3, 0x11, 0x19, 0x98, 0xCB, 0x3F, 0x66, 0x86, 0x63, 0xED, 0x42, 0x51,
		0xC7, 0x8B, 0xE6, 0xE9, 0x5A, 0x4D, 0xA1, 0x27, 0xE4, 0xF6, 0xFE, 0xE2,
		0x75, 0xE8, 0x55, 0xD8, 0xD9, 0xDF, 0xD8, 0xED,
	}
	testEphR = []byte{
		0xBD, 0x86, 0xEA, 0xF4, 0x06, 0x5A, 0x83, 0x6C, 0xD2, 0x9D, 0x0F, 0x06,
		0x91, 0xCA, 0x2A, 0x8E, 0xC1, 0x3F, 0x51, 0xD1, 0xC4, 0x5E, 0x1B, 0x43,
		0x72, 0xC0, 0xCB, 0xE4, 0x93, 0xCE, 0xF6, 0xBD,
	}
	testStatI = []byte{
		0xCF, 0xC4, 0xB6, 0xED, 0x22, 0xE7, 0x00, 0xA3, 0x0D, 0x5C, 0x5B, 0xCD,
		0x61, 0xF1, 0xF0, 0x20, 0x49, 0xDE, 0x23, 0x54, 0x62, 0x33, 0x48, 0x93,
		0xD6, 0xFF, 0x9F, 0x0C, 0xFE, 0xA3, 0xFE, 0x04,
	}
	testStatPubI = []byte{
		0x4A, 0x49, 0xD8, 0x8C, 0xD5, 0xD8, 0x41, 0xFA, 0xB7, 0xEF, 0x98, 0x3E,
		0x91, 0x1D, 0x25, 0x78, 0x86, 0x1F, 0x95, 0x88, 0x4F, 0x9F, 0x5D, 0xC4,
		0x2A, 0x2E, 0xED, 0x33, 0xDE, 0x79, 0xED, 0x77,
	}
	testStatR = []byte{
		0x52, 0x8B, 0x49, 0xC6, 0x70, 0xF8, 0xFC, 0x16, 0xA2, 0xAD, 0x95, 0xC1,
		0x88, 0x5B, 0x2E, 0x24, 0xFB, 0x15, 0x76, 0x22, 0x72, 0x79, 0x2A, 0xA1,
		0xCF, 0x05, 0x1D, 0xF5, 0xD9, 0x3D, 0x36, 0x94,
	}
	testStatPubR = []byte{
		0xE6, 0x6F, 0x35, 0x59, 0x90, 0x22, 0x3C, 0x3F, 0x6C, 0xAF, 0xF8, 0x62,
		0xE4, 0x07, 0xED, 0xD1, 0x17, 0x4D, 0x07, 0x01, 0xA0, 0x9E, 0xCD, 0x6A,
		0x15, 0xCE, 0xE2, 0xC6, 0xCE, 0x21, 0xAA, 0x50,
	}
	testKIDI = []byte{0x05}
	testKIDR = []byte{0x10}

	// testMsg1 is the expected wire encoding of message 1 for the
	// vectors above.
	testMsg1 = []byte{
		3, 0, 88, 32, 58, 169, 235, 50, 1, 179, 54, 123, 140, 139, 227, 141,
		145, 229, 122, 43, 67, 62, 103, 136, 140, 134, 210, 172, 0, 106, 82, 8,
		66, 237, 80, 55, 72, 1, 1, 2, 3, 2, 4, 5, 7, 74, 1, 72, 0, 1, 2, 3, 4,
		5, 6, 7,
	}

	// Serialised error sentinels.
	testSuiteErrMsg = []byte{
		0x20, 0x78, 0x18, 0x43, 0x69, 0x70, 0x68, 0x65, 0x72, 0x20, 0x73,
		0x75, 0x69, 0x74, 0x65, 0x20, 0x75, 0x6E, 0x73, 0x75, 0x70, 0x70,
		0x6F, 0x72, 0x74, 0x65, 0x64,
	}
	testCBORErrMsg = []byte{
		0x20, 0x75, 0x45, 0x72, 0x72, 0x6F, 0x72, 0x20, 0x70, 0x72, 0x6F,
		0x63, 0x65, 0x73, 0x73, 0x69, 0x6E, 0x67, 0x20, 0x43, 0x42, 0x4F,
		0x52,
	}
)
