package bsa

// tes3File is Morrowind's payload: a single uncompressed blob. TES3
// predates BSA compression entirely, so Compress/Decompress on a TES3
// File are no-ops (spec §4.2 "TES3: raw bytes, no compression").
type tes3File struct {
	data []byte
}
