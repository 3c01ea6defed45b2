package tiffio

// A tiff file holds one or more images, each described by an Image File
// Directory (IFD). An IFD is a list of 12 byte entries:
//
//  - a tag, which says what the entry means,
//  - the data type and count of the entry,
//  - the data itself, or an offset to it if it won't fit in 4 bytes.
//
// A hyperspectral cube is either one IFD per channel (multi-page), or one
// IFD whose pixels carry one sample per channel (interleaved).

const (
	leHeader = "II\x2A\x00" // Header for little-endian files.
	beHeader = "MM\x00\x2A" // Header for big-endian files.

	ifdLen = 12 // Length of an IFD entry in bytes.

	maxDirectories = 1 << 16 // Stop walking the IFD chain after this many.
)

// Data types (TIFF 6.0, p. 14-16).
const (
	dtByte      = 1
	dtASCII     = 2
	dtShort     = 3
	dtLong      = 4
	dtRational  = 5
	dtSByte     = 6
	dtUndefined = 7
	dtSShort    = 8
	dtSLong     = 9
	dtSRational = 10
	dtFloat     = 11
	dtDouble    = 12
)

// The length of one instance of each data type in bytes.
var lengths = [...]uint32{0, 1, 1, 2, 4, 8, 1, 1, 2, 4, 8, 4, 8}

// Tags (TIFF 6.0, p. 28-41).
const (
	tImageWidth                = 256
	tImageLength               = 257
	tBitsPerSample             = 258
	tCompression               = 259
	tPhotometricInterpretation = 262

	tStripOffsets    = 273
	tSamplesPerPixel = 277
	tRowsPerStrip    = 278
	tStripByteCounts = 279

	tPlanarConfiguration = 284

	tPredictor    = 317
	tTileWidth    = 322
	tExtraSamples = 338
	tSampleFormat = 339
)

// Compression types.
const (
	cNone       = 1
	cLZW        = 5
	cDeflate    = 8 // zlib compression.
	cPackBits   = 32773
	cDeflateOld = 32946 // Superseded by cDeflate.
)

// Photometric interpretation values (TIFF 6.0, p. 37).
const (
	pBlackIsZero = 1
	pRGB         = 2
)

// Values for the tPredictor tag (TIFF 6.0, p. 64-65).
const (
	prNone       = 1
	prHorizontal = 2
)

// Values for the tPlanarConfiguration tag.
const (
	pcChunky = 1
	pcPlanar = 2
)

// Values for the tSampleFormat tag.
const (
	sfUint = 1
)
