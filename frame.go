package govftp

import (
	"encoding/binary"
	"fmt"
)

// MaxDataLength is the largest number of inline data bytes a single frame
// can carry (MAVSDK's MAX_DATA_LENGTH). The wire frame is always this many
// data bytes plus a 12-byte header, for a fixed total of 251 bytes.
const MaxDataLength = 239

// HeaderSize is the fixed byte width of everything in [PayloadHeader]
// before the data slice.
const HeaderSize = 12

// FrameSize is the total wire size of an encoded [PayloadHeader]: the
// header plus MaxDataLength data bytes, matching the outer carrier
// message's opaque payload width.
const FrameSize = HeaderSize + MaxDataLength

// Opcode identifies the operation requested by a client-to-server frame,
// or RSP_ACK/RSP_NAK on a server-to-client frame.
type Opcode uint8

const (
	OpNone             Opcode = 0
	OpTerminateSession Opcode = 1
	OpResetSessions    Opcode = 2
	OpListDirectory    Opcode = 3
	OpOpenFileRO       Opcode = 4
	OpReadFile         Opcode = 5
	OpCreateFile       Opcode = 6
	OpWriteFile        Opcode = 7
	OpRemoveFile       Opcode = 8
	OpCreateDirectory  Opcode = 9
	OpRemoveDirectory  Opcode = 10
	OpOpenFileWO       Opcode = 11
	OpTruncateFile     Opcode = 12
	OpRename           Opcode = 13
	OpCalcFileCRC32    Opcode = 14
	OpBurstReadFile    Opcode = 15
	OpAck              Opcode = 128
	OpNak              Opcode = 129
)

func (op Opcode) String() string {
	if s, ok := opcodeNames[op]; ok {
		return s
	}
	return fmt.Sprintf("Opcode(%d)", uint8(op))
}

var opcodeNames = map[Opcode]string{
	OpNone:             "NONE",
	OpTerminateSession: "TERMINATE_SESSION",
	OpResetSessions:    "RESET_SESSIONS",
	OpListDirectory:    "LIST_DIRECTORY",
	OpOpenFileRO:       "OPEN_FILE_RO",
	OpReadFile:         "READ_FILE",
	OpCreateFile:       "CREATE_FILE",
	OpWriteFile:        "WRITE_FILE",
	OpRemoveFile:       "REMOVE_FILE",
	OpCreateDirectory:  "CREATE_DIRECTORY",
	OpRemoveDirectory:  "REMOVE_DIRECTORY",
	OpOpenFileWO:       "OPEN_FILE_WO",
	OpTruncateFile:     "TRUNCATE_FILE",
	OpRename:           "RENAME",
	OpCalcFileCRC32:    "CALC_FILE_CRC32",
	OpBurstReadFile:    "BURST_READ_FILE",
	OpAck:              "RSP_ACK",
	OpNak:              "RSP_NAK",
}

// PayloadHeader is the fixed-layout, little-endian FTP frame carried inside
// the outer carrier message's opaque payload.
type PayloadHeader struct {
	SeqNumber      uint16
	Session        uint8
	Opcode         Opcode
	Size           uint8
	ReqOpcode      Opcode
	BurstComplete  uint8
	padding        uint8
	Offset         uint32
	Data           [MaxDataLength]byte
}

// MarshalBinary encodes the header into a fixed FrameSize-byte buffer by
// direct structural layout. It never fails.
func (h *PayloadHeader) MarshalBinary() ([]byte, error) {
	buf := make([]byte, FrameSize)
	binary.LittleEndian.PutUint16(buf[0:2], h.SeqNumber)
	buf[2] = h.Session
	buf[3] = uint8(h.Opcode)
	buf[4] = h.Size
	buf[5] = uint8(h.ReqOpcode)
	buf[6] = h.BurstComplete
	buf[7] = h.padding
	binary.LittleEndian.PutUint32(buf[8:12], h.Offset)
	copy(buf[HeaderSize:], h.Data[:])
	return buf, nil
}

// ErrFrameTooShort is returned by UnmarshalBinary when buf is shorter than
// the fixed header width.
var ErrFrameTooShort = fmt.Errorf("ftp: frame shorter than header (%d bytes)", HeaderSize)

// ErrDataSizeExceeded is returned when an inbound frame declares more data
// bytes than MaxDataLength allows. Per the protocol this frame must be
// rejected, silently, by the caller (with a warning logged) rather than
// surfaced as a protocol error to the in-flight work item.
var ErrDataSizeExceeded = fmt.Errorf("ftp: frame size field exceeds MaxDataLength (%d)", MaxDataLength)

// UnmarshalBinary decodes buf into the header. It performs no validation of
// opcode, session or target routing — only structural decoding and the
// size bound are checked here; the rest is C6's policy.
func (h *PayloadHeader) UnmarshalBinary(buf []byte) error {
	if len(buf) < HeaderSize {
		return ErrFrameTooShort
	}
	h.SeqNumber = binary.LittleEndian.Uint16(buf[0:2])
	h.Session = buf[2]
	h.Opcode = Opcode(buf[3])
	h.Size = buf[4]
	h.ReqOpcode = Opcode(buf[5])
	h.BurstComplete = buf[6]
	h.padding = buf[7]
	h.Offset = binary.LittleEndian.Uint32(buf[8:12])
	if h.Size > MaxDataLength {
		return ErrDataSizeExceeded
	}
	n := copy(h.Data[:], buf[HeaderSize:])
	for i := n; i < MaxDataLength; i++ {
		h.Data[i] = 0
	}
	return nil
}

// putPath encodes a null-terminated path into h.Data and sets h.Size
// accordingly; putPathPair does the same for a from\0to\0 pair. Both report
// false if the encoded form, including its terminator(s), would not fit in
// MaxDataLength.
func (h *PayloadHeader) putPath(path string) bool {
	if len(path)+1 > MaxDataLength {
		return false
	}
	n := copy(h.Data[:], path)
	h.Data[n] = 0
	h.Size = uint8(n + 1)
	return true
}

func (h *PayloadHeader) putPathPair(from, to string) bool {
	total := len(from) + 1 + len(to) + 1
	if total > MaxDataLength {
		return false
	}
	n := copy(h.Data[:], from)
	h.Data[n] = 0
	n++
	n += copy(h.Data[n:], to)
	h.Data[n] = 0
	h.Size = uint8(n + 1)
	return true
}
