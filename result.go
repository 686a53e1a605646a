package govftp

import "fmt"

// ServerResult is the server-side result code carried in data[0] of a NAK.
type ServerResult uint8

const (
	ServerSuccess             ServerResult = 0
	ServerFail                ServerResult = 1
	ServerFailErrno           ServerResult = 2
	ServerInvalidDataSize     ServerResult = 3
	ServerInvalidSession      ServerResult = 4
	ServerNoSessionsAvailable ServerResult = 5
	ServerEOF                 ServerResult = 6
	ServerUnknownCommand      ServerResult = 7
	ServerFileExists          ServerResult = 8
	ServerFileProtected       ServerResult = 9
	ServerFileDoesNotExist    ServerResult = 10
	ServerTimeout             ServerResult = 200
	ServerFileIOError         ServerResult = 201
)

// errnoENOENT is the errno value for which DecodeNakResult substitutes
// FileDoesNotExist when the server answers FAIL_ERRNO (§4.6.8 special case).
const errnoENOENT = 2

// Result is the client-visible outcome of an operation. Next is not
// terminal: it signals in-progress streaming (e.g. one more chunk written),
// and more callbacks — Next or terminal — always follow.
type Result int

const (
	ResultSuccess Result = iota
	ResultNext
	ResultTimeout
	ResultBusy
	ResultFileIoError
	ResultFileExists
	ResultFileDoesNotExist
	ResultFileProtected
	ResultInvalidParameter
	ResultUnsupported
	ResultProtocolError
	ResultNoSystem
	ResultEOF
	ResultUnknown
)

func (r Result) String() string {
	switch r {
	case ResultSuccess:
		return "Success"
	case ResultNext:
		return "Next"
	case ResultTimeout:
		return "Timeout"
	case ResultBusy:
		return "Busy"
	case ResultFileIoError:
		return "FileIoError"
	case ResultFileExists:
		return "FileExists"
	case ResultFileDoesNotExist:
		return "FileDoesNotExist"
	case ResultFileProtected:
		return "FileProtected"
	case ResultInvalidParameter:
		return "InvalidParameter"
	case ResultUnsupported:
		return "Unsupported"
	case ResultProtocolError:
		return "ProtocolError"
	case ResultNoSystem:
		return "NoSystem"
	case ResultEOF:
		return "EOF"
	default:
		return "Unknown"
	}
}

// translateResult maps a server result code to the client-visible Result,
// per §4.6.8's table. Anything not explicitly listed becomes
// ResultProtocolError.
func translateResult(code ServerResult) Result {
	switch code {
	case ServerSuccess:
		return ResultSuccess
	case ServerTimeout:
		return ResultTimeout
	case ServerFileIOError:
		return ResultFileIoError
	case ServerFileExists:
		return ResultFileExists
	case ServerFileProtected:
		return ResultFileProtected
	case ServerUnknownCommand:
		return ResultUnsupported
	case ServerFileDoesNotExist:
		return ResultFileDoesNotExist
	case ServerEOF:
		return ResultEOF
	default:
		return ResultProtocolError
	}
}

// DecodeNakResult extracts the server result code from a NAK's data,
// applying the FAIL_ERRNO/ENOENT substitution from §4.6.8 before
// translation.
func DecodeNakResult(data []byte) Result {
	if len(data) == 0 {
		return ResultProtocolError
	}
	code := ServerResult(data[0])
	if code == ServerFailErrno && len(data) > 1 && data[1] == errnoENOENT {
		code = ServerFileDoesNotExist
	}
	return translateResult(code)
}

// ProtocolError wraps an unrecognized server result code so callers can
// still inspect the raw value that produced ResultProtocolError.
type ProtocolError struct {
	Code ServerResult
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("ftp: unrecognized server result code %d", uint8(e.Code))
}

// OperationError wraps a terminal, non-success Result so blocking callers
// get an idiomatic error return instead of having to inspect a Result value.
type OperationError struct {
	Result Result
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("ftp: %s", e.Result)
}
