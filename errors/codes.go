package errors

import "strconv"

// ERR is the numeric code carried by every *Error.
type ERR int32

const (
	ERR_UNKNOWN             ERR = 0
	ERR_INVALID_ARGUMENT    ERR = 1
	ERR_NOT_FOUND           ERR = 2
	ERR_PROCESSING          ERR = 3
	ERR_CONFIGURATION       ERR = 4
	ERR_CONTEXT_CANCELED    ERR = 5
	ERR_SERVICE_UNAVAILABLE ERR = 6
	ERR_ERROR               ERR = 9
	ERR_STORAGE_ERROR       ERR = 20
	ERR_BLOB_EXISTS         ERR = 21
	ERR_BLOB_NOT_FOUND      ERR = 22
	ERR_TX_INVALID          ERR = 30
	ERR_MALFORMED_ENCODING  ERR = 31
	ERR_OUTPUT_OUT_OF_RANGE ERR = 32
	ERR_UNSUPPORTED_SCRIPT  ERR = 40
	ERR_SCRIPT_MISMATCH     ERR = 41
	ERR_INVALID_SIGNATURE   ERR = 42
	ERR_BLOCK_INVALID       ERR = 50
)

var ERR_name = map[int32]string{
	0:  "UNKNOWN",
	1:  "INVALID_ARGUMENT",
	2:  "NOT_FOUND",
	3:  "PROCESSING",
	4:  "CONFIGURATION",
	5:  "CONTEXT_CANCELED",
	6:  "SERVICE_UNAVAILABLE",
	9:  "ERROR",
	20: "STORAGE_ERROR",
	21: "BLOB_EXISTS",
	22: "BLOB_NOT_FOUND",
	30: "TX_INVALID",
	31: "MALFORMED_ENCODING",
	32: "OUTPUT_OUT_OF_RANGE",
	40: "UNSUPPORTED_SCRIPT",
	41: "SCRIPT_MISMATCH",
	42: "INVALID_SIGNATURE",
	50: "BLOCK_INVALID",
}

func (x ERR) String() string {
	if name, ok := ERR_name[int32(x)]; ok {
		return name
	}

	return strconv.Itoa(int(x))
}
