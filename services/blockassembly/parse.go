package blockassembly

import (
	"encoding/binary"

	safeconversion "github.com/bsv-blockchain/go-safe-conversion"
	"github.com/bsv-blockchain/mineblock/errors"
	"github.com/bsv-blockchain/mineblock/model"
	"github.com/bsv-blockchain/mineblock/pkg/txcodec"
)

// ParsedBlock is a block split back into its length prefixed entries.
type ParsedBlock struct {
	Header   *model.BlockHeader
	Coinbase *BlockEntry
	Entries  []*BlockEntry
}

// BlockEntry is one framed transaction. Raw is the whole entry, Tx the
// transaction decoded from its start and Witness the length prefixed items
// that follow it.
type BlockEntry struct {
	Raw     []byte
	Tx      *txcodec.Tx
	Witness [][]byte
}

// ParseBlock reverses Assemble. Entry bytes alias block.
func ParseBlock(block []byte) (*ParsedBlock, error) {
	header, err := model.NewBlockHeaderFromBytes(block)
	if err != nil {
		return nil, errors.NewBlockInvalidError("block too short for header", err)
	}

	parsed := &ParsedBlock{Header: header}

	rest := block[model.BlockHeaderSize:]

	for len(rest) > 0 {
		var raw []byte

		raw, rest, err = splitLengthPrefixed(rest)
		if err != nil {
			return nil, errors.NewBlockInvalidError("entry %d", len(parsed.Entries), err)
		}

		entry, err := ParseEntry(raw)
		if err != nil {
			return nil, errors.NewBlockInvalidError("entry %d", len(parsed.Entries), err)
		}

		if parsed.Coinbase == nil {
			parsed.Coinbase = entry
			continue
		}

		parsed.Entries = append(parsed.Entries, entry)
	}

	if parsed.Coinbase == nil {
		return nil, errors.NewBlockInvalidError("block has no coinbase")
	}

	return parsed, nil
}

// ParseEntry decodes the transaction at the start of raw and the witness
// items appended after it.
func ParseEntry(raw []byte) (*BlockEntry, error) {
	tx, n, err := txcodec.DecodePrefix(raw)
	if err != nil {
		return nil, err
	}

	entry := &BlockEntry{Raw: raw, Tx: tx}

	rest := raw[n:]
	for len(rest) > 0 {
		var item []byte

		item, rest, err = splitLengthPrefixed(rest)
		if err != nil {
			return nil, err
		}

		entry.Witness = append(entry.Witness, item)
	}

	return entry, nil
}

// TxBytes returns the transaction part of the entry.
func (e *BlockEntry) TxBytes() []byte {
	size := len(e.Raw)
	for _, item := range e.Witness {
		size -= model.LengthPrefixSize + len(item)
	}

	return e.Raw[:size]
}

func splitLengthPrefixed(b []byte) ([]byte, []byte, error) {
	if len(b) < model.LengthPrefixSize {
		return nil, nil, errors.NewMalformedEncodingError("length prefix truncated, %d bytes left", len(b))
	}

	size, err := safeconversion.Uint64ToInt(binary.LittleEndian.Uint64(b))
	if err != nil {
		return nil, nil, errors.NewMalformedEncodingError("length prefix overflows", err)
	}

	b = b[model.LengthPrefixSize:]
	if size > len(b) {
		return nil, nil, errors.NewMalformedEncodingError("entry of %d bytes exceeds remaining %d", size, len(b))
	}

	return b[:size], b[size:], nil
}
