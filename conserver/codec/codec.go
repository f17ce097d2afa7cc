// Copyright (c) 2026
// Author: Jeff Weisberg <jaw @ tcp4me.com>
// Created: 2026-Mar-12 09:20 (EDT)
// Function: cbor encoding for messages between master and workers

package codec

import (
	"io"
	"reflect"

	"conserver.domain/conserver/group"
	"github.com/fxamacker/cbor/v2"
)

// deterministic: same data, same bytes
var encMode cbor.EncMode
var decMode cbor.DecMode

func init() {
	var err error

	opts := cbor.CoreDetEncOptions()
	opts.TextMarshaler = cbor.TextMarshalerTextString
	encMode, err = opts.EncMode()
	if err != nil {
		panic("codec: cannot init encoder: " + err.Error())
	}

	decMode, err = cbor.DecOptions{
		DefaultMapType:  reflect.TypeOf(map[string]any(nil)),
		TextUnmarshaler: cbor.TextUnmarshalerTextString,
	}.DecMode()
	if err != nil {
		panic("codec: cannot init decoder: " + err.Error())
	}
}

func Marshal(v any) ([]byte, error) {
	return encMode.Marshal(v)
}

func Unmarshal(data []byte, v any) error {
	return decMode.Unmarshal(data, v)
}

func NewEncoder(w io.Writer) *cbor.Encoder {
	return encMode.NewEncoder(w)
}

func NewDecoder(r io.Reader) *cbor.Decoder {
	return decMode.NewDecoder(r)
}

// Batch is what one reconfiguration tells the i/o layer
type Batch struct {
	Generation int           `cbor:"gen"`
	Digest     string        `cbor:"digest,omitempty"`
	Events     []group.Event `cbor:"events"`
}

// WriteBatch sends a batch as one cbor item
func WriteBatch(w io.Writer, b *Batch) error {
	return NewEncoder(w).Encode(b)
}

// ReadBatch reads the next batch
func ReadBatch(d *cbor.Decoder) (*Batch, error) {

	b := &Batch{}
	err := d.Decode(b)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// Diagnose renders cbor in diagnostic notation, for debugging
func Diagnose(data []byte) (string, error) {
	return cbor.Diagnose(data)
}
