package store

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/fxamacker/cbor/v2"

	"github.com/BMMUGOMBA/terminal-pulse/internal/entity"
)

const (
	CodecJSON = "json"
	CodecCBOR = "cbor"
)

// Codec serializes whole collections for the backend.
type Codec interface {
	Name() string
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

func NewCodec(name string) (Codec, error) {
	switch name {
	case "", CodecJSON:
		return jsonCodec{}, nil
	case CodecCBOR:
		return newCBORCodec()
	default:
		return nil, fmt.Errorf("%w: %q", entity.ErrUnknownCodec, name)
	}
}

type jsonCodec struct{}

func (jsonCodec) Name() string { return CodecJSON }

func (jsonCodec) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

func (jsonCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

type cborCodec struct {
	enc cbor.EncMode
	dec cbor.DecMode
}

func newCBORCodec() (cborCodec, error) {
	encOptions := cbor.CoreDetEncOptions()
	// Timestamps keep nanoseconds so a round trip compares equal.
	encOptions.Time = cbor.TimeRFC3339Nano

	enc, err := encOptions.EncMode()
	if err != nil {
		return cborCodec{}, fmt.Errorf("cbor encoder: %w", err)
	}

	dec, err := cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		return cborCodec{}, fmt.Errorf("cbor decoder: %w", err)
	}

	return cborCodec{enc: enc, dec: dec}, nil
}

func (cborCodec) Name() string { return CodecCBOR }

func (c cborCodec) Marshal(v any) ([]byte, error) { return c.enc.Marshal(v) }

func (c cborCodec) Unmarshal(data []byte, v any) error { return c.dec.Unmarshal(data, v) }
