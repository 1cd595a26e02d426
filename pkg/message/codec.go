package message

import (
	"reflect"

	cborlib "github.com/fxamacker/cbor/v2"
)

// decMode decodes CBOR maps into Map (map[string]Value) instead of the
// library's default map[interface{}]interface{}, so Map.Action()/.Body()
// and any bot type-switch on Map work against real wire-decoded values,
// not just values built in-process. Integers decode as int64 (the Value
// integer type) rather than the library's default uint64 for non-negative
// values. Built once at init via DecOptions per cbor/v2's documented way
// to change the default map type.
var decMode = func() cborlib.DecMode {
	mode, err := cborlib.DecOptions{
		DefaultMapType: reflect.TypeOf(Map{}),
		IntDec:         cborlib.IntDecConvertSigned,
	}.DecMode()
	if err != nil {
		panic(err)
	}
	return mode
}()

// Encode marshals an Envelope to binary CBOR, the canonical on-the-wire
// encoding named in spec §6. Grounded on
// other_examples/filegrind-capns-go__plugin_runtime.go's "encode once at
// the boundary" StreamEmitter.EmitCbor contract.
func Encode(env Envelope) ([]byte, error) {
	return cborlib.Marshal(env)
}

// EncodeValue marshals a bare Value to binary CBOR. Used at source
// boundaries that exchange a single structured value rather than a full
// Envelope, such as a control-message record on the wire.
func EncodeValue(v Value) ([]byte, error) {
	return cborlib.Marshal(v)
}

// DecodeEnvelope unmarshals a sink-bound CBOR payload back into an
// Envelope. Used by test sinks and by sinks that need to inspect what was
// written rather than just store the bytes.
func DecodeEnvelope(data []byte) (Envelope, error) {
	var env Envelope
	if err := decMode.Unmarshal(data, &env); err != nil {
		return Envelope{}, err
	}
	return env, nil
}

// Decode unmarshals a control message from binary CBOR into a Value. The
// source hands the dispatcher raw bytes; only the structured-message
// boundary (here and in Encode) ever touches CBOR directly.
func Decode(data []byte) (Value, error) {
	var v Value
	if err := decMode.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}
