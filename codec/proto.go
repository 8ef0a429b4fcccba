package codec

import (
	"errors"
	"time"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/unkn0wn-root/texcache/source"
)

// Proto encodes source.Blob in protobuf wire format, compatible with
//
//	message Blob {
//	  bytes  data       = 1;
//	  string mime       = 2;
//	  bool   animated   = 3;
//	  int64  fetched_at = 4; // unix nanoseconds
//	}
//
// Unknown fields are skipped on decode so the schema can grow.
type Proto struct{}

var _ Codec[source.Blob] = Proto{}

const (
	blobData      protowire.Number = 1
	blobMIME      protowire.Number = 2
	blobAnimated  protowire.Number = 3
	blobFetchedAt protowire.Number = 4
)

var errProtoType = errors.New("proto blob: unexpected wire type")

func (Proto) Encode(b source.Blob) ([]byte, error) {
	out := make([]byte, 0, len(b.Data)+len(b.MIME)+32)
	out = protowire.AppendTag(out, blobData, protowire.BytesType)
	out = protowire.AppendBytes(out, b.Data)
	if b.MIME != "" {
		out = protowire.AppendTag(out, blobMIME, protowire.BytesType)
		out = protowire.AppendString(out, b.MIME)
	}
	if b.Animated {
		out = protowire.AppendTag(out, blobAnimated, protowire.VarintType)
		out = protowire.AppendVarint(out, protowire.EncodeBool(true))
	}
	if !b.FetchedAt.IsZero() {
		out = protowire.AppendTag(out, blobFetchedAt, protowire.VarintType)
		out = protowire.AppendVarint(out, uint64(b.FetchedAt.UnixNano()))
	}
	return out, nil
}

func (Proto) Decode(raw []byte) (source.Blob, error) {
	var b source.Blob
	for len(raw) > 0 {
		num, typ, n := protowire.ConsumeTag(raw)
		if n < 0 {
			return source.Blob{}, protowire.ParseError(n)
		}
		raw = raw[n:]

		switch num {
		case blobData, blobMIME:
			if typ != protowire.BytesType {
				return source.Blob{}, errProtoType
			}
			v, n := protowire.ConsumeBytes(raw)
			if n < 0 {
				return source.Blob{}, protowire.ParseError(n)
			}
			if num == blobData {
				b.Data = append([]byte(nil), v...)
			} else {
				b.MIME = string(v)
			}
			raw = raw[n:]
		case blobAnimated, blobFetchedAt:
			if typ != protowire.VarintType {
				return source.Blob{}, errProtoType
			}
			v, n := protowire.ConsumeVarint(raw)
			if n < 0 {
				return source.Blob{}, protowire.ParseError(n)
			}
			if num == blobAnimated {
				b.Animated = protowire.DecodeBool(v)
			} else {
				b.FetchedAt = time.Unix(0, int64(v))
			}
			raw = raw[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, raw)
			if n < 0 {
				return source.Blob{}, protowire.ParseError(n)
			}
			raw = raw[n:]
		}
	}
	return b, nil
}
